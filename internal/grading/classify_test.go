package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyVerificationBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  VerificationStatus
	}{
		{1.0, VerificationVerified},
		{0.8, VerificationVerified},
		{0.79, VerificationPartialMatch},
		{0.6, VerificationPartialMatch},
		{0.59, VerificationFailed},
		{0, VerificationFailed},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ClassifyVerification(tc.score), "score %v", tc.score)
	}
}

func TestClassifyGradeBands(t *testing.T) {
	cases := []struct {
		score int
		want  LetterGrade
	}{
		{100, GradeA},
		{95, GradeA},
		{90, GradeA},
		{89, GradeB},
		{80, GradeB},
		{79, GradeC},
		{70, GradeC},
		{69, GradeD},
		{60, GradeD},
		{59, GradeF},
		{0, GradeF},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ClassifyGrade(tc.score), "score %d", tc.score)
	}
}

func TestClampRatio(t *testing.T) {
	require.Equal(t, 0.5, ClampRatio(50, 100))
	require.Equal(t, 1.0, ClampRatio(120, 100))
	require.Equal(t, 0.0, ClampRatio(-5, 100))
	require.Equal(t, 0.0, ClampRatio(10, 0))
}
