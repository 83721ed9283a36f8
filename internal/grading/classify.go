package grading

// VerificationStatus describes how confidently the artifact's handwriting was
// matched to the submitting student.
type VerificationStatus string

const (
	VerificationVerified     VerificationStatus = "verified"
	VerificationPartialMatch VerificationStatus = "partial_match"
	VerificationFailed       VerificationStatus = "failed"
)

// ClassifyVerification maps a handwriting verification score to a status.
// Band lower bounds are inclusive: 0.8 verifies, 0.6 is a partial match.
func ClassifyVerification(score float64) VerificationStatus {
	switch {
	case score >= 0.8:
		return VerificationVerified
	case score >= 0.6:
		return VerificationPartialMatch
	default:
		return VerificationFailed
	}
}

// LetterGrade is the letter derived from a 0-100 score.
type LetterGrade string

const (
	GradeA LetterGrade = "A"
	GradeB LetterGrade = "B"
	GradeC LetterGrade = "C"
	GradeD LetterGrade = "D"
	GradeF LetterGrade = "F"
)

// ClassifyGrade maps a 0-100 score to a letter grade. Band lower bounds are
// inclusive: 90 is an A, 89 a B, and so on down to F below 60.
func ClassifyGrade(score int) LetterGrade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}
