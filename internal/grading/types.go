package grading

import "time"

// Result is the normalized outcome of one grading round-trip, regardless of
// the shape the grading backend responded with.
type Result struct {
	HandwritingVerificationScore float64       `json:"handwritingVerificationScore"`
	ExtractedText                string        `json:"extractedText"`
	AISuggestedGrade             int           `json:"aiSuggestedGrade"`
	Mistakes                     []string      `json:"mistakes"`
	Feedback                     string        `json:"feedback"`
	RubricPoints                 []RubricPoint `json:"rubricPoints"`
}

// RubricPoint is one scored criterion within a grading result. Earned and max
// values come from an untrusted upstream; use ClampRatio before rendering
// percentages.
type RubricPoint struct {
	Criteria     string  `json:"criteria"`
	MaxPoints    float64 `json:"maxPoints"`
	EarnedPoints float64 `json:"earnedPoints"`
	Feedback     string  `json:"feedback"`
}

// Analysis is the per-dimension breakdown attached to a saved paper result.
type Analysis struct {
	Accuracy     int `json:"accuracy"`
	Completeness int `json:"completeness"`
	Clarity      int `json:"clarity"`
	Creativity   int `json:"creativity"`
}

// PaperResult is the teacher-facing aggregate built from a checked paper.
type PaperResult struct {
	ID             string      `json:"id"`
	StudentName    string      `json:"studentName"`
	AssignmentName string      `json:"assignmentName"`
	Score          int         `json:"score"`
	Grade          LetterGrade `json:"grade"`
	Feedback       string      `json:"feedback"`
	SubmittedAt    time.Time   `json:"submissionDate"`
	CheckedAt      time.Time   `json:"checkedDate"`
	Analysis       Analysis    `json:"aiAnalysis"`
}

// ClampRatio returns earned/max clamped to [0,1]. A non-positive max yields 0.
func ClampRatio(earned, max float64) float64 {
	if max <= 0 {
		return 0
	}
	ratio := earned / max
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
