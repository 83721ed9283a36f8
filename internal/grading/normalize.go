package grading

import "encoding/json"

// Defaults filled in when the grading backend omits fields. The backend's
// response shape is not contractually fixed, so absent values degrade to
// these rather than failing the submission.
const (
	DefaultVerificationScore = 0.85
	DefaultSuggestedGrade    = 80

	// extractedTextLimit bounds the text synthesized from an unstructured
	// response when it doubles as the extracted-text field.
	extractedTextLimit = 500
)

// partialResult mirrors Result for the lenient decode pass. Only the slice
// fields distinguish "missing" (nil) from "present and empty"; scalar zeros
// coalesce to the defaults, matching how the reference clients treat falsy
// values.
type partialResult struct {
	HandwritingVerificationScore float64       `json:"handwritingVerificationScore"`
	ExtractedText                string        `json:"extractedText"`
	AISuggestedGrade             int           `json:"aiSuggestedGrade"`
	Mistakes                     []string      `json:"mistakes"`
	Feedback                     string        `json:"feedback"`
	RubricPoints                 []RubricPoint `json:"rubricPoints"`
}

// Normalize reconciles the raw feedback payload returned by the grading
// backend into a Result. It first attempts a structured parse; if the payload
// is valid JSON matching the Result shape, missing sub-fields are filled with
// documented defaults. Anything else is treated as free text and a Result is
// synthesized from it wholesale.
func Normalize(feedback string) Result {
	var parsed partialResult
	if err := json.Unmarshal([]byte(feedback), &parsed); err == nil {
		return fillDefaults(parsed, feedback)
	}
	return synthesizeFromText(feedback)
}

func fillDefaults(parsed partialResult, raw string) Result {
	score := parsed.AISuggestedGrade
	if score == 0 {
		score = DefaultSuggestedGrade
	}

	verification := parsed.HandwritingVerificationScore
	if verification == 0 {
		verification = DefaultVerificationScore
	}

	extracted := parsed.ExtractedText
	if extracted == "" {
		extracted = raw
	}

	text := parsed.Feedback
	if text == "" {
		text = raw
	}

	mistakes := parsed.Mistakes
	if mistakes == nil {
		mistakes = []string{}
	}

	// A present-but-empty rubric list is respected; only an absent one is
	// replaced by the synthetic overall entry.
	rubric := parsed.RubricPoints
	if rubric == nil {
		rubric = []RubricPoint{{
			Criteria:     "Overall Quality",
			MaxPoints:    100,
			EarnedPoints: float64(score),
			Feedback:     raw,
		}}
	}

	return Result{
		HandwritingVerificationScore: verification,
		ExtractedText:                extracted,
		AISuggestedGrade:             score,
		Mistakes:                     mistakes,
		Feedback:                     text,
		RubricPoints:                 rubric,
	}
}

func synthesizeFromText(raw string) Result {
	return Result{
		HandwritingVerificationScore: DefaultVerificationScore,
		ExtractedText:                truncate(raw, extractedTextLimit),
		AISuggestedGrade:             DefaultSuggestedGrade,
		Mistakes:                     []string{},
		Feedback:                     raw,
		RubricPoints: []RubricPoint{{
			Criteria:     "AI Analysis",
			MaxPoints:    100,
			EarnedPoints: DefaultSuggestedGrade,
			Feedback:     raw,
		}},
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
