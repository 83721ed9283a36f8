package dto

// SubmissionDetails is the JSON sidecar sent next to the artifact in the
// multipart submit request. AssignmentID and SubjectID are null for
// open-ended "ask the assistant" submissions; StudentID is resolved from the
// session server-side and any client-supplied value is ignored.
type SubmissionDetails struct {
	AssignmentID *uint  `json:"assignmentId"`
	StudentID    uint   `json:"studentId"`
	SubjectID    *uint  `json:"subjectId"`
	Notes        string `json:"notes" validate:"max=2000"`
}
