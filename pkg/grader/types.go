package grader

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingFeedback indicates the grading backend answered successfully but
// violated the response contract by omitting the feedback field.
var ErrMissingFeedback = errors.New("grading response missing feedback")

// GradeRequest carries one artifact and its metadata sidecar to a provider.
type GradeRequest struct {
	FileName     string
	MimeType     string
	Payload      []byte
	AssignmentID *uint
	StudentID    uint
	SubjectID    *uint
	Notes        string
	// AuthToken is forwarded as a bearer credential when the provider is a
	// remote service; direct providers ignore it.
	AuthToken string
}

// AskRequest is a free-form question for the assistant.
type AskRequest struct {
	StudentID uint
	Question  string
	SubjectID *uint
	TeacherID *uint
	AuthToken string
}

// VideoRequest asks the backend to generate a learning video for a topic.
type VideoRequest struct {
	StudentID    uint
	SubjectID    uint
	TopicContext string
	Title        string
	TeacherID    *uint
	AuthToken    string
}

// VideoResult describes a generated (or queued) learning video.
type VideoResult struct {
	VideoID uint   `json:"videoId"`
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// Grader produces the raw feedback payload for a submitted artifact. The
// payload may be structured JSON or free text; callers normalize it.
type Grader interface {
	Grade(ctx context.Context, req GradeRequest) (string, error)
}

// Assistant answers open-ended student questions.
type Assistant interface {
	Ask(ctx context.Context, req AskRequest) (string, error)
}

// VideoGenerator requests AI-generated learning videos.
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, req VideoRequest) (VideoResult, error)
}

// TransportError reports a failed round-trip to a remote provider: either the
// call itself failed or the service answered with a non-success status. The
// message carries the best-available error text.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("grading transport failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("grading transport failed: %s", e.Message)
}
