package dto

// AskRequest is a free-form question for the AI assistant.
type AskRequest struct {
	StudentID uint   `json:"studentId"`
	Question  string `json:"question" validate:"required,min=1,max=4000"`
	SubjectID *uint  `json:"subjectId"`
	TeacherID *uint  `json:"teacherId"`
}

// AskResponse carries the assistant's answer; the shape is part of the
// client contract.
type AskResponse struct {
	Answer string `json:"answer"`
}

// VideoRequest asks for an AI-generated learning video.
type VideoRequest struct {
	StudentID    uint   `json:"studentId"`
	SubjectID    uint   `json:"subjectId" validate:"required,gt=0"`
	TopicContext string `json:"topicContext" validate:"required,min=1"`
	Title        string `json:"title"`
	TeacherID    *uint  `json:"teacherId"`
}

// VideoResponse describes the generated (or queued) video.
type VideoResponse struct {
	VideoID uint   `json:"videoId"`
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}
