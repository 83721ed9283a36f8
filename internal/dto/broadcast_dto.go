package dto

// BroadcastRequest is an administrator's one-to-many notification.
type BroadcastRequest struct {
	SchoolID   uint   `json:"schoolId" validate:"required,gt=0"`
	Message    string `json:"message" validate:"required,min=1,max=4000"`
	Type       string `json:"type" validate:"required,oneof=INFO ALERT"`
	ToStudents bool   `json:"toStudents"`
	ToTeachers bool   `json:"toTeachers"`
}
