package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaperRecord persists one checked-paper result in a teacher's class list.
// Analysis stores the per-dimension AI breakdown as JSON.
type PaperRecord struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	TeacherID      uint           `gorm:"not null;index" json:"teacher_id"`
	StudentName    string         `gorm:"size:255;not null" json:"student_name"`
	AssignmentName string         `gorm:"size:255;not null" json:"assignment_name"`
	Score          int            `gorm:"not null" json:"score"`
	Grade          string         `gorm:"size:2;not null" json:"grade"`
	Feedback       string         `gorm:"type:text" json:"feedback"`
	SubmittedAt    time.Time      `json:"submitted_at"`
	CheckedAt      time.Time      `json:"checked_at"`
	Analysis       datatypes.JSON `json:"analysis"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
