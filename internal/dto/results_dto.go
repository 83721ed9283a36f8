package dto

import (
	"time"

	"github.com/edupulse/school-portal-api/internal/grading"
)

// PaperResultCreateRequest saves one checked paper into the teacher's class
// results list.
type PaperResultCreateRequest struct {
	StudentName    string           `json:"studentName" validate:"required,min=1,max=255"`
	AssignmentName string           `json:"assignmentName" validate:"required,min=1,max=255"`
	Score          int              `json:"score" validate:"gte=0,lte=100"`
	Feedback       string           `json:"feedback"`
	SubmissionDate *time.Time       `json:"submissionDate"`
	CheckedDate    *time.Time       `json:"checkedDate"`
	Analysis       grading.Analysis `json:"aiAnalysis"`
}

// PaperResultFilter narrows and orders the teacher's result list.
type PaperResultFilter struct {
	Query string `query:"q"`
	Sort  string `query:"sort" validate:"omitempty,oneof=date score name assignment"`
}

// PaperResultAggregate summarizes the teacher's full (unfiltered) result list.
type PaperResultAggregate struct {
	AverageScore            int `json:"averageScore"`
	DistinctStudentCount    int `json:"distinctStudentCount"`
	DistinctAssignmentCount int `json:"distinctAssignmentCount"`
}
