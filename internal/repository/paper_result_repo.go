package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edupulse/school-portal-api/internal/grading"
	"github.com/edupulse/school-portal-api/internal/models"
)

// PaperResultStore is the persistence port behind the teacher's class result
// list. The reconciliation logic only ever sees this interface, so browser
// storage, a relational store, or an in-memory list are interchangeable.
type PaperResultStore interface {
	List(ctx context.Context, teacherID uint) ([]grading.PaperResult, error)
	Create(ctx context.Context, teacherID uint, result grading.PaperResult) error
	Delete(ctx context.Context, teacherID uint, id string) error
}

type paperResultStore struct {
	db *gorm.DB
}

// NewPaperResultStore constructs a gorm-backed paper result store.
func NewPaperResultStore(db *gorm.DB) PaperResultStore {
	return &paperResultStore{db: db}
}

func (s *paperResultStore) List(ctx context.Context, teacherID uint) ([]grading.PaperResult, error) {
	var records []models.PaperRecord
	if err := s.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	results := make([]grading.PaperResult, 0, len(records))
	for _, record := range records {
		result, err := recordToResult(record)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *paperResultStore) Create(ctx context.Context, teacherID uint, result grading.PaperResult) error {
	analysis, err := json.Marshal(result.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	record := models.PaperRecord{
		ID:             result.ID,
		TeacherID:      teacherID,
		StudentName:    result.StudentName,
		AssignmentName: result.AssignmentName,
		Score:          result.Score,
		Grade:          string(result.Grade),
		Feedback:       result.Feedback,
		SubmittedAt:    result.SubmittedAt,
		CheckedAt:      result.CheckedAt,
		Analysis:       datatypes.JSON(analysis),
	}

	return s.db.WithContext(ctx).Create(&record).Error
}

// Delete removes by identity. Deleting an absent id is a no-op, not an error.
func (s *paperResultStore) Delete(ctx context.Context, teacherID uint, id string) error {
	return s.db.WithContext(ctx).
		Where("teacher_id = ? AND id = ?", teacherID, id).
		Delete(&models.PaperRecord{}).Error
}

func recordToResult(record models.PaperRecord) (grading.PaperResult, error) {
	var analysis grading.Analysis
	if len(record.Analysis) > 0 {
		if err := json.Unmarshal(record.Analysis, &analysis); err != nil {
			return grading.PaperResult{}, fmt.Errorf("unmarshal analysis for %s: %w", record.ID, err)
		}
	}

	return grading.PaperResult{
		ID:             record.ID,
		StudentName:    record.StudentName,
		AssignmentName: record.AssignmentName,
		Score:          record.Score,
		Grade:          grading.LetterGrade(record.Grade),
		Feedback:       record.Feedback,
		SubmittedAt:    record.SubmittedAt,
		CheckedAt:      record.CheckedAt,
		Analysis:       analysis,
	}, nil
}
