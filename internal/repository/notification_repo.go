package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edupulse/school-portal-api/internal/models"
)

// NotificationRepository persists delivered broadcast messages.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []models.Notification) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs a gorm-backed notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, 200).Error
}
