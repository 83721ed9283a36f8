package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edupulse/school-portal-api/internal/models"
)

// UserRepository resolves portal accounts for login and broadcast fan-out.
type UserRepository interface {
	FindByLogin(ctx context.Context, schoolName, username, role string) (models.User, error)
	ListRecipientIDs(ctx context.Context, schoolID uint, roles []string) ([]uint, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a gorm-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByLogin(ctx context.Context, schoolName, username, role string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN schools ON schools.id = users.school_id").
		Where("schools.name = ? AND users.username = ? AND users.role = ? AND users.active", schoolName, username, role).
		Preload("School").
		First(&user).Error
	return user, err
}

func (r *userRepository) ListRecipientIDs(ctx context.Context, schoolID uint, roles []string) ([]uint, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("school_id = ? AND role IN ? AND active", schoolID, roles).
		Pluck("id", &ids).Error
	return ids, err
}
