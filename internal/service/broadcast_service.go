package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/models"
	"github.com/edupulse/school-portal-api/internal/observability"
	"github.com/edupulse/school-portal-api/internal/repository"
)

// ErrEmptyBroadcast indicates the message was blank after sanitization.
var ErrEmptyBroadcast = errors.New("broadcast message is empty")

// BroadcastService fans an announcement out to every matching account in a
// school and reports how many notifications were written.
type BroadcastService interface {
	Broadcast(ctx context.Context, session Session, req dto.BroadcastRequest) (int, error)
}

type broadcastService struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
	now           func() time.Time
}

// NewBroadcastService constructs the broadcast fan-out service.
func NewBroadcastService(users repository.UserRepository, notifications repository.NotificationRepository, validate *validator.Validate, logger zerolog.Logger) BroadcastService {
	return &broadcastService{
		users:         users,
		notifications: notifications,
		validator:     validate,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "broadcast_service").Logger(),
		now:           time.Now,
	}
}

func (s *broadcastService) Broadcast(ctx context.Context, session Session, req dto.BroadcastRequest) (int, error) {
	if !session.Authenticated() {
		return 0, ErrNotAuthenticated
	}
	if err := s.validator.Struct(req); err != nil {
		return 0, err
	}

	// Broadcast text renders in every recipient's portal, so markup is
	// stripped rather than escaped.
	message := strings.TrimSpace(s.sanitizer.Sanitize(req.Message))
	if message == "" {
		return 0, ErrEmptyBroadcast
	}

	var roles []string
	if req.ToStudents {
		roles = append(roles, models.RoleStudent)
	}
	if req.ToTeachers {
		roles = append(roles, models.RoleTeacher)
	}
	if len(roles) == 0 {
		return 0, nil
	}

	recipients, err := s.users.ListRecipientIDs(ctx, req.SchoolID, roles)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	now := s.now()
	notifications := make([]models.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, models.Notification{
			SchoolID:  req.SchoolID,
			UserID:    userID,
			Message:   message,
			Type:      req.Type,
			CreatedAt: now,
		})
	}

	if err := s.notifications.CreateBatch(ctx, notifications); err != nil {
		return 0, err
	}

	observability.BroadcastDeliveries().Add(float64(len(notifications)))
	s.logger.Info().
		Uint("school_id", req.SchoolID).
		Int("recipients", len(notifications)).
		Str("type", req.Type).
		Msg("broadcast delivered")

	return len(notifications), nil
}
