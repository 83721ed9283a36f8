package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/pkg/grader"
)

// ErrVideoUnavailable indicates no video generation backend is configured.
var ErrVideoUnavailable = errors.New("video generation is not available")

// AssistantService fronts the conversational and video features of the
// grading provider.
type AssistantService interface {
	Ask(ctx context.Context, session Session, req dto.AskRequest) (dto.AskResponse, error)
	GenerateVideo(ctx context.Context, session Session, req dto.VideoRequest) (dto.VideoResponse, error)
}

type assistantService struct {
	assistant grader.Assistant
	videos    grader.VideoGenerator
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAssistantService constructs the assistant facade. The video generator
// may be nil when the provider does not support it.
func NewAssistantService(assistant grader.Assistant, videos grader.VideoGenerator, validate *validator.Validate, logger zerolog.Logger) AssistantService {
	return &assistantService{
		assistant: assistant,
		videos:    videos,
		validator: validate,
		logger:    logger.With().Str("component", "assistant_service").Logger(),
	}
}

func (s *assistantService) Ask(ctx context.Context, session Session, req dto.AskRequest) (dto.AskResponse, error) {
	if !session.Authenticated() {
		return dto.AskResponse{}, ErrNotAuthenticated
	}

	req.StudentID = session.UserID
	if err := s.validator.Struct(req); err != nil {
		return dto.AskResponse{}, err
	}

	answer, err := s.assistant.Ask(ctx, grader.AskRequest{
		StudentID: req.StudentID,
		Question:  req.Question,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		AuthToken: session.Token,
	})
	if err != nil {
		return dto.AskResponse{}, err
	}

	return dto.AskResponse{Answer: answer}, nil
}

func (s *assistantService) GenerateVideo(ctx context.Context, session Session, req dto.VideoRequest) (dto.VideoResponse, error) {
	if !session.Authenticated() {
		return dto.VideoResponse{}, ErrNotAuthenticated
	}
	if s.videos == nil {
		return dto.VideoResponse{}, ErrVideoUnavailable
	}

	req.StudentID = session.UserID
	if err := s.validator.Struct(req); err != nil {
		return dto.VideoResponse{}, err
	}

	video, err := s.videos.GenerateVideo(ctx, grader.VideoRequest{
		StudentID:    req.StudentID,
		SubjectID:    req.SubjectID,
		TopicContext: req.TopicContext,
		Title:        req.Title,
		TeacherID:    req.TeacherID,
		AuthToken:    session.Token,
	})
	if err != nil {
		return dto.VideoResponse{}, err
	}

	return dto.VideoResponse{
		VideoID: video.VideoID,
		URL:     video.URL,
		Title:   video.Title,
		Message: video.Message,
	}, nil
}
