package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/repository"
)

// ErrInvalidCredentials covers both unknown accounts and wrong passwords so
// the two cases are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates portal accounts and mints session tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService constructs the login service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.FindByLogin(ctx, req.SchoolName, req.Username, req.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.mintToken(user.ID, user.Role, user.SchoolID)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Str("role", user.Role).
		Msg("user logged in")

	return dto.LoginResponse{
		Success:  true,
		Token:    token,
		Role:     user.Role,
		UserID:   user.ID,
		SchoolID: user.SchoolID,
		Message:  "login successful",
	}, nil
}

func (s *authService) mintToken(userID uint, role string, schoolID uint) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":       userID,
		"role":      role,
		"school_id": schoolID,
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
