package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/service"
)

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
}

// login returns the LoginResponse shape verbatim; clients depend on its
// top-level fields rather than the common envelope.
func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.LoginResponse{
			Message: "invalid request body",
		})
	}

	resp, err := h.service.Login(c.Context(), req)
	if err != nil {
		var validationErr validator.ValidationErrors
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.LoginResponse{
				Message: "invalid credentials",
			})
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusBadRequest).JSON(dto.LoginResponse{
				Message: "invalid login request",
			})
		default:
			h.logger.Error().Err(err).Msg("login failed")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.LoginResponse{
				Message: "login failed",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
