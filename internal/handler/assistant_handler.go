package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/middleware"
	"github.com/edupulse/school-portal-api/internal/service"
	"github.com/edupulse/school-portal-api/internal/utils"
	"github.com/edupulse/school-portal-api/pkg/grader"
)

// AssistantHandler serves the AI question and video endpoints.
type AssistantHandler struct {
	service service.AssistantService
	logger  zerolog.Logger
}

// NewAssistantHandler constructs the handler instance.
func NewAssistantHandler(service service.AssistantService, logger zerolog.Logger) *AssistantHandler {
	return &AssistantHandler{
		service: service,
		logger:  logger.With().Str("component", "assistant_handler").Logger(),
	}
}

// Register wires the assistant routes.
func (h *AssistantHandler) Register(router fiber.Router) {
	router.Post("/ask", h.ask)
	router.Post("/videos", h.videos)
}

func (h *AssistantHandler) ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Ask(c.Context(), middleware.SessionFromCtx(c), req)
	if err != nil {
		return h.sendAssistantError(c, err, "assistant request failed")
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AssistantHandler) videos(c *fiber.Ctx) error {
	var req dto.VideoRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.GenerateVideo(c.Context(), middleware.SessionFromCtx(c), req)
	if err != nil {
		return h.sendAssistantError(c, err, "video generation failed")
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *AssistantHandler) sendAssistantError(c *fiber.Ctx, err error, fallback string) error {
	var (
		validationErr validator.ValidationErrors
		transportErr  *grader.TransportError
	)

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrVideoUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "video generation is not available")
	case errors.As(err, &validationErr):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request")
	case errors.As(err, &transportErr):
		h.logger.Error().Err(err).Msg("assistant transport failed")
		return utils.SendError(c, fiber.StatusBadGateway, transportErr.Message)
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
