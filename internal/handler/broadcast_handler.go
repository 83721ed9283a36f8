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
)

// BroadcastHandler serves the school-wide broadcast endpoint.
type BroadcastHandler struct {
	service service.BroadcastService
	logger  zerolog.Logger
}

// NewBroadcastHandler constructs the handler instance.
func NewBroadcastHandler(service service.BroadcastService, logger zerolog.Logger) *BroadcastHandler {
	return &BroadcastHandler{
		service: service,
		logger:  logger.With().Str("component", "broadcast_handler").Logger(),
	}
}

// Register wires the broadcast route.
func (h *BroadcastHandler) Register(router fiber.Router) {
	router.Post("/", h.broadcast)
}

// broadcast answers with the bare recipient count; the numeric body is part
// of the client contract.
func (h *BroadcastHandler) broadcast(c *fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	count, err := h.service.Broadcast(c.Context(), middleware.SessionFromCtx(c), req)
	if err != nil {
		var validationErr validator.ValidationErrors
		switch {
		case errors.Is(err, service.ErrNotAuthenticated):
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		case errors.Is(err, service.ErrEmptyBroadcast):
			return utils.SendError(c, fiber.StatusBadRequest, "broadcast message is empty")
		case errors.As(err, &validationErr):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid broadcast request")
		default:
			h.logger.Error().Err(err).Msg("broadcast failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "broadcast failed")
		}
	}

	return c.Status(fiber.StatusOK).JSON(count)
}
