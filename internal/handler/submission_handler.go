package handler

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/grading"
	"github.com/edupulse/school-portal-api/internal/middleware"
	"github.com/edupulse/school-portal-api/internal/service"
	"github.com/edupulse/school-portal-api/internal/utils"
	"github.com/edupulse/school-portal-api/pkg/grader"
)

// SubmissionHandler serves the assignment submission endpoint.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs the handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register wires the submission route.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("/assignments/submit", h.submit)
}

// submit returns the normalized grading result verbatim; its top-level
// feedback field is part of the client contract.
func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "submission file is required")
	}

	var details dto.SubmissionDetails
	if raw := c.FormValue("details"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &details); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid details payload")
		}
	}

	result, err := h.service.Submit(c.Context(), session, file, details, nil)
	if err != nil {
		return h.sendSubmitError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *SubmissionHandler) sendSubmitError(c *fiber.Ctx, err error) error {
	var (
		validationErr validator.ValidationErrors
		transportErr  *grader.TransportError
	)

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrSubmissionInFlight):
		return utils.SendError(c, fiber.StatusConflict, "a submission is already being processed")
	case errors.Is(err, service.ErrArtifactRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "submission file is required")
	case errors.Is(err, grading.ErrUnsupportedMediaType):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "only JPG, PNG, GIF and PDF files are accepted")
	case errors.Is(err, grading.ErrPayloadTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds the 10MB limit")
	case errors.Is(err, grader.ErrMissingFeedback):
		return utils.SendError(c, fiber.StatusBadGateway, "grading service returned no feedback")
	case errors.As(err, &transportErr):
		h.logger.Error().Err(err).Msg("grading transport failed")
		return utils.SendError(c, fiber.StatusBadGateway, transportErr.Message)
	case errors.As(err, &validationErr):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission details")
	default:
		h.logger.Error().Err(err).Msg("submission failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "submission failed")
	}
}
