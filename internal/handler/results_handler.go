package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupulse/school-portal-api/internal/dto"
	"github.com/edupulse/school-portal-api/internal/grading"
	"github.com/edupulse/school-portal-api/internal/middleware"
	"github.com/edupulse/school-portal-api/internal/service"
	"github.com/edupulse/school-portal-api/internal/utils"
)

// ResultsHandler serves the teacher's class results endpoints.
type ResultsHandler struct {
	service   service.ResultsService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewResultsHandler constructs the handler instance.
func NewResultsHandler(service service.ResultsService, validate *validator.Validate, logger zerolog.Logger) *ResultsHandler {
	return &ResultsHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "results_handler").Logger(),
	}
}

// Register wires the results routes.
func (h *ResultsHandler) Register(router fiber.Router) {
	router.Get("/results", h.list)
	router.Post("/results", h.create)
	router.Delete("/results/:id", h.remove)
	router.Get("/results/aggregate", h.aggregate)
}

func (h *ResultsHandler) list(c *fiber.Ctx) error {
	var filter dto.PaperResultFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid sort key")
	}

	results, err := h.service.List(c.Context(), middleware.SessionFromCtx(c), filter)
	if err != nil {
		return h.sendResultsError(c, err, "failed to list results")
	}

	return utils.SendSuccess(c, fiber.StatusOK, results, "results retrieved")
}

func (h *ResultsHandler) create(c *fiber.Ctx) error {
	var req dto.PaperResultCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid result payload")
	}

	result := grading.PaperResult{
		StudentName:    req.StudentName,
		AssignmentName: req.AssignmentName,
		Score:          req.Score,
		Feedback:       req.Feedback,
		Analysis:       req.Analysis,
	}
	if req.SubmissionDate != nil {
		result.SubmittedAt = *req.SubmissionDate
	}
	if req.CheckedDate != nil {
		result.CheckedAt = *req.CheckedDate
	}

	added, err := h.service.Append(c.Context(), middleware.SessionFromCtx(c), result)
	if err != nil {
		return h.sendResultsError(c, err, "failed to save result")
	}

	return utils.SendSuccess(c, fiber.StatusCreated, added, "result saved")
}

func (h *ResultsHandler) remove(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "result id is required")
	}

	if err := h.service.Remove(c.Context(), middleware.SessionFromCtx(c), id); err != nil {
		return h.sendResultsError(c, err, "failed to delete result")
	}

	return utils.SendSuccess(c, fiber.StatusOK, nil, "result deleted")
}

func (h *ResultsHandler) aggregate(c *fiber.Ctx) error {
	aggregate, err := h.service.Aggregate(c.Context(), middleware.SessionFromCtx(c))
	if err != nil {
		return h.sendResultsError(c, err, "failed to aggregate results")
	}

	return utils.SendSuccess(c, fiber.StatusOK, aggregate, "aggregate computed")
}

func (h *ResultsHandler) sendResultsError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, service.ErrNotAuthenticated) {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}
	h.logger.Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}
