package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edupulse/school-portal-api/internal/utils"
)

// HealthHandler serves liveness probes.
type HealthHandler struct {
	appName string
}

// NewHealthHandler constructs the handler instance.
func NewHealthHandler(appName string) *HealthHandler {
	return &HealthHandler{appName: appName}
}

// Register wires the health route.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return utils.SendSuccess(c, fiber.StatusOK, fiber.Map{
		"service": h.appName,
		"status":  "ok",
	}, "healthy")
}
