package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edupulse/school-portal-api/internal/handler"
	"github.com/edupulse/school-portal-api/internal/middleware"
	"github.com/edupulse/school-portal-api/internal/models"
)

// Dependencies carries the constructed handlers into route registration.
type Dependencies struct {
	JWTSecret string

	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Submission *handler.SubmissionHandler
	Assistant  *handler.AssistantHandler
	Broadcast  *handler.BroadcastHandler
	Results    *handler.ResultsHandler
}

// Register wires every route group onto the app.
func Register(app *fiber.App, deps Dependencies) {
	deps.Health.Register(app.Group("/api/v1"))

	api := app.Group("/api")
	deps.Auth.Register(api.Group("/auth"))

	protected := middleware.JWTProtected(deps.JWTSecret)

	ai := api.Group("/ai", protected)
	deps.Submission.Register(ai)
	deps.Assistant.Register(ai)

	deps.Broadcast.Register(api.Group("/broadcast", protected, middleware.RequireRole(models.RoleAdmin)))
	deps.Results.Register(api.Group("/teacher", protected, middleware.RequireRole(models.RoleTeacher)))
}
