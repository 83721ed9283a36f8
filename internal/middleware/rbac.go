package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/edupulse/school-portal-api/internal/utils"
)

// RequireRole ensures the authenticated session carries one of the allowed
// roles. It must run after JWTProtected.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		session := SessionFromCtx(c)
		role := strings.ToLower(strings.TrimSpace(session.Role))
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
