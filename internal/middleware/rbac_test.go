package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/school-portal-api/internal/models"
)

func roleGuardedApp(allowed ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", JWTProtected(testSecret), RequireRole(allowed...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsAuthorizedRole(t *testing.T) {
	app := roleGuardedApp(models.RoleAdmin, models.RoleTeacher)

	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub":  float64(1),
		"role": models.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsUnauthorizedRole(t *testing.T) {
	app := roleGuardedApp(models.RoleAdmin)

	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub":  float64(5),
		"role": models.RoleStudent,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsMissingSession(t *testing.T) {
	app := fiber.New()
	app.Get("/guarded", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
