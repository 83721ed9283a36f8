package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/edupulse/school-portal-api/internal/models"
	"github.com/edupulse/school-portal-api/internal/service"
	"github.com/edupulse/school-portal-api/internal/utils"
)

const sessionKey = "portal_session"

// JWTProtected validates the bearer token and binds the resolved session to
// the request. Handlers read it back with SessionFromCtx.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		session := service.Session{Token: tokenString}
		if userID := claimUint(claims, "sub", "user_id", "id"); userID != nil {
			session.UserID = *userID
		}
		if schoolID := claimUint(claims, "school_id"); schoolID != nil {
			session.SchoolID = *schoolID
		}
		role, _ := claims["role"].(string)
		if !models.ValidRole(role) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}
		session.Role = role
		if !session.Authenticated() {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// SessionFromCtx returns the session bound by JWTProtected. On unprotected
// routes it returns the zero session, which fails Authenticated().
func SessionFromCtx(c *fiber.Ctx) service.Session {
	if session, ok := c.Locals(sessionKey).(service.Session); ok {
		return session
	}
	return service.Session{}
}

func claimUint(claims jwt.MapClaims, keys ...string) *uint {
	for _, key := range keys {
		value, ok := claims[key]
		if !ok {
			continue
		}
		if normalized, err := normalizeUint(value); err == nil {
			return &normalized
		}
	}
	return nil
}

func normalizeUint(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("negative claim value")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("negative claim value")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported claim type %T", value)
	}
}
