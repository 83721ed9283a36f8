package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the common envelope for portal-internal endpoints. Endpoints
// whose response shape is part of a published client contract (login, submit,
// ask, videos, broadcast) return their payloads verbatim instead.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// SendSuccess writes a success envelope with the given status code.
func SendSuccess(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError writes a failure envelope with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
	})
}
