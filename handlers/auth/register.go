package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aitutorhq/ai-tutor-api/services"
	"github.com/aitutorhq/ai-tutor-api/utils/response"
)

// Register handles student and tutor signups. Students become active
// accounts immediately; tutors are queued for admin approval.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" || req.Role == "" {
		return response.BadRequest(c, "Username, password and role are required")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.BadRequest(c, "Invalid registration data")
	}

	result, err := h.accounts.Register(c.Context(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	message := "Registration successful"
	if result.ApprovalRequired {
		message = "Registration received. Your tutor application is pending admin approval."
	}
	return response.CreatedWithMessage(c, message, result)
}
