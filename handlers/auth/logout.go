package auth

import (
	"github.com/gofiber/fiber/v2"

	authutil "github.com/aitutorhq/ai-tutor-api/utils/auth"
	"github.com/aitutorhq/ai-tutor-api/utils/middleware"
	"github.com/aitutorhq/ai-tutor-api/utils/response"
)

// Logout revokes the current access token. The JTI goes onto the blacklist
// until the token would have expired anyway.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*authutil.Claims)
	if !ok || claims == nil {
		return response.Unauthorized(c, "Authentication required")
	}

	err := h.blacklist.RevokeToken(c.Context(), claims.ID, middleware.GetUserID(c), claims.ExpiresAt.Time, "logout")
	if err != nil {
		return response.InternalServerError(c, "Failed to revoke token")
	}

	return response.SuccessWithMessage(c, "Logged out", nil)
}
