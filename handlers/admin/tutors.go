package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aitutorhq/ai-tutor-api/services"
	"github.com/aitutorhq/ai-tutor-api/utils/middleware"
	"github.com/aitutorhq/ai-tutor-api/utils/response"
)

// AdminHandler handles the admin review surface
type AdminHandler struct {
	accounts  *services.AccountService
	chats     *services.ChatService
	courses   *services.CourseService
	questions *services.QuestionService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	accounts *services.AccountService,
	chats *services.ChatService,
	courses *services.CourseService,
	questions *services.QuestionService,
) *AdminHandler {
	return &AdminHandler{
		accounts:  accounts,
		chats:     chats,
		courses:   courses,
		questions: questions,
	}
}

// ReviewRequest carries an approve/reject decision
type ReviewRequest struct {
	Username      string `json:"username" validate:"required"`
	AdminUsername string `json:"admin_username"`
	Reason        string `json:"reason"`
}

// reviewer prefers the authenticated admin identity over the body field
func reviewer(c *fiber.Ctx, bodyAdmin string) string {
	if username := middleware.GetUsername(c); username != "" {
		return username
	}
	return bodyAdmin
}

// ApproveTutor converts a pending application into an approved tutor account
func (h *AdminHandler) ApproveTutor(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}

	user, err := h.accounts.ApproveTutor(c.Context(), req.Username, reviewer(c, req.AdminUsername))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Tutor application approved", fiber.Map{
		"username":        user.Username,
		"approval_status": user.ApprovalStatus,
	})
}

// RejectTutor closes a pending application with a rejection reason
func (h *AdminHandler) RejectTutor(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}

	user, err := h.accounts.RejectTutor(c.Context(), req.Username, reviewer(c, req.AdminUsername), req.Reason)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Tutor application rejected", fiber.Map{
		"username":         user.Username,
		"approval_status":  user.ApprovalStatus,
		"rejection_reason": user.RejectionReason,
	})
}

// PendingTutors lists applications awaiting review, oldest first
func (h *AdminHandler) PendingTutors(c *fiber.Ctx) error {
	apps, err := h.accounts.ListPendingApplications(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, apps)
}
