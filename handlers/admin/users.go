package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/utils/response"
)

// ListUsers returns all accounts, newest first
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.accounts.ListUsers(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, users)
}

// DeleteUser removes an account and cascades its chats, courses and questions
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return response.BadRequest(c, "Username is required")
	}

	if err := h.accounts.DeleteUser(c.Context(), username); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "User deleted", nil)
}

// Stats returns live platform counters
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	ctx := c.Context()

	users, err := h.accounts.ListUsers(ctx)
	if err != nil {
		return response.FromError(c, err)
	}
	apps, err := h.accounts.ListPendingApplications(ctx)
	if err != nil {
		return response.FromError(c, err)
	}
	courses, err := h.courses.List(ctx)
	if err != nil {
		return response.FromError(c, err)
	}
	questions, err := h.questions.List(ctx)
	if err != nil {
		return response.FromError(c, err)
	}

	students, tutors := 0, 0
	for _, u := range users {
		switch u.Role {
		case model.RoleStudent:
			students++
		case model.RoleTutor:
			tutors++
		}
	}

	return response.Success(c, fiber.Map{
		"total_users":          len(users),
		"total_students":       students,
		"total_tutors":         tutors,
		"pending_applications": len(apps),
		"total_courses":        len(courses),
		"total_questions":      len(questions),
	})
}

// Chats returns recent AI chat exchanges for moderation
func (h *AdminHandler) Chats(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	logs, err := h.chats.ListAll(c.Context(), limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, logs)
}
