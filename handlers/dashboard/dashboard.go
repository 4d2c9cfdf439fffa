package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/services"
	"github.com/aitutorhq/ai-tutor-api/utils/middleware"
	"github.com/aitutorhq/ai-tutor-api/utils/response"
)

// DashboardHandler aggregates a tutor's own content for their dashboard
type DashboardHandler struct {
	courses   *services.CourseService
	questions *services.QuestionService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(courses *services.CourseService, questions *services.QuestionService) *DashboardHandler {
	return &DashboardHandler{courses: courses, questions: questions}
}

// TutorDashboard returns a tutor's courses, questions and headline numbers.
// Tutors can only view their own dashboard; admins can view any.
func (h *DashboardHandler) TutorDashboard(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return response.BadRequest(c, "Username is required")
	}

	acting := middleware.GetUsername(c)
	if acting != username && middleware.GetUserRole(c) != model.RoleAdmin {
		return response.Forbidden(c, "You can only view your own dashboard")
	}

	courses, err := h.courses.ListByTutor(c.Context(), username)
	if err != nil {
		return response.FromError(c, err)
	}
	questions, err := h.questions.ListByTutor(c.Context(), username)
	if err != nil {
		return response.FromError(c, err)
	}

	enrollments := 0
	totalDownloads := int64(0)
	for _, course := range courses {
		enrollments += course.EnrollmentCount
	}
	for _, q := range questions {
		totalDownloads += q.Downloads
	}

	return response.Success(c, fiber.Map{
		"username":          username,
		"courses":           courses,
		"questions":         questions,
		"total_enrollments": enrollments,
		"total_downloads":   totalDownloads,
	})
}
