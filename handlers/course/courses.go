package course

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aitutorhq/ai-tutor-api/services"
	"github.com/aitutorhq/ai-tutor-api/utils/middleware"
	"github.com/aitutorhq/ai-tutor-api/utils/response"
)

// CourseHandler handles the course surface
type CourseHandler struct {
	courses *services.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Create adds a new course for the authenticated tutor
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var req services.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// The acting tutor is always the authenticated user
	req.TutorUsername = middleware.GetUsername(c)

	course, err := h.courses.Create(c.Context(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, course)
}

// Update modifies an owned course
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return response.BadRequest(c, "Invalid course id")
	}

	var req services.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.courses.Update(c.Context(), uint(courseID), middleware.GetUsername(c), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, course)
}

// Delete removes an owned course
func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return response.BadRequest(c, "Invalid course id")
	}

	if err := h.courses.Delete(c.Context(), uint(courseID), middleware.GetUsername(c)); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Course deleted", nil)
}

// List returns all courses with derived rating and enrollment views
func (h *CourseHandler) List(c *fiber.Ctx) error {
	courses, err := h.courses.List(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, courses)
}

// Get returns a single course
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.courses.Get(c.Context(), uint(courseID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, course)
}

// EnrollRequest carries an enrollment submission
type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
}

// Enroll adds the authenticated student to a course
func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CourseID == 0 {
		return response.BadRequest(c, "course_id is required")
	}

	course, err := h.courses.Enroll(c.Context(), middleware.GetUsername(c), req.CourseID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Enrolled successfully", fiber.Map{
		"course_id":        course.ID,
		"enrollment_count": course.EnrollmentCount,
	})
}

// RateRequest carries a chapter rating submission
type RateRequest struct {
	CourseID uint    `json:"course_id" validate:"required"`
	Chapter  int     `json:"chapter"`
	Rating   float64 `json:"rating" validate:"required"`
}

// Rate records a chapter rating, replacing the student's prior rating for
// the same chapter
func (h *CourseHandler) Rate(c *fiber.Ctx) error {
	var req RateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CourseID == 0 {
		return response.BadRequest(c, "course_id is required")
	}

	course, err := h.courses.Rate(c.Context(), middleware.GetUsername(c), req.CourseID, req.Chapter, req.Rating)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Rating recorded", fiber.Map{
		"course_id":       course.ID,
		"avg_rating":      course.AvgRating,
		"chapter_ratings": course.ChapterRatings,
	})
}

// Search filters courses by keyword, subject and grade query params
func (h *CourseHandler) Search(c *fiber.Ctx) error {
	filter := services.SearchFilter{
		Keyword: c.Query("keyword"),
		Subject: c.Query("subject"),
		Grade:   c.Query("grade"),
	}

	courses, err := h.courses.Search(c.Context(), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, courses)
}
