package question

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aitutorhq/ai-tutor-api/services"
	"github.com/aitutorhq/ai-tutor-api/utils/middleware"
	"github.com/aitutorhq/ai-tutor-api/utils/response"
)

// QuestionHandler handles the question bank surface
type QuestionHandler struct {
	questions *services.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Create adds a question for the authenticated tutor
func (h *QuestionHandler) Create(c *fiber.Ctx) error {
	var req services.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.TutorUsername = middleware.GetUsername(c)

	question, err := h.questions.Create(c.Context(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, question)
}

// Update modifies an owned question
func (h *QuestionHandler) Update(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("id")
	if err != nil || questionID <= 0 {
		return response.BadRequest(c, "Invalid question id")
	}

	var req services.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	question, err := h.questions.Update(c.Context(), uint(questionID), middleware.GetUsername(c), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, question)
}

// Delete removes an owned question
func (h *QuestionHandler) Delete(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("id")
	if err != nil || questionID <= 0 {
		return response.BadRequest(c, "Invalid question id")
	}

	if err := h.questions.Delete(c.Context(), uint(questionID), middleware.GetUsername(c)); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Question deleted", nil)
}

// List returns all questions with file payloads stripped
func (h *QuestionHandler) List(c *fiber.Ctx) error {
	questions, err := h.questions.List(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, questions)
}

// Get returns a single question
func (h *QuestionHandler) Get(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("id")
	if err != nil || questionID <= 0 {
		return response.BadRequest(c, "Invalid question id")
	}

	question, err := h.questions.Get(c.Context(), uint(questionID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, question)
}

// Download returns the question's attachment (or a synthesized text file)
// and bumps the download counter
func (h *QuestionHandler) Download(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("id")
	if err != nil || questionID <= 0 {
		return response.BadRequest(c, "Invalid question id")
	}

	result, err := h.questions.Download(c.Context(), uint(questionID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, result)
}

// Search filters questions by keyword, subject and grade query params
func (h *QuestionHandler) Search(c *fiber.Ctx) error {
	filter := services.SearchFilter{
		Keyword: c.Query("keyword"),
		Subject: c.Query("subject"),
		Grade:   c.Query("grade"),
	}

	questions, err := h.questions.Search(c.Context(), filter)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, questions)
}
