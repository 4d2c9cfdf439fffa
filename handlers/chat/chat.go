package chat

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aitutorhq/ai-tutor-api/services"
	"github.com/aitutorhq/ai-tutor-api/utils/middleware"
	"github.com/aitutorhq/ai-tutor-api/utils/response"
)

// ChatHandler handles the AI tutor chat surface
type ChatHandler struct {
	chats *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chats *services.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// ChatRequest carries one prompt to the AI tutor
type ChatRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// Chat forwards the prompt to Gemini and returns the persisted exchange
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := h.chats.Chat(c.Context(), middleware.GetUsername(c), req.Prompt)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{
		"response":   entry.Response,
		"model_used": entry.ModelUsed,
	})
}

// History returns the authenticated user's chat history as alternating
// user/bot entries, oldest first
func (h *ChatHandler) History(c *fiber.Ctx) error {
	history, err := h.chats.History(c.Context(), middleware.GetUsername(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, history)
}
