package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/services/gemini"
	"github.com/aitutorhq/ai-tutor-api/utils/apperrors"
)

// TutorSystemInstruction frames the AI as a study assistant
const TutorSystemInstruction = "You are a helpful AI tutor for school students. " +
	"Explain concepts clearly and step by step, and keep answers appropriate for the student's level."

// ChatService proxies prompts to Gemini and persists every exchange
type ChatService struct {
	db     *gorm.DB
	gemini *gemini.Client
}

// NewChatService creates a new chat service
func NewChatService(db *gorm.DB, geminiClient *gemini.Client) *ChatService {
	return &ChatService{db: db, gemini: geminiClient}
}

// Chat sends one prompt to Gemini and stores the raw response verbatim
// alongside the prompt and requesting username.
func (s *ChatService) Chat(ctx context.Context, username, prompt string) (*model.ChatLog, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.NewValidation("Prompt is required")
	}

	text, usage, err := s.gemini.SimpleCompletion(ctx, prompt,
		gemini.WithSystemInstruction(TutorSystemInstruction))
	if err != nil {
		return nil, err
	}

	entry := model.ChatLog{
		Username:  username,
		Prompt:    prompt,
		Response:  text,
		ModelUsed: s.gemini.Model(),
	}
	if usage != nil {
		entry.TokensUsed = usage.TotalTokenCount
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// History returns a user's exchanges flattened into alternating user/bot
// entries, oldest first.
func (s *ChatService) History(ctx context.Context, username string) ([]model.ChatHistoryEntry, error) {
	var logs []model.ChatLog
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	history := make([]model.ChatHistoryEntry, 0, len(logs)*2)
	for _, entry := range logs {
		history = append(history,
			model.ChatHistoryEntry{Text: entry.Prompt, Sender: "user"},
			model.ChatHistoryEntry{Text: entry.Response, Sender: "bot"},
		)
	}
	return history, nil
}

// ListAll returns every stored exchange, newest first, for admin review
func (s *ChatService) ListAll(ctx context.Context, limit int) ([]model.ChatLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []model.ChatLog
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
