package model

import (
	"time"
)

// ChatLog is one prompt/response exchange with the generative AI service.
// The raw model response is persisted verbatim alongside the prompt and the
// requesting username.
type ChatLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Username   string    `gorm:"not null;index" json:"username"`
	Prompt     string    `gorm:"type:text;not null" json:"prompt"`
	Response   string    `gorm:"type:text;not null" json:"response"`
	ModelUsed  string    `gorm:"type:varchar(100)" json:"model_used"`
	TokensUsed int       `gorm:"default:0" json:"tokens_used"`
}

// ChatHistoryEntry is the flattened shape the frontend consumes: each stored
// exchange expands into a user message followed by a bot message.
type ChatHistoryEntry struct {
	Text   string `json:"text"`
	Sender string `json:"sender"` // "user" or "bot"
}
