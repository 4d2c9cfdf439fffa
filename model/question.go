package model

import (
	"time"

	"gorm.io/gorm"
)

// Question difficulties
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question represents a tutor-owned practice question with an optional
// attached file. Small attachments are stored base64 inline; when Spaces is
// configured the payload is offloaded and FileURL is set instead.
type Question struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	TutorUsername string         `gorm:"not null;index" json:"tutor_username"`
	Question      string         `gorm:"type:text;not null" json:"question"`
	Subject       string         `gorm:"index" json:"subject"`
	Grade         string         `gorm:"index" json:"grade"`
	Difficulty    string         `gorm:"type:varchar(20);default:'medium'" json:"difficulty"`

	FileData string `gorm:"type:text" json:"file_data,omitempty"` // base64 payload
	FileName string `json:"file_name,omitempty"`
	FileType string `json:"file_type,omitempty"`
	FileURL  string `json:"file_url,omitempty"`                   // set when offloaded to Spaces
	FileText string `gorm:"type:text" json:"-"`                   // extracted PDF text, search only

	Downloads int64 `gorm:"default:0" json:"downloads"`

	HasFile bool `gorm:"-" json:"has_file"`
}

// StripFilePayload clears the inline payload for list views and sets the
// has_file flag so clients know a download is available.
func (q *Question) StripFilePayload() {
	q.HasFile = q.FileData != "" || q.FileURL != ""
	q.FileData = ""
}
