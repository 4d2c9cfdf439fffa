package model

import (
	"time"

	"gorm.io/gorm"
)

// TutorApplication is the provisional record for a tutor signup. It is not a
// User; the account only materializes when an admin approves or rejects the
// application. The row is kept afterwards as the review audit trail.
type TutorApplication struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`

	FullName          string `gorm:"not null" json:"full_name"`
	Email             string `gorm:"not null" json:"email"`
	Qualification     string `gorm:"not null" json:"qualification"`
	YearsOfExperience int    `gorm:"default:0" json:"years_of_experience"`

	Status          string     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	AppliedAt       time.Time  `json:"applied_at"`
	ReviewedBy      string     `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
}

// IsPending reports whether the application still awaits an admin decision.
func (a *TutorApplication) IsPending() bool {
	return a.Status == StatusPending
}
