package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

// Tutor approval statuses
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// User represents a registered user in the system.
// Tutors only get a User row after an admin approves (or rejects) their
// application; students and admins are created directly.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Role         string         `gorm:"type:varchar(20);not null" json:"role"`

	// Approval status only matters for tutors. Rows created before the
	// approval feature have an empty status and are treated as approved.
	ApprovalStatus  string `gorm:"type:varchar(20);default:'approved'" json:"approval_status"`
	RejectionReason string `gorm:"type:text" json:"rejection_reason,omitempty"`

	// Tutor profile fields (copied from the application on approval)
	FullName          string `json:"full_name,omitempty"`
	Email             string `json:"email,omitempty"`
	Qualification     string `json:"qualification,omitempty"`
	YearsOfExperience int    `gorm:"default:0" json:"years_of_experience,omitempty"`

	TokenVersion int `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens
}

// IsApprovedTutor reports whether this account can publish content.
// An empty approval status counts as approved (pre-feature rows).
func (u *User) IsApprovedTutor() bool {
	return u.Role == RoleTutor && (u.ApprovalStatus == StatusApproved || u.ApprovalStatus == "")
}
