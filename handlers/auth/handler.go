package auth

import (
	"time"

	"github.com/aitutorhq/ai-tutor-api/services"
	"github.com/aitutorhq/ai-tutor-api/utils/auth"
	"github.com/aitutorhq/ai-tutor-api/utils/middleware"
	"github.com/aitutorhq/ai-tutor-api/utils/validation"
)

// AuthHandler handles registration, login, logout and token refresh
type AuthHandler struct {
	accounts             *services.AccountService
	jwtManager           *auth.JWTManager
	blacklist            *auth.BlacklistService
	validator            *validation.Validator
	bruteForceProtection *middleware.BruteForceProtection
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	accounts *services.AccountService,
	jwtManager *auth.JWTManager,
	blacklist *auth.BlacklistService,
	bruteForce *middleware.BruteForceProtection,
) *AuthHandler {
	return &AuthHandler{
		accounts:             accounts,
		jwtManager:           jwtManager,
		blacklist:            blacklist,
		validator:            validation.NewValidator(),
		bruteForceProtection: bruteForce,
	}
}

// UserResponse is the account shape returned to clients
type UserResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Role           string    `json:"role"`
	ApprovalStatus string    `json:"approval_status"`
	FullName       string    `json:"full_name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Qualification  string    `json:"qualification,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
