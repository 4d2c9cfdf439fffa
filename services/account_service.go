package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/utils/apperrors"
	"github.com/aitutorhq/ai-tutor-api/utils/auth"
	"github.com/aitutorhq/ai-tutor-api/utils/validation"
)

// AccountService owns user accounts and the tutor approval workflow
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates a new account service
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// RegisterRequest carries a signup submission
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=student tutor"`

	// Tutor profile, required when role=tutor. YearsOfExperience is a
	// pointer so an absent field is distinguishable from zero years.
	FullName          string `json:"full_name"`
	Email             string `json:"email"`
	Qualification     string `json:"qualification"`
	YearsOfExperience *int   `json:"years_of_experience"`
}

// RegisterResult reports what registration produced
type RegisterResult struct {
	Username         string `json:"username"`
	Role             string `json:"role"`
	ApprovalRequired bool   `json:"approval_required"`
}

// Register creates a student account immediately, or files a pending tutor
// application for admin review. The username must be free in both the users
// table and the application queue.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if ok, msg := validation.ValidateUsername(req.Username); !ok {
		return nil, apperrors.NewValidation(msg)
	}
	if !auth.IsPasswordValid(req.Password) {
		return nil, apperrors.NewValidation("Password must be at least 8 characters")
	}
	if req.Role != model.RoleStudent && req.Role != model.RoleTutor {
		return nil, apperrors.NewValidation("Role must be student or tutor")
	}

	taken, err := s.usernameTaken(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("Username already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	if req.Role == model.RoleStudent {
		user := model.User{
			Username:       req.Username,
			PasswordHash:   hash,
			Role:           model.RoleStudent,
			ApprovalStatus: model.StatusApproved,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, duplicateUsernameToConflict(err)
		}
		return &RegisterResult{Username: user.Username, Role: user.Role}, nil
	}

	// Tutor path: full profile required, account deferred until review
	if req.FullName == "" || req.Email == "" || req.Qualification == "" || req.YearsOfExperience == nil {
		return nil, apperrors.NewValidation("Tutor registration requires full_name, email, qualification and years_of_experience")
	}
	if *req.YearsOfExperience < 0 {
		return nil, apperrors.NewValidation("years_of_experience cannot be negative")
	}
	if !validation.ValidateEmail(req.Email) {
		return nil, apperrors.NewValidation("Invalid email format")
	}

	app := model.TutorApplication{
		Username:          req.Username,
		PasswordHash:      hash,
		FullName:          validation.SanitizeString(req.FullName),
		Email:             req.Email,
		Qualification:     validation.SanitizeString(req.Qualification),
		YearsOfExperience: *req.YearsOfExperience,
		Status:            model.StatusPending,
		AppliedAt:         time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return nil, duplicateUsernameToConflict(err)
	}

	return &RegisterResult{
		Username:         app.Username,
		Role:             model.RoleTutor,
		ApprovalRequired: true,
	}, nil
}

// AuthResult is what a successful authentication returns
type AuthResult struct {
	User *model.User
}

// Authenticate verifies a credential against the claimed role.
//
// Password mismatch against a verified role gets a generic message; a role
// mismatch gets a specific one naming the stored role. Pending applications
// (no account yet) authenticate to Forbidden when the password is right.
func (s *AccountService) Authenticate(ctx context.Context, username, password, claimedRole string) (*AuthResult, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, s.authenticatePendingApplication(ctx, username, password)
	}

	if err := s.verifyPassword(ctx, &user, password); err != nil {
		return nil, err
	}

	if user.Role != claimedRole {
		return nil, apperrors.NewForbidden(fmt.Sprintf(
			"You are registered as a %s. Please use the %s login.", user.Role, user.Role))
	}

	if user.Role == model.RoleTutor {
		switch user.ApprovalStatus {
		case model.StatusPending:
			return nil, apperrors.NewForbidden("Your tutor application is pending approval")
		case model.StatusRejected:
			reason := user.RejectionReason
			if reason == "" {
				reason = "Your tutor application was rejected"
			}
			return nil, apperrors.NewForbidden(reason)
		}
	}

	return &AuthResult{User: &user}, nil
}

// authenticatePendingApplication handles logins for usernames that only exist
// in the application queue. Always errors; the flavor depends on the password.
func (s *AccountService) authenticatePendingApplication(ctx context.Context, username, password string) error {
	var app model.TutorApplication
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("User not found")
		}
		return err
	}

	if app.PasswordHash != "" && auth.IsHashed(app.PasswordHash) {
		if auth.VerifyPassword(app.PasswordHash, password) != nil {
			return apperrors.NewUnauthorized("Invalid password")
		}
	} else if app.PasswordHash != password {
		return apperrors.NewUnauthorized("Invalid password")
	}

	return apperrors.NewForbidden("Your tutor application is pending approval")
}

// verifyPassword checks the credential and transparently rehashes legacy
// plaintext rows on the first successful login.
func (s *AccountService) verifyPassword(ctx context.Context, user *model.User, password string) error {
	if auth.IsHashed(user.PasswordHash) {
		if auth.VerifyPassword(user.PasswordHash, password) != nil {
			return apperrors.NewUnauthorized("Invalid password")
		}
		return nil
	}

	// Legacy row with a plaintext credential
	if user.PasswordHash != password {
		return apperrors.NewUnauthorized("Invalid password")
	}

	hash, err := auth.HashPassword(password)
	if err == nil {
		if updateErr := s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error; updateErr == nil {
			user.PasswordHash = hash
		} else {
			log.Printf("Failed to rehash legacy credential for %q: %v", user.Username, updateErr)
		}
	}
	return nil
}

// ApproveTutor converts a pending application into an approved tutor account.
// The application row is kept, marked approved, as the review audit trail.
func (s *AccountService) ApproveTutor(ctx context.Context, username, adminUsername string) (*model.User, error) {
	var approved *model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app model.TutorApplication
		err := tx.Where("username = ? AND status = ?", username, model.StatusPending).First(&app).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("No pending application for this username")
			}
			return err
		}

		user := model.User{
			Username:          app.Username,
			PasswordHash:      app.PasswordHash,
			Role:              model.RoleTutor,
			ApprovalStatus:    model.StatusApproved,
			FullName:          app.FullName,
			Email:             app.Email,
			Qualification:     app.Qualification,
			YearsOfExperience: app.YearsOfExperience,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		now := time.Now()
		app.Status = model.StatusApproved
		app.ReviewedBy = adminUsername
		app.ReviewedAt = &now
		if err := tx.Save(&app).Error; err != nil {
			return err
		}

		approved = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// RejectTutor closes a pending application with a rejection. An account row
// IS created, carrying the reason, so later logins can explain the outcome.
func (s *AccountService) RejectTutor(ctx context.Context, username, adminUsername, reason string) (*model.User, error) {
	var rejected *model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app model.TutorApplication
		err := tx.Where("username = ? AND status = ?", username, model.StatusPending).First(&app).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("No pending application for this username")
			}
			return err
		}

		user := model.User{
			Username:          app.Username,
			PasswordHash:      app.PasswordHash,
			Role:              model.RoleTutor,
			ApprovalStatus:    model.StatusRejected,
			RejectionReason:   reason,
			FullName:          app.FullName,
			Email:             app.Email,
			Qualification:     app.Qualification,
			YearsOfExperience: app.YearsOfExperience,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		now := time.Now()
		app.Status = model.StatusRejected
		app.ReviewedBy = adminUsername
		app.ReviewedAt = &now
		app.RejectionReason = reason
		if err := tx.Save(&app).Error; err != nil {
			return err
		}

		rejected = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// IsApprovedTutor reports whether the username can publish content
func (s *AccountService) IsApprovedTutor(ctx context.Context, username string) (bool, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ? AND role = ?", username, model.RoleTutor).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsApprovedTutor(), nil
}

// ListPendingApplications returns applications awaiting review, oldest first
func (s *AccountService) ListPendingApplications(ctx context.Context) ([]model.TutorApplication, error) {
	var apps []model.TutorApplication
	err := s.db.WithContext(ctx).
		Where("status = ?", model.StatusPending).
		Order("applied_at ASC").
		Find(&apps).Error
	return apps, err
}

// GetUser fetches an account by username
func (s *AccountService) GetUser(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account and everything it owns: chat logs for any
// role, plus courses and questions when the account is a tutor. Admin
// accounts cannot be deleted.
func (s *AccountService) DeleteUser(ctx context.Context, username string) error {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("User not found")
		}
		return err
	}
	if user.Role == model.RoleAdmin {
		return apperrors.NewForbidden("Admin accounts cannot be deleted")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&model.ChatLog{}).Error; err != nil {
			return err
		}
		if user.Role == model.RoleTutor {
			if err := tx.Where("tutor_username = ?", username).Delete(&model.Course{}).Error; err != nil {
				return err
			}
			if err := tx.Where("tutor_username = ?", username).Delete(&model.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Where("username = ?", username).Delete(&model.TutorApplication{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
}

// ListUsers returns all accounts, newest first
func (s *AccountService) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

// duplicateUsernameToConflict catches a registration that lost the race
// between the availability check and the insert: the unique index rejects
// the row, and the caller sees the same conflict the check would have given.
func duplicateUsernameToConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewConflict("Username already exists")
	}
	return err
}

func (s *AccountService) usernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := s.db.WithContext(ctx).Model(&model.TutorApplication{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
