package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/utils/auth"
)

// newTestDB opens an in-memory database with the full schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.TutorApplication{},
		&model.Course{},
		&model.Question{},
		&model.ChatLog{},
		&model.JWTTokenBlacklist{},
		&model.CronJobLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// createApprovedTutor inserts a ready-to-use tutor account
func createApprovedTutor(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	hash, err := auth.HashPassword("tutorpass123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := model.User{
		Username:       username,
		PasswordHash:   hash,
		Role:           model.RoleTutor,
		ApprovalStatus: model.StatusApproved,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create tutor: %v", err)
	}
	return &user
}

// createStudent inserts a student account
func createStudent(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	hash, err := auth.HashPassword("studentpass1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := model.User{
		Username:       username,
		PasswordHash:   hash,
		Role:           model.RoleStudent,
		ApprovalStatus: model.StatusApproved,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	return &user
}

// registerTutorApplication files a pending application via the service
func registerTutorApplication(t *testing.T, svc *AccountService, username string) {
	t.Helper()

	years := 4
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username:          username,
		Password:          "tutorpass123",
		Role:              model.RoleTutor,
		FullName:          "Test Tutor",
		Email:             "tutor@example.com",
		Qualification:     "B.Ed. Mathematics",
		YearsOfExperience: &years,
	})
	if err != nil {
		t.Fatalf("failed to register tutor application: %v", err)
	}
}
