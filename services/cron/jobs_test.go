package cron

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/utils/auth"
)

func newCronTestManager(t *testing.T) (*CronManager, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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
		t.Fatalf("failed to migrate: %v", err)
	}

	blacklist := auth.NewBlacklistService(db)
	return NewCronManager(db, blacklist), db
}

func TestCleanupExpiredTokensJob(t *testing.T) {
	m, db := newCronTestManager(t)

	db.Create(&model.JWTTokenBlacklist{
		Token: "expired", UserID: 1, ExpiresAt: time.Now().Add(-time.Hour),
	})
	db.Create(&model.JWTTokenBlacklist{
		Token: "live", UserID: 1, ExpiresAt: time.Now().Add(time.Hour),
	})

	m.logJobStart("cleanup_expired_tokens")
	m.CleanupExpiredTokens()

	var remaining int64
	db.Model(&model.JWTTokenBlacklist{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("expected 1 remaining blacklist entry, got %d", remaining)
	}

	var jobLog model.CronJobLog
	err := db.Where("job_name = ?", "cleanup_expired_tokens").
		Order("started_at DESC").First(&jobLog).Error
	if err != nil {
		t.Fatalf("job run not logged: %v", err)
	}
	if jobLog.Status != "completed" {
		t.Errorf("expected completed status, got %q (%s)", jobLog.Status, jobLog.ErrorMsg)
	}
}

func TestAggregatePlatformStatsJob(t *testing.T) {
	m, db := newCronTestManager(t)

	db.Create(&model.User{Username: "s1", PasswordHash: "x", Role: model.RoleStudent})
	db.Create(&model.User{Username: "t1", PasswordHash: "x", Role: model.RoleTutor})
	db.Create(&model.Course{TutorUsername: "t1", Title: "Course"})

	m.logJobStart("aggregate_platform_stats")
	m.AggregatePlatformStats()

	var jobLog model.CronJobLog
	err := db.Where("job_name = ?", "aggregate_platform_stats").
		Order("started_at DESC").First(&jobLog).Error
	if err != nil {
		t.Fatalf("job run not logged: %v", err)
	}
	if jobLog.Status != "completed" {
		t.Fatalf("expected completed status, got %q (%s)", jobLog.Status, jobLog.ErrorMsg)
	}
	if len(jobLog.Metadata) == 0 || string(jobLog.Metadata) == "{}" {
		t.Errorf("expected stats snapshot in metadata, got %q", string(jobLog.Metadata))
	}
}
