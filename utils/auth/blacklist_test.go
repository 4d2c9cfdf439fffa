package auth

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aitutorhq/ai-tutor-api/model"
)

func newBlacklistDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.JWTTokenBlacklist{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestRevokeAndCheckToken(t *testing.T) {
	svc := NewBlacklistService(newBlacklistDB(t))
	ctx := context.Background()

	if err := svc.RevokeToken(ctx, "jti-1", 1, time.Now().Add(time.Hour), "logout"); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	revoked, err := svc.IsTokenRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsTokenRevoked failed: %v", err)
	}
	if !revoked {
		t.Error("token should be revoked")
	}

	revoked, err = svc.IsTokenRevoked(ctx, "jti-unknown")
	if err != nil {
		t.Fatalf("IsTokenRevoked failed: %v", err)
	}
	if revoked {
		t.Error("unknown token should not be revoked")
	}
}

func TestCleanupExpiredTokens(t *testing.T) {
	svc := NewBlacklistService(newBlacklistDB(t))
	ctx := context.Background()

	if err := svc.RevokeToken(ctx, "expired-jti", 1, time.Now().Add(-time.Hour), "logout"); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}
	if err := svc.RevokeToken(ctx, "live-jti", 1, time.Now().Add(time.Hour), "logout"); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	removed, err := svc.CleanupExpiredTokens(ctx)
	if err != nil {
		t.Fatalf("CleanupExpiredTokens failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed entry, got %d", removed)
	}

	// An already-expired entry no longer counts as revoked either way
	revoked, err := svc.IsTokenRevoked(ctx, "expired-jti")
	if err != nil {
		t.Fatalf("IsTokenRevoked failed: %v", err)
	}
	if revoked {
		t.Error("expired entry should be gone")
	}
}
