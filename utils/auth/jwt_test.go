package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestJWTManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-key-for-unit-tests",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "ai-tutor-api-test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager()

	token, jti, err := m.GenerateAccessToken(7, "alice", "student", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if jti == "" {
		t.Fatal("expected a non-empty JTI")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.Role != "student" {
		t.Errorf("claims mismatch: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected access token type, got %q", claims.TokenType)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("expected token version 3, got %d", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("JTI mismatch: %q vs %q", claims.ID, jti)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := newTestJWTManager()
	other := NewJWTManager(JWTConfig{
		Secret: "a-different-secret",
		Expiry: time.Hour,
		Issuer: "ai-tutor-api-test",
	})

	token, _, err := m.GenerateAccessToken(1, "bob", "tutor", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := NewJWTManager(JWTConfig{
		Secret: "test-secret-key-for-unit-tests",
		Expiry: -time.Minute, // already expired
		Issuer: "ai-tutor-api-test",
	})

	token, _, err := m.GenerateAccessToken(1, "carol", "student", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := m.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	m := newTestJWTManager()

	refreshToken, _, err := m.GenerateRefreshToken(9, "dave", "tutor", 1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	accessToken, _, err := m.RefreshAccessToken(refreshToken, 1)
	if err != nil {
		t.Fatalf("RefreshAccessToken failed: %v", err)
	}

	claims, err := m.ValidateToken(accessToken)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.TokenType != "access" || claims.Username != "dave" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	// An access token cannot be used as a refresh token
	if _, _, err := m.RefreshAccessToken(accessToken, 1); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for access-as-refresh, got %v", err)
	}
}

func TestAccessTokenTTLMatchesConfig(t *testing.T) {
	m := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: 45 * time.Minute,
		Issuer: "test",
	})
	if got := m.AccessTokenTTL(); got != 45*time.Minute {
		t.Errorf("AccessTokenTTL() = %v, want %v", got, 45*time.Minute)
	}
}
