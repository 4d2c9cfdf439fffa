package auth

import (
	"errors"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct-horse-battery" {
		t.Fatal("hash equals plaintext")
	}

	if err := VerifyPassword(hash, "correct-horse-battery"); err != nil {
		t.Errorf("VerifyPassword rejected the right password: %v", err)
	}
	if err := VerifyPassword(hash, "wrong-password-1"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestIsHashed(t *testing.T) {
	hash, err := HashPassword("some-long-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !IsHashed(hash) {
		t.Error("bcrypt output should be recognized as hashed")
	}
	if IsHashed("plaintext-password") {
		t.Error("plaintext should not be recognized as hashed")
	}
	if IsHashed("") {
		t.Error("empty string should not be recognized as hashed")
	}
}
