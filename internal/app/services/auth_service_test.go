package services

import (
	"errors"
	"testing"
	"time"

	"github.com/hamza/campuscard/internal/pkg/apperrors"
	"github.com/hamza/campuscard/internal/pkg/auth"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := auth.HashPassword("correct-password")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "campuscard-test",
	})
	return NewAuthService(jwtService, "admin", hash)
}

func TestLoginSucceedsWithCorrectCredentials(t *testing.T) {
	svc := setupAuthService(t)

	resp, err := svc.Login("admin", "correct-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected non-empty access token")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("expected token type Bearer, got %s", resp.TokenType)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Login("admin", "wrong-password")
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsUnknownUsername(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Login("intruder", "correct-password")
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
