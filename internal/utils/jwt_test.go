package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/chesterOps/salem-server/internal/domain"
)

const (
	testAccessSecret  = "access-secret-key-that-is-at-least-32-chars"
	testRefreshSecret = "refresh-secret-key-that-is-at-least-32-chars"
)

func newTestManager() *JWTManager {
	return NewJWTManager(testAccessSecret, testRefreshSecret, 15*time.Minute, 24*time.Hour)
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueAccessToken("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	claims, err := m.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("Expected UserID 'user-1', got %q", claims.UserID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("Expected role %q, got %q", domain.RoleAdmin, claims.Role)
	}
	if claims.IssuedAt == 0 {
		t.Error("Expected non-zero IssuedAt")
	}
}

func TestAccessAndRefreshSecretsAreSeparate(t *testing.T) {
	m := newTestManager()

	accessToken, err := m.IssueAccessToken("user-1", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	if _, err := m.VerifyRefreshToken(accessToken); err == nil {
		t.Error("Expected access token to fail refresh verification")
	}

	refreshToken, err := m.IssueRefreshToken("user-1", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("IssueRefreshToken failed: %v", err)
	}

	if _, err := m.VerifyAccessToken(refreshToken); err == nil {
		t.Error("Expected refresh token to fail access verification")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewJWTManager(testAccessSecret, testRefreshSecret, -1*time.Minute, -1*time.Minute)

	token, err := m.IssueAccessToken("user-1", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	_, err = m.VerifyAccessToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueAccessToken("user-1", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := m.VerifyAccessToken(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	m := newTestManager()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := m.VerifyAccessToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("VerifyAccessToken(%q): expected ErrTokenInvalid, got %v", token, err)
		}
	}
}
