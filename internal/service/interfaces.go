package service

import (
	"context"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/dto"
)

// TokenPair is a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService defines the session lifecycle operations.
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, *TokenPair, error)
	// Refresh rotates the session: the presented refresh token is
	// invalidated and a new pair is issued.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout never fails: token verification errors mean the session is
	// already gone and are swallowed.
	Logout(ctx context.Context, refreshToken string)
	// Authenticate verifies an access token, resolves its user and
	// rejects tokens issued before the user's last password change.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}
