package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/repository"
	"github.com/chesterOps/salem-server/internal/utils"
)

// authService implements AuthService
type authService struct {
	users      repository.UserRepository
	jwtManager *utils.JWTManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, jwtManager *utils.JWTManager, bcryptCost int, logger *zap.Logger) AuthService {
	return &authService{
		users:      users,
		jwtManager: jwtManager,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup creates a new user and opens a session for it.
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*domain.User, *TokenPair, error) {
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return nil, nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, nil, fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        utils.SanitizeEmail(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: passwordHash,
		Role:         domain.RoleCustomer,
		Active:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrDuplicateEmail
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Login authenticates a user by email and password. A missing user and
// a wrong password produce the same error so accounts cannot be
// enumerated.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, *TokenPair, error) {
	if req.Email == "" || req.Password == "" {
		return nil, nil, fmt.Errorf("%w: please provide login credentials", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Active || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh rotates the session bound to the presented refresh token.
// The stored token must exactly match the presented one: a token that
// was already superseded by rotation is rejected, which is how stolen
// or replayed tokens surface. The compare-and-swap in the repository
// ensures that of several concurrent rotations with the same stale
// token at most one succeeds.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, ErrInvalidSession
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, repository.ErrTokenMismatch) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return pair, nil
}

// Logout clears the session bound to the presented refresh token. A
// missing, expired or tampered token is indistinguishable from being
// already logged out, so every failure here is swallowed.
func (s *authService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug("ignoring invalid refresh token during logout", zap.Error(err))
		return
	}

	if err := s.users.ClearRefreshToken(ctx, claims.UserID); err != nil {
		s.logger.Warn("failed to clear refresh token during logout",
			zap.String("user_id", claims.UserID), zap.Error(err))
	}
}

// Authenticate resolves the user behind an access token. Beyond the
// signature and expiry checks, a token issued before the user's last
// password change is rejected even though it still verifies; this is
// what revokes outstanding access tokens on password change without a
// blocklist.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.jwtManager.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid or expired access token", ErrInvalidSession)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user does not exist", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, fmt.Errorf("%w: password was changed recently, please log in again", ErrForbidden)
	}

	return user, nil
}

// openSession issues a fresh token pair and overwrites the user's
// refresh-token slot, invalidating any previously active session.
func (s *authService) openSession(ctx context.Context, user *domain.User) (*TokenPair, error) {
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return pair, nil
}

func (s *authService) issuePair(user *domain.User) (*TokenPair, error) {
	accessToken, err := s.jwtManager.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.jwtManager.IssueRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
