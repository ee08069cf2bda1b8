package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chesterOps/salem-server/internal/domain"
)

// Token verification errors. Expiry is reported separately from other
// failures because refresh handling treats them differently.
var (
	ErrTokenExpired = errors.New("token is expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// JWTManager signs and verifies access and refresh tokens. The two
// token classes use distinct secrets, so an access token can never be
// presented as a refresh token or vice versa.
type JWTManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *JWTManager {
	return &JWTManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// IssueAccessToken signs a short-lived access token for the user.
func (j *JWTManager) IssueAccessToken(userID, role string) (string, error) {
	return j.sign(userID, role, j.accessSecret, j.accessExpiry)
}

// IssueRefreshToken signs a refresh token for the user.
func (j *JWTManager) IssueRefreshToken(userID, role string) (string, error) {
	return j.sign(userID, role, j.refreshSecret, j.refreshExpiry)
}

// VerifyAccessToken verifies an access token and returns its claims.
// Returns ErrTokenExpired or ErrTokenInvalid on failure.
func (j *JWTManager) VerifyAccessToken(token string) (*domain.TokenClaims, error) {
	return j.verify(token, j.accessSecret)
}

// VerifyRefreshToken verifies a refresh token and returns its claims.
func (j *JWTManager) VerifyRefreshToken(token string) (*domain.TokenClaims, error) {
	return j.verify(token, j.refreshSecret)
}

// AccessTokenExpiry returns the access token lifetime in seconds.
func (j *JWTManager) AccessTokenExpiry() int {
	return int(j.accessExpiry.Seconds())
}

func (j *JWTManager) sign(userID, role string, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

func (j *JWTManager) verify(tokenString string, secret []byte) (*domain.TokenClaims, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	out := &domain.TokenClaims{
		UserID: claims.Subject,
		Role:   claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}

	return out, nil
}
