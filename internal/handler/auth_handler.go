package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/service"
)

// AuthHandler handles the session lifecycle endpoints.
type AuthHandler struct {
	authService  service.AuthService
	cookieMaxAge time.Duration
	production   bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, cookieMaxAge time.Duration, production bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		production:   production,
		logger:       logger,
	}
}

// Signup handles POST /auth/signup. The new user is logged in
// immediately: the response carries an access token and the refresh
// cookie is set.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	_, pair, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setRefreshCookie(c, pair.RefreshToken, h.cookieMaxAge, h.production)
	c.JSON(http.StatusCreated, dto.TokenResponse{
		Status:      statusSuccess,
		Message:     "account created",
		AccessToken: pair.AccessToken,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	_, pair, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setRefreshCookie(c, pair.RefreshToken, h.cookieMaxAge, h.production)
	c.JSON(http.StatusOK, dto.TokenResponse{
		Status:      statusSuccess,
		Message:     "logged in successfully",
		AccessToken: pair.AccessToken,
	})
}

// Refresh handles POST /auth/refresh-token. The presented cookie token is
// rotated: it stops working and the response sets its replacement.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil {
		respondError(c, h.logger, service.ErrUnauthorized)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		clearRefreshCookie(c, h.production)
		respondError(c, h.logger, err)
		return
	}

	setRefreshCookie(c, pair.RefreshToken, h.cookieMaxAge, h.production)
	c.JSON(http.StatusOK, dto.TokenResponse{
		Status:      statusSuccess,
		AccessToken: pair.AccessToken,
	})
}

// Logout handles POST /auth/logout. It always succeeds: logging out
// with a missing or invalid cookie just clears it.
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookieName)
	h.authService.Logout(c.Request.Context(), refreshToken)

	clearRefreshCookie(c, h.production)
	c.Status(http.StatusNoContent)
}

// GetProfile handles GET /auth/get-profile for the authenticated user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondError(c, h.logger, service.ErrUnauthorized)
		return
	}

	respondData(c, http.StatusOK, user)
}
