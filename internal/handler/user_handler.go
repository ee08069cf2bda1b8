package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/service"
)

// UserHandler handles the admin-only user management endpoints.
type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// List handles GET /users with the full query grammar.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondList(c, users)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// Update handles PATCH /users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
