package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/service"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categoryService *service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, logger: logger}
}

// List handles GET /categories with the full query grammar.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondList(c, categories)
}

// Get handles GET /categories/:id where :id is a uuid or a slug.
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, category)
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, category)
}

// Update handles PATCH /categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, category)
}

// Delete handles DELETE /categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
