package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/service"
)

// imagesFormField is the multipart field carrying product image files.
const imagesFormField = "images"

// ProductHandler handles product endpoints. Create and Update accept
// multipart forms so image files can travel with the fields.
type ProductHandler struct {
	productService *service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, logger: logger}
}

// List handles GET /products with the full query grammar.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondList(c, products)
}

// Get handles GET /products/:id where :id is a uuid or a slug.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, product)
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &req, h.imageFiles(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, product)
}

// Update handles PATCH /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), &req, h.imageFiles(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, product)
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ByCategory handles GET /products/category/:slug.
func (h *ProductHandler) ByCategory(c *gin.Context) {
	products, err := h.productService.ByCategorySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondList(c, products)
}

// Related handles GET /products/:id/related.
func (h *ProductHandler) Related(c *gin.Context) {
	products, err := h.productService.Related(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondList(c, products)
}

// imageFiles extracts the uploaded image files, if any. A request
// without a multipart body is fine; only malformed multipart fails, and
// that surfaces in ShouldBind before this runs.
func (h *ProductHandler) imageFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File[imagesFormField]
}
