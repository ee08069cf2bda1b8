package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/service"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// respondError translates a service error into its HTTP status. Errors
// outside the domain taxonomy are logged with full detail and returned
// as an opaque 500; their message never reaches the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrDuplicateEmail):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrInvalidSession):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Status:  statusError,
			Message: "something went wrong",
		})
		return
	}

	c.JSON(status, dto.ErrorResponse{
		Status:  statusFail,
		Message: err.Error(),
	})
}

// respondData wraps a payload in the success envelope.
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, dto.DataResponse{
		Status: statusSuccess,
		Data:   data,
	})
}

// respondList is respondData plus a result count for collection reads.
func respondList[T any](c *gin.Context, items []T) {
	length := len(items)
	c.JSON(http.StatusOK, dto.DataResponse{
		Status: statusSuccess,
		Length: &length,
		Data:   items,
	})
}
