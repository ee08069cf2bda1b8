package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/service"
)

// RateLimitMiddleware applies a sliding-window limit per key. A limiter
// backend failure lets the request through: losing rate limiting beats
// losing the API.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, retryAfter, err := rateLimiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))

			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Status:  statusFail,
				Message: "too many requests, please try again later",
			})
			c.Abort()
			return
		}

		remaining, _ := rateLimiter.Remaining(c.Request.Context(), key, limit, window)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}

// IPBasedKey buckets requests by client IP.
func IPBasedKey(c *gin.Context) string {
	// X-Forwarded-For can carry a chain; the first hop is the client.
	ip := c.GetHeader("X-Forwarded-For")
	if ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}
	return c.ClientIP()
}
