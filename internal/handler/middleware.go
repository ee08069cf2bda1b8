package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/service"
)

// userContextKey is where Protect stores the resolved user.
const userContextKey = "user"

// Protect requires a valid Bearer access token and stores the resolved
// user on the context. A missing credential is a 401; a credential that
// is present but rejected (expired, tampered, issued before the user's
// last password change) maps through the service taxonomy.
func Protect(authService service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, logger, service.ErrUnauthorized)
			c.Abort()
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, logger, err)
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// Authorize allows only the given roles past. It must run after
// Protect.
func Authorize(logger *zap.Logger, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondError(c, logger, service.ErrUnauthorized)
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		respondError(c, logger, service.ErrForbidden)
		c.Abort()
	}
}

// currentUser returns the user Protect stored, or nil on public routes.
func currentUser(c *gin.Context) *domain.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
