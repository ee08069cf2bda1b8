package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// refreshCookieName is the cookie the refresh token travels in; the
// response body only ever carries the access token.
const refreshCookieName = "refresh-token"

// setRefreshCookie stores the refresh token in an httpOnly cookie.
// Production serves the frontend from another origin, so the cookie is
// SameSite=None and therefore must be Secure; development stays on Lax
// so plain-http local setups keep working.
func setRefreshCookie(c *gin.Context, token string, maxAge time.Duration, production bool) {
	if production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(refreshCookieName, token, int(maxAge.Seconds()), "/", "", production, true)
}

// clearRefreshCookie expires the refresh cookie with the same
// attributes it was set with.
func clearRefreshCookie(c *gin.Context, production bool) {
	if production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(refreshCookieName, "", -1, "/", "", production, true)
}
