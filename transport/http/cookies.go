package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const csrfCookieTTL = 24 * time.Hour

// setSessionCookie attaches the session token as an httpOnly lax cookie
// scoped to the whole site, secure in production.
func (h *Handlers) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessionCookieName, token, int(h.sessionTTL.Seconds()), "/", "", h.production, true)
}

// clearSessionCookie removes the session cookie.
func (h *Handlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessionCookieName, "", -1, "/", "", h.production, true)
}

// setCSRFCookie attaches the CSRF token. Unlike the session cookie it is
// readable by client script: the double-submit pattern requires the
// frontend to echo it back in a header.
func (h *Handlers) setCSRFCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.csrfCookieName, token, int(csrfCookieTTL.Seconds()), "/", "", h.production, false)
}
