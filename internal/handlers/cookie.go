package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/membergate/member-portal/internal/config"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session_token"

// CookieHelper manages the session cookie. It satisfies the guard
// middleware's SessionCookie interface.
type CookieHelper struct {
	config config.CookieConfig
}

// NewCookieHelper creates a new cookie helper with the given configuration.
func NewCookieHelper(cfg config.CookieConfig) *CookieHelper {
	return &CookieHelper{config: cfg}
}

// Set writes the session token cookie.
func (h *CookieHelper) Set(c *gin.Context, token string, maxAge time.Duration) {
	h.setCookie(c, token, int(maxAge.Seconds()))
}

// Clear removes the session cookie.
func (h *CookieHelper) Clear(c *gin.Context) {
	h.setCookie(c, "", -1)
}

// Get retrieves the session token from the cookie, or "" when absent.
func (h *CookieHelper) Get(c *gin.Context) string {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return token
}

func (h *CookieHelper) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(h.config.SameSite)
	c.SetCookie(
		SessionCookie,
		value,
		maxAge,
		h.config.Path,
		h.config.Domain,
		h.config.Secure,
		true, // httpOnly - always true for the session cookie
	)
}
