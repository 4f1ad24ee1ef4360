package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// CSRF returns middleware that validates Origin/Referer headers on
// state-changing requests. Required for cookie-based sessions, since
// browsers attach the session cookie to cross-site form posts too.
func CSRF(allowedOrigins []string) gin.HandlerFunc {
	allowedSet := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowedSet[normalizeOrigin(origin)] = true
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}

		if origin := c.GetHeader("Origin"); origin != "" {
			if !allowedSet[normalizeOrigin(origin)] {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "CSRF validation failed: invalid origin",
				})
				return
			}
			c.Next()
			return
		}

		if referer := c.GetHeader("Referer"); referer != "" {
			if !allowedSet[normalizeOrigin(extractOrigin(referer))] {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "CSRF validation failed: invalid referer",
				})
				return
			}
			c.Next()
			return
		}

		// No Origin or Referer header: reject. This catches direct
		// cross-site posts without browser context.
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "CSRF validation failed: missing origin",
		})
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(origin), "/")
}

// extractOrigin reduces a URL to scheme://host.
func extractOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
