// Package middleware provides HTTP middleware for the member portal.
package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/membergate/member-portal/internal/models"
	"github.com/membergate/member-portal/internal/service"
)

// claimsKey is where the guard parks decoded session claims in the gin
// context for downstream handlers.
const claimsKey = "session_claims"

// GuardConfig names the paths the route guard reasons about.
type GuardConfig struct {
	// ProtectedPrefixes require a session.
	ProtectedPrefixes []string
	// AdminPrefixes additionally require the SUPER_ADMIN role.
	AdminPrefixes []string
	// PublicPaths stay reachable for PENDING/REJECTED members.
	PublicPaths []string

	SignInPath    string
	SignOutPath   string
	HomePath      string
	DashboardPath string
}

// DefaultGuardConfig returns the portal's route layout.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		ProtectedPrefixes: []string{"/dashboard"},
		AdminPrefixes:     []string{"/dashboard/members"},
		PublicPaths:       []string{"/", "/login", "/register"},
		SignInPath:        "/login",
		SignOutPath:       "/logout",
		HomePath:          "/",
		DashboardPath:     "/dashboard",
	}
}

// Decision is the outcome of guarding one request.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Decide is the route guard: a pure function of the session claims (nil
// when absent) and the requested path. Rules are checked in order:
//
//  1. protected path without a session redirects to sign-in, carrying
//     the requested path as callbackUrl
//  2. a PENDING or REJECTED member is confined to the public pages and
//     the sign-out endpoint
//  3. admin paths require SUPER_ADMIN
//  4. anything else is allowed
func Decide(cfg GuardConfig, claims *service.Claims, path string) Decision {
	if claims == nil && matchesPrefix(cfg.ProtectedPrefixes, path) {
		return Decision{RedirectTo: cfg.SignInPath + "?callbackUrl=" + url.QueryEscape(path)}
	}

	if claims != nil &&
		(claims.Status == models.StatusPending || claims.Status == models.StatusRejected) &&
		!containsPath(cfg.PublicPaths, path) &&
		path != cfg.SignOutPath {
		return Decision{RedirectTo: cfg.HomePath}
	}

	if matchesPrefix(cfg.AdminPrefixes, path) &&
		(claims == nil || claims.Role != models.RoleSuperAdmin) {
		return Decision{RedirectTo: cfg.DashboardPath}
	}

	return Decision{Allow: true}
}

// SessionCookie reads and writes the session token cookie. Implemented
// by handlers.CookieHelper.
type SessionCookie interface {
	Get(c *gin.Context) string
	Set(c *gin.Context, token string, maxAge time.Duration)
}

// Guard returns middleware that resolves the current session from the
// cookie, stores its claims in the context, transparently renews tokens
// in their back half, and enforces Decide. The decision is computed
// fresh on every request; nothing is cached.
func Guard(cfg GuardConfig, sessions service.SessionService, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := sessions.Decode(c.Request.Context(), cookie.Get(c))
		claims = maybeRenew(c, sessions, cookie, claims)
		if claims != nil {
			c.Set(claimsKey, claims)
		}

		decision := Decide(cfg, claims, c.Request.URL.Path)
		if !decision.Allow {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}

		c.Next()
	}
}

// maybeRenew reissues a token past the midpoint of its lifetime. A
// session past the update age cannot renew; it rides out its current
// token and then the user signs in again.
func maybeRenew(c *gin.Context, sessions service.SessionService, cookie SessionCookie, claims *service.Claims) *service.Claims {
	if claims == nil || claims.IssuedAt == nil {
		return claims
	}
	if time.Since(claims.IssuedAt.Time) < sessions.MaxAge()/2 {
		return claims
	}

	token, err := sessions.Renew(c.Request.Context(), claims)
	if err != nil {
		// ErrRenewalExpired or a revocation-store fault: keep the
		// current token, it still carries the session until expiry.
		return claims
	}
	cookie.Set(c, token, sessions.MaxAge())
	return sessions.Decode(c.Request.Context(), token)
}

// CurrentClaims returns the session claims the guard resolved for this
// request, or nil when there is no session.
func CurrentClaims(c *gin.Context) *service.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequireSession rejects requests without a resolved session. Used on
// API routes that have no page to redirect to.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentClaims(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func matchesPrefix(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}
