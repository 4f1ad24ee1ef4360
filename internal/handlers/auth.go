// Package handlers contains HTTP request handlers for the member portal.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/membergate/member-portal/internal/logging"
	"github.com/membergate/member-portal/internal/metrics"
	"github.com/membergate/member-portal/internal/middleware"
	"github.com/membergate/member-portal/internal/service"
)

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	auth     service.AuthService
	sessions service.SessionService
	cookies  *CookieHelper
	metrics  *metrics.Metrics
	log      logging.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	auth service.AuthService,
	sessions service.SessionService,
	cookies *CookieHelper,
	m *metrics.Metrics,
	log logging.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		cookies:  cookies,
		metrics:  m,
		log:      log,
	}
}

// RegisterRequest represents the sign-up payload.
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Image    *string `json:"image"`
}

// LoginRequest represents the sign-in payload. CallbackURL is the page
// the guard bounced the user from, echoed back after success.
type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

// Register godoc
// @Summary Sign up
// @Description Register a new member; the account stays pending until approved
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Sign-up fields"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    req.Image,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	h.metrics.Registrations.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"id":      user.ID,
		"message": "User created successfully! You will be notified once your account is approved!",
	})
}

// Login godoc
// @Summary Sign in
// @Description Authenticate with email and password and receive a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	identity, err := h.auth.Authenticate(
		c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.Request.UserAgent(),
	)
	if err != nil {
		h.metrics.LoginAttempts.WithLabelValues(loginResult(err)).Inc()
		respondServiceError(c, h.log, err)
		return
	}

	token, err := h.sessions.Issue(identity)
	if err != nil {
		h.metrics.LoginAttempts.WithLabelValues(metrics.ResultError).Inc()
		h.log.Error(c.Request.Context(), "session issuance failed", "error", err)
		respondError(c, http.StatusInternalServerError, msgSomethingWentWrong)
		return
	}

	h.metrics.LoginAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
	h.cookies.Set(c, token, h.sessions.MaxAge())
	c.JSON(http.StatusOK, gin.H{
		"message":    "signed in",
		"redirectTo": safeCallback(req.CallbackURL),
	})
}

// Logout godoc
// @Summary Sign out
// @Description Revoke the current session and clear the cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := middleware.CurrentClaims(c); claims != nil {
		if err := h.sessions.Invalidate(c.Request.Context(), claims); err != nil {
			h.log.Error(c.Request.Context(), "session revocation failed", "error", err)
			respondError(c, http.StatusInternalServerError, msgSomethingWentWrong)
			return
		}
	}

	// Clearing the cookie is worthwhile even without a live session.
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "signed out", "redirectTo": "/"})
}

func loginResult(err error) string {
	var lo *service.LockedOutError
	switch {
	case errors.As(err, &lo):
		return metrics.ResultLocked
	case errors.Is(err, service.ErrInvalidCredentials):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

// safeCallback keeps the post-login redirect on this site. Anything
// that is not a plain absolute path falls back to home.
func safeCallback(callback string) string {
	if callback == "" || !strings.HasPrefix(callback, "/") || strings.HasPrefix(callback, "//") {
		return "/"
	}
	return callback
}
