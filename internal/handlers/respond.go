package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/membergate/member-portal/internal/logging"
	"github.com/membergate/member-portal/internal/service"
)

// User-facing failure messages. Invalid credentials deliberately reads
// the same for an unknown email and a wrong password.
const (
	msgInvalidCredentials = "Invalid credentials!"
	msgSomethingWentWrong = "Something went wrong!"
	msgEmailTaken         = "User already exists!"
	msgUnauthorized       = "Unauthorized access"
	msgNotFound           = "User not found"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP
// responses. Anything outside the taxonomy is logged with its internal
// detail and surfaced only as the generic message.
func respondServiceError(c *gin.Context, log logging.Logger, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
		return
	}

	var lo *service.LockedOutError
	if errors.As(err, &lo) {
		respondError(c, http.StatusTooManyRequests, lo.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, msgEmailTaken)
	case errors.Is(err, service.ErrUnauthorized):
		respondError(c, http.StatusForbidden, msgUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, msgNotFound)
	default:
		log.Error(contextOf(c), "unexpected failure", "error", err, "path", c.Request.URL.Path)
		respondError(c, http.StatusInternalServerError, msgSomethingWentWrong)
	}
}

func contextOf(c *gin.Context) context.Context {
	return c.Request.Context()
}
