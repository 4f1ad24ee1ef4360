package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the caller lacks the required role.
	ErrUnauthorized = errors.New("unauthorized access")

	// ErrNotFound means the referenced user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken means a user with that email is already registered.
	ErrEmailTaken = errors.New("user already exists")

	// ErrRenewalExpired means the session is past its update age and the
	// user must authenticate again.
	ErrRenewalExpired = errors.New("session renewal window expired")
)

// ValidationError reports a user-correctable input problem attributed to a
// single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LockedOutError means the email has hit the failed-attempt threshold
// inside the lockout window. Wait is how long until the window rolls.
type LockedOutError struct {
	Wait time.Duration
}

func (e *LockedOutError) Error() string {
	secs := int(e.Wait / time.Second)
	return fmt.Sprintf("Too many attempts. Please try again in %d:%d minutes.", secs/60, secs%60)
}
