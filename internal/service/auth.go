package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/membergate/member-portal/internal/logging"
	"github.com/membergate/member-portal/internal/models"
	"github.com/membergate/member-portal/internal/repository"
	"gorm.io/gorm"
)

// Identity is the minimal view of an authenticated user returned by the
// credential check. The password hash never leaves the service.
type Identity struct {
	ID     string
	Email  string
	Name   string
	Image  *string
	Role   models.Role
	Status models.Status
}

// RegisterInput carries a sign-up request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Image    *string
}

// AuthService orchestrates credential authentication with lockout
// tracking, and member registration.
type AuthService interface {
	// Authenticate verifies email+password. It fails with
	// *LockedOutError once the failed-attempt threshold is reached
	// inside the lockout window, and with ErrInvalidCredentials for an
	// unknown email or a wrong password alike. Every call that reaches
	// the user lookup appends exactly one AuthAttempt; a failure to
	// append fails the whole call, since the audit trail is what makes
	// the lockout count correct.
	Authenticate(ctx context.Context, email, password, ip, userAgent string) (*Identity, error)
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
}

type authService struct {
	users       repository.UserRepository
	attempts    repository.AttemptRepository
	hasher      PasswordHasher
	maxAttempts int
	window      time.Duration
	log         logging.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	users repository.UserRepository,
	attempts repository.AttemptRepository,
	hasher PasswordHasher,
	maxAttempts int,
	window time.Duration,
	log logging.Logger,
) AuthService {
	return &authService{
		users:       users,
		attempts:    attempts,
		hasher:      hasher,
		maxAttempts: maxAttempts,
		window:      window,
		log:         log,
	}
}

func (s *authService) Authenticate(ctx context.Context, email, password, ip, userAgent string) (*Identity, error) {
	email = NormalizeEmail(email)

	// The lockout check reads existing attempts only; a short-circuit
	// here appends nothing. Counting and appending are separate queries,
	// so concurrent logins for one email can each slip under the
	// threshold. The limiter is best-effort, matching the store's lack
	// of transactional isolation for this flow.
	now := time.Now()
	recent, err := s.attempts.FindRecentFailed(ctx, email, now.Add(-s.window))
	if err != nil {
		return nil, fmt.Errorf("lockout check for %s: %w", email, err)
	}
	if len(recent) >= s.maxAttempts {
		oldest := recent[len(recent)-1]
		elapsed := now.Sub(oldest.CreatedAt)
		if elapsed < s.window {
			wait := time.Duration(math.Ceil((s.window - elapsed).Seconds())) * time.Second
			return nil, &LockedOutError{Wait: wait}
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.record(ctx, email, nil, false, ip, userAgent); err != nil {
				return nil, err
			}
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user lookup: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		if err := s.record(ctx, email, &user.ID, false, ip, userAgent); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.record(ctx, email, &user.ID, true, ip, userAgent); err != nil {
		return nil, err
	}

	return &Identity{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Image:  user.Image,
		Role:   user.Role,
		Status: user.Status,
	}, nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 3 {
		return nil, &ValidationError{Field: "name", Message: "Name should be at least 3 characters"}
	}

	email := NormalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &ValidationError{Field: "email", Message: "Please enter a valid email."}
	}

	if input.Password == "" {
		return nil, &ValidationError{Field: "password", Message: "Password field must not be empty."}
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("password hashing: %w", err)
	}

	user := &models.User{
		Name:           name,
		Email:          email,
		Image:          input.Image,
		HashedPassword: hashed,
		Role:           models.RoleMember,
		Status:         models.StatusPending,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("user creation: %w", err)
	}

	s.log.Info(ctx, "member registered", "user_id", user.ID)
	return user, nil
}

// record appends one immutable AuthAttempt. Errors here fail the caller:
// an unrecorded attempt would let the lockout counter undercount.
func (s *authService) record(ctx context.Context, email string, userID *string, successful bool, ip, userAgent string) error {
	attempt := &models.AuthAttempt{
		Email:      email,
		UserID:     userID,
		Successful: successful,
	}
	if ip != "" {
		attempt.IPAddress = &ip
	}
	if userAgent != "" {
		attempt.UserAgent = &userAgent
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return fmt.Errorf("attempt tracking: %w", err)
	}
	return nil
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
