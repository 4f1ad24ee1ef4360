package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/membergate/member-portal/internal/models"
	"github.com/redis/go-redis/v9"
)

// revokedKeyPrefix namespaces sign-out markers in Redis. A marker lives
// exactly as long as the token it revokes could still be presented.
const revokedKeyPrefix = "session:revoked:"

// Claims are the identity facts embedded in a session token. Role and
// Status ride along so the route guard can decide from the token alone;
// they are refreshed whenever the token is reissued.
type Claims struct {
	UserID string        `json:"user_id"`
	Email  string        `json:"email"`
	Name   string        `json:"name"`
	Image  string        `json:"image,omitempty"`
	Role   models.Role   `json:"role"`
	Status models.Status `json:"status"`
	// AuthTime is the unix time of the original credential check. It is
	// carried unchanged across renewals and bounds the update age.
	AuthTime int64 `json:"auth_time"`
	jwt.RegisteredClaims
}

// SessionService issues, decodes, renews and revokes session tokens.
type SessionService interface {
	Issue(identity *Identity) (string, error)
	// Decode returns the claims for a valid, unexpired, unrevoked token
	// and nil otherwise. An expired or revoked token is simply an absent
	// session; callers never learn why.
	Decode(ctx context.Context, tokenString string) *Claims
	// Renew issues a fresh token for the same identity, keeping the
	// original AuthTime. Past the update age it fails with
	// ErrRenewalExpired and the user must sign in again.
	Renew(ctx context.Context, claims *Claims) (string, error)
	// Invalidate marks the token revoked until its natural expiry.
	Invalidate(ctx context.Context, claims *Claims) error
	MaxAge() time.Duration
	UpdateAge() time.Duration
}

type sessionService struct {
	secret    []byte
	maxAge    time.Duration
	updateAge time.Duration
	redis     *redis.Client
}

// NewSessionService creates a SessionService signing with HS256.
// The secret must be at least 32 bytes.
func NewSessionService(secret string, maxAge, updateAge time.Duration, redisClient *redis.Client) (SessionService, error) {
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	return &sessionService{
		secret:    []byte(secret),
		maxAge:    maxAge,
		updateAge: updateAge,
		redis:     redisClient,
	}, nil
}

func (s *sessionService) Issue(identity *Identity) (string, error) {
	now := time.Now()
	return s.sign(identity, now.Unix(), now)
}

func (s *sessionService) Decode(ctx context.Context, tokenString string) *Claims {
	if tokenString == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}

	// A token revoked by sign-out is treated as absent. A Redis fault
	// counts as revoked: failing closed here only forces a re-login.
	revoked, err := s.redis.Exists(ctx, revokedKeyPrefix+claims.ID).Result()
	if err != nil || revoked > 0 {
		return nil
	}

	return claims
}

func (s *sessionService) Renew(ctx context.Context, claims *Claims) (string, error) {
	now := time.Now()
	if now.Sub(time.Unix(claims.AuthTime, 0)) > s.updateAge {
		return "", ErrRenewalExpired
	}

	identity := &Identity{
		ID:     claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role,
		Status: claims.Status,
	}
	if claims.Image != "" {
		image := claims.Image
		identity.Image = &image
	}

	token, err := s.sign(identity, claims.AuthTime, now)
	if err != nil {
		return "", err
	}

	// Retire the old token so only the renewed one circulates.
	if err := s.Invalidate(ctx, claims); err != nil {
		return "", err
	}
	return token, nil
}

func (s *sessionService) Invalidate(ctx context.Context, claims *Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revokedKeyPrefix+claims.ID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *sessionService) MaxAge() time.Duration {
	return s.maxAge
}

func (s *sessionService) UpdateAge() time.Duration {
	return s.updateAge
}

func (s *sessionService) sign(identity *Identity, authTime int64, now time.Time) (string, error) {
	claims := Claims{
		UserID:   identity.ID,
		Email:    identity.Email,
		Name:     identity.Name,
		Role:     identity.Role,
		Status:   identity.Status,
		AuthTime: authTime,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
		},
	}
	if identity.Image != nil {
		claims.Image = *identity.Image
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
