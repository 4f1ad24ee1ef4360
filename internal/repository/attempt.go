package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/membergate/member-portal/internal/models"
	"gorm.io/gorm"
)

// AttemptRepository defines the interface for auth attempt records.
// Attempts are append-only; DeleteOlderThan exists solely for retention.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.AuthAttempt) error
	FindRecentFailed(ctx context.Context, email string, since time.Time) ([]models.AuthAttempt, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type attemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository creates a new AttemptRepository instance.
func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *models.AuthAttempt) error {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to record auth attempt: %w", err)
	}
	return nil
}

// FindRecentFailed returns failed attempts for email created at or after
// since, newest first.
func (r *attemptRepository) FindRecentFailed(ctx context.Context, email string, since time.Time) ([]models.AuthAttempt, error) {
	var attempts []models.AuthAttempt
	err := r.db.WithContext(ctx).
		Where("email = ? AND successful = ? AND created_at >= ?", email, false, since).
		Order("created_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent attempts for %s: %w", email, err)
	}
	return attempts, nil
}

func (r *attemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuthAttempt{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge auth attempts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
