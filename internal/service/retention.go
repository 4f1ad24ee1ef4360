package service

import (
	"context"
	"time"

	"github.com/membergate/member-portal/internal/logging"
	"github.com/membergate/member-portal/internal/repository"
)

// RetentionService periodically purges auth attempts older than the
// retention horizon. The horizon is far outside the lockout window, so
// the purge can never change a lockout decision.
type RetentionService struct {
	attempts  repository.AttemptRepository
	retention time.Duration
	interval  time.Duration
	log       logging.Logger
}

// NewRetentionService creates a RetentionService purging every interval.
func NewRetentionService(attempts repository.AttemptRepository, retention, interval time.Duration, log logging.Logger) *RetentionService {
	return &RetentionService{
		attempts:  attempts,
		retention: retention,
		interval:  interval,
		log:       log,
	}
}

// Run purges on a ticker until ctx is cancelled. Call it from its own
// goroutine.
func (s *RetentionService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Purge(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Purge(ctx)
		}
	}
}

// Purge deletes attempts older than the retention horizon once.
func (s *RetentionService) Purge(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.attempts.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error(ctx, "auth attempt purge failed", "error", err)
		return
	}
	if deleted > 0 {
		s.log.Info(ctx, "purged auth attempts", "deleted", deleted, "cutoff", cutoff)
	}
}
