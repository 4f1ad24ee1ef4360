package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/membergate/member-portal/internal/logging"
)

func TestRetention_PurgeUsesHorizon(t *testing.T) {
	attempts := &mockAttemptRepository{}
	var gotCutoff time.Time
	attempts.deleteOlderThanFunc = func(_ context.Context, cutoff time.Time) (int64, error) {
		gotCutoff = cutoff
		return 3, nil
	}

	retention := 30 * 24 * time.Hour
	svc := NewRetentionService(attempts, retention, time.Hour, logging.NewDefault())
	svc.Purge(context.Background())

	want := time.Now().Add(-retention)
	if gotCutoff.Before(want.Add(-time.Minute)) || gotCutoff.After(want.Add(time.Minute)) {
		t.Errorf("cutoff = %v, want ~%v", gotCutoff, want)
	}
}

func TestRetention_PurgeSurvivesErrors(t *testing.T) {
	attempts := &mockAttemptRepository{}
	attempts.deleteOlderThanFunc = func(_ context.Context, _ time.Time) (int64, error) {
		return 0, errors.New("connection refused")
	}

	svc := NewRetentionService(attempts, time.Hour, time.Hour, logging.NewDefault())
	// Must not panic; the next tick simply retries.
	svc.Purge(context.Background())
}

func TestRetention_RunStopsOnCancel(t *testing.T) {
	attempts := &mockAttemptRepository{}
	attempts.deleteOlderThanFunc = func(_ context.Context, _ time.Time) (int64, error) {
		return 0, nil
	}
	svc := NewRetentionService(attempts, time.Hour, time.Hour, logging.NewDefault())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after context cancellation")
	}
}
