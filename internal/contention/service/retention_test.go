package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lockwatch/pkg/clock"
)

func TestRetentionSweep_CutoffFromHorizon(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	var gotCutoff, gotAt time.Time
	repo := &mockContentionRepository{
		closeBeforeFunc: func(_ context.Context, cutoff, at time.Time) (int64, error) {
			gotCutoff = cutoff
			gotAt = at
			return 7, nil
		},
	}

	cfg := testConfig()
	cfg.RetentionHorizon = 30 * 24 * time.Hour
	cfg.RetentionInterval = 6 * time.Hour
	svc := NewRetentionService(repo, clock.Fixed{At: now}, cfg)

	closed, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed != 7 {
		t.Errorf("expected 7 closed records, got %d", closed)
	}
	if want := now.Add(-30 * 24 * time.Hour); !gotCutoff.Equal(want) {
		t.Errorf("expected cutoff %v, got %v", want, gotCutoff)
	}
	if !gotAt.Equal(now) {
		t.Errorf("expected close timestamp %v, got %v", now, gotAt)
	}
}

func TestRetentionSweep_PropagatesRepositoryError(t *testing.T) {
	repoErr := errors.New("connection reset")
	repo := &mockContentionRepository{
		closeBeforeFunc: func(context.Context, time.Time, time.Time) (int64, error) {
			return 0, repoErr
		},
	}

	cfg := testConfig()
	cfg.RetentionHorizon = 24 * time.Hour
	cfg.RetentionInterval = time.Hour
	svc := NewRetentionService(repo, clock.Fixed{At: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}, cfg)

	if _, err := svc.Sweep(context.Background()); !errors.Is(err, repoErr) {
		t.Errorf("expected repository error, got %v", err)
	}
}

func TestRetentionService_StartStop(t *testing.T) {
	repo := &mockContentionRepository{}

	cfg := testConfig()
	cfg.RetentionHorizon = 24 * time.Hour
	cfg.RetentionInterval = time.Hour
	svc := NewRetentionService(repo, clock.Fixed{At: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}, cfg)

	svc.Start(context.Background())
	svc.Start(context.Background()) // second start is a no-op
	svc.Stop()
	svc.Stop() // second stop is a no-op
}
