package service

import (
	"context"
	"sync"
	"time"

	"lockwatch/internal/contention/repository"
	"lockwatch/pkg/clock"
	"lockwatch/pkg/config"
)

// RetentionService periodically closes findings older than the retention
// horizon. Nothing is deleted; closed records stay queryable but carry a
// closed_at stamp so dashboards can exclude them.
type RetentionService struct {
	repo     repository.ContentionRepository
	clk      clock.Clock
	cfg      *config.Config
	horizon  time.Duration
	interval time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

func NewRetentionService(repo repository.ContentionRepository, clk clock.Clock, cfg *config.Config) *RetentionService {
	return &RetentionService{
		repo:     repo,
		clk:      clk,
		cfg:      cfg,
		horizon:  cfg.RetentionHorizon,
		interval: cfg.RetentionInterval,
	}
}

// Sweep runs one retention pass and returns how many records it closed.
func (s *RetentionService) Sweep(ctx context.Context) (int64, error) {
	now := s.clk.Now()
	cutoff := now.Add(-s.horizon)

	closed, err := s.repo.CloseRecordsBefore(ctx, cutoff, now)
	if err != nil {
		return closed, err
	}

	if closed > 0 {
		s.cfg.Log.Info("Retention sweep closed stale records", "closed", closed, "cutoff", cutoff)
	}
	return closed, nil
}

func (s *RetentionService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
	s.cfg.Log.Info("Retention service started", "horizon", s.horizon, "interval", s.interval)
}

func (s *RetentionService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.cfg.Log.Info("Retention service stopped")
}

func (s *RetentionService) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.cfg.Log.Error("Retention sweep failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
