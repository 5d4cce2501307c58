package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"lockwatch/pkg/config"
	"lockwatch/pkg/model"
)

// Scheduler drives the monitor on a fixed cadence, one worker per tenant
// scope. A pass that overruns its interval skips the next tick rather
// than stacking up; passes for different tenants run independently.
type Scheduler struct {
	monitor  MonitorService
	cfg      *config.Config
	interval time.Duration
	tenants  []string

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

func NewScheduler(monitor MonitorService, cfg *config.Config) *Scheduler {
	tenants := cfg.TenantScopes
	if len(tenants) == 0 {
		// No explicit scopes configured: single system-wide worker.
		tenants = []string{""}
	}
	return &Scheduler{
		monitor:  monitor,
		cfg:      cfg,
		interval: cfg.SamplingInterval,
		tenants:  tenants,
	}
}

// Start launches the per-tenant workers. Each worker sleeps a random
// fraction of the interval before its first pass so tenants do not all
// hit the monitored instance at once, then runs on every tick until the
// scheduler is stopped.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	for _, tenant := range s.tenants {
		s.wg.Add(1)
		go s.runWorker(ctx, tenant)
	}
	s.cfg.Log.Info("Scheduler started", "tenants", len(s.tenants), "interval", s.interval)
}

// Stop cancels all workers and waits for in-flight passes to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.cfg.Log.Info("Scheduler stopped")
}

// jitterDelay picks a uniformly random initial delay in [0, interval/2)
// to spread worker start times.
func jitterDelay(interval time.Duration) time.Duration {
	if interval <= 1 {
		return 0
	}
	return rand.N(interval / 2)
}

func (s *Scheduler) runWorker(ctx context.Context, tenant string) {
	defer s.wg.Done()

	if delay := jitterDelay(s.interval); delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}

	s.runPass(ctx, tenant)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runPass(ctx, tenant)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context, tenant string) {
	passCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	scope := tenant
	if scope == "" {
		scope = model.SystemTenant
	}

	summary, err := s.monitor.RunOnce(passCtx, tenant)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.cfg.Log.Error("Scheduled pass failed", "tenant", scope, "error", err)
		return
	}

	s.cfg.Log.Debug("Scheduled pass finished",
		"tenant", scope,
		"pass_id", summary.PassID,
		"locks", summary.LocksCaptured,
		"alert_level", summary.AlertLevel,
	)
}
