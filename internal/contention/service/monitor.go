package service

import (
	"context"
	"errors"
	"fmt"

	"lockwatch/internal/contention/alerts"
	"lockwatch/internal/contention/engine"
	contentionerrors "lockwatch/internal/contention/errors"
	"lockwatch/internal/contention/repository"
	"lockwatch/internal/contention/validator"
	"lockwatch/pkg/clock"
	"lockwatch/pkg/config"
	apperrors "lockwatch/pkg/errors"
	"lockwatch/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// LockSampler is the snapshot source for one pass. Satisfied by
// sampler.Sampler; faked in tests.
type LockSampler interface {
	Snapshot(ctx context.Context, tenant, passID string) ([]*model.LockRecord, error)
}

type MonitorService interface {
	// RunOnce executes one complete monitoring pass for the tenant scope
	// (empty = system-wide).
	RunOnce(ctx context.Context, tenant string) (*model.RunSummary, error)

	GetSessionSummaries(ctx context.Context, tenant, minSeverity string, limit int, offset int64) ([]*model.SessionSummary, int64, error)
	GetAnalysisWindows(ctx context.Context, tenant string, limit int, offset int64) ([]*model.AnalysisWindow, int64, error)
	GetDeadlocks(ctx context.Context, tenant, status string, limit int, offset int64) ([]*model.DeadlockEvent, int64, error)
	ResolveDeadlock(ctx context.Context, id string) (*model.DeadlockEvent, error)
}

type monitorService struct {
	sampler   LockSampler
	repo      repository.ContentionRepository
	publisher alerts.Publisher
	validator *validator.FindingValidator
	clk       clock.Clock
	cfg       *config.Config
}

func NewMonitorService(
	sampler LockSampler,
	repo repository.ContentionRepository,
	publisher alerts.Publisher,
	validator *validator.FindingValidator,
	clk clock.Clock,
	cfg *config.Config,
) MonitorService {
	return &monitorService{
		sampler:   sampler,
		repo:      repo,
		publisher: publisher,
		validator: validator,
		clk:       clk,
		cfg:       cfg,
	}
}

func (s *monitorService) thresholds() engine.Thresholds {
	return engine.Thresholds{
		SeverityMediumAfter:   s.cfg.SeverityMediumAfter,
		SeverityHighAfter:     s.cfg.SeverityHighAfter,
		SeverityCriticalAfter: s.cfg.SeverityCriticalAfter,
		KillThreshold:         s.cfg.KillThreshold,
		BlockingPenalty:       s.cfg.BlockingPenalty,
		DeadlockPenalty:       s.cfg.DeadlockPenalty,
		TrendNoiseBand:        s.cfg.TrendNoiseBand,
		HotspotLimit:          s.cfg.HotspotLimit,
		BlockingSessWarn:      s.cfg.BlockingSessWarn,
		CriticalLocksWarn:     s.cfg.CriticalLocksWarn,
		EfficiencyWarn:        s.cfg.EfficiencyWarn,
	}
}

func (s *monitorService) RunOnce(ctx context.Context, tenant string) (*model.RunSummary, error) {
	passID := uuid.New().String()
	startedAt := s.clk.Now()

	tenantID := tenant
	if tenantID == "" {
		tenantID = model.SystemTenant
	}

	records, err := s.sampler.Snapshot(ctx, tenant, passID)
	if err != nil {
		if errors.Is(err, contentionerrors.ErrUnknownTenant) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown tenant scope: %s", tenant))
		}
		s.cfg.Log.Error("Lock snapshot failed", "tenant", tenantID, "pass_id", passID, "error", err)
		return nil, apperrors.Internal("Failed to capture lock snapshot", err)
	}

	t := s.thresholds()

	edges := engine.ResolveBlocking(records)
	engine.ApplyScores(records, edges)

	summaries, droppedEdges := engine.AggregateSessions(records, edges, t, tenantID, passID, startedAt)
	if droppedEdges > 0 {
		s.cfg.Log.Warn("Dropped blocking edges referencing vanished sessions",
			"tenant", tenantID, "pass_id", passID, "dropped", droppedEdges)
	}

	detected := engine.DetectDeadlocks(records, edges, tenantID, passID, startedAt)

	newEvents, staleOpen, err := s.planReconciliation(ctx, tenantID, detected)
	if err != nil {
		return nil, apperrors.Internal("Failed to reconcile deadlock events", err)
	}

	prev, err := s.repo.FindLatestWindow(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, contentionerrors.ErrNotFound) {
			return nil, apperrors.Internal("Failed to load previous analysis window", err)
		}
		prev = nil
	}

	completedAt := s.clk.Now()
	window := engine.AnalyzeWindow(records, edges, len(detected), prev, t, tenantID, passID, startedAt, completedAt)

	recommendations, level := engine.Recommend(summaries, records, len(detected), window, t)

	for _, e := range newEvents {
		if err := s.validator.ValidateDeadlock(e); err != nil {
			s.cfg.Log.Error("Deadlock event failed validation", "tenant", tenantID, "pass_id", passID, "error", err)
			return nil, apperrors.Internal("Deadlock event failed validation", err)
		}
	}
	if err := s.validator.ValidateWindow(window); err != nil {
		s.cfg.Log.Error("Analysis window failed validation", "tenant", tenantID, "pass_id", passID, "error", err)
		return nil, apperrors.Internal("Analysis window failed validation", err)
	}

	resolvedInferred := 0
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The callback can be retried; the counter restarts with it.
		resolvedInferred = 0
		for _, stale := range staleOpen {
			if _, err := s.repo.ResolveDeadlock(sessCtx, stale.ID, model.ResolutionInferred, completedAt); err != nil {
				if errors.Is(err, contentionerrors.ErrNotFound) {
					// Raced with a manual resolution; nothing left to do.
					continue
				}
				return err
			}
			resolvedInferred++
		}
		if err := s.repo.InsertLockRecords(sessCtx, records); err != nil {
			return err
		}
		if err := s.repo.InsertSessionSummaries(sessCtx, summaries); err != nil {
			return err
		}
		if err := s.repo.InsertDeadlockEvents(sessCtx, newEvents); err != nil {
			return err
		}
		return s.repo.InsertAnalysisWindow(sessCtx, window)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to persist pass findings", "tenant", tenantID, "pass_id", passID, "error", err)
		return nil, apperrors.Internal("Failed to persist pass findings", err)
	}

	if level != model.AlertNone {
		alert := &model.AlertEvent{
			ID:              uuid.New().String(),
			TenantID:        tenantID,
			PassID:          passID,
			Level:           level.String(),
			Recommendations: recommendations,
			Summaries:       alertableSummaries(summaries),
			Deadlocks:       detected,
			EmittedAt:       completedAt,
		}
		if err := s.validator.ValidateAlert(alert); err != nil {
			s.cfg.Log.Error("Alert event failed validation", "tenant", tenantID, "pass_id", passID, "error", err)
		} else if err := s.publisher.Publish(ctx, alert); err != nil {
			// Findings are already persisted; a lost alert is degraded
			// delivery, not a failed pass.
			s.cfg.Log.Error("Failed to publish alert", "tenant", tenantID, "pass_id", passID, "error", err)
		}
	}

	criticalCount := 0
	for _, sum := range summaries {
		if sum.Severity == model.SeverityCritical {
			criticalCount++
		}
	}

	s.cfg.Log.Info("Monitoring pass completed",
		"tenant", tenantID,
		"pass_id", passID,
		"locks", len(records),
		"blocking_edges", len(edges),
		"deadlocks", len(detected),
		"inferred_resolutions", resolvedInferred,
		"efficiency", window.EfficiencyScore,
		"alert_level", level.String(),
	)

	return &model.RunSummary{
		PassID:          passID,
		TenantID:        tenantID,
		LocksCaptured:   len(records),
		BlockingCount:   len(edges),
		CriticalCount:   criticalCount,
		DeadlocksCount:  len(detected),
		EfficiencyScore: window.EfficiencyScore,
		AlertLevel:      level.String(),
		Recommendations: recommendations,
		StartedAt:       startedAt,
		CompletedAt:     completedAt,
	}, nil
}

// planReconciliation compares this pass's detected cycles with the open
// events on record. Cycles already open are not inserted again; open
// events whose cycle was not re-observed are returned as stale so the
// pass transaction can mark them resolved with an inferred resolution.
// A pass that fails to persist leaves them untouched.
func (s *monitorService) planReconciliation(ctx context.Context, tenantID string, detected []*model.DeadlockEvent) (newEvents, staleOpen []*model.DeadlockEvent, err error) {
	open, err := s.repo.FindOpenDeadlocks(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}

	openByKey := make(map[string]*model.DeadlockEvent, len(open))
	for _, e := range open {
		openByKey[e.CycleKey] = e
	}

	currentKeys := make(map[string]struct{}, len(detected))
	for _, e := range detected {
		currentKeys[e.CycleKey] = struct{}{}
		if _, alreadyOpen := openByKey[e.CycleKey]; !alreadyOpen {
			newEvents = append(newEvents, e)
		}
	}

	for key, e := range openByKey {
		if _, stillPresent := currentKeys[key]; stillPresent {
			continue
		}
		staleOpen = append(staleOpen, e)
	}
	return newEvents, staleOpen, nil
}

// alertableSummaries trims the alert payload to sessions that actually
// block someone.
func alertableSummaries(summaries []*model.SessionSummary) []*model.SessionSummary {
	var out []*model.SessionSummary
	for _, s := range summaries {
		if s.BlockedCount > 0 {
			out = append(out, s)
		}
	}
	return out
}

func (s *monitorService) GetSessionSummaries(ctx context.Context, tenant, minSeverity string, limit int, offset int64) ([]*model.SessionSummary, int64, error) {
	tenantID := tenant
	if tenantID == "" {
		tenantID = model.SystemTenant
	}

	var severityFilter *model.Severity
	if minSeverity != "" {
		sev, ok := model.ParseSeverity(minSeverity)
		if !ok {
			return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Invalid severity: %s", minSeverity))
		}
		severityFilter = &sev
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	summaries, total, err := s.repo.FindSessionSummaries(ctx, tenantID, severityFilter, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve session summaries", err)
	}
	return summaries, total, nil
}

func (s *monitorService) GetAnalysisWindows(ctx context.Context, tenant string, limit int, offset int64) ([]*model.AnalysisWindow, int64, error) {
	tenantID := tenant
	if tenantID == "" {
		tenantID = model.SystemTenant
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	windows, total, err := s.repo.FindAnalysisWindows(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve analysis windows", err)
	}
	return windows, total, nil
}

func (s *monitorService) GetDeadlocks(ctx context.Context, tenant, status string, limit int, offset int64) ([]*model.DeadlockEvent, int64, error) {
	tenantID := tenant
	if tenantID == "" {
		tenantID = model.SystemTenant
	}

	if status != "" && status != model.DeadlockDetected && status != model.DeadlockResolved {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Invalid deadlock status: %s", status))
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	events, total, err := s.repo.FindDeadlockEvents(ctx, tenantID, status, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve deadlock events", err)
	}
	return events, total, nil
}

func (s *monitorService) ResolveDeadlock(ctx context.Context, id string) (*model.DeadlockEvent, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Deadlock event ID cannot be empty")
	}

	event, err := s.repo.ResolveDeadlock(ctx, id, model.ResolutionManual, s.clk.Now())
	if err != nil {
		if errors.Is(err, contentionerrors.ErrNotFound) {
			existing, lookupErr := s.repo.FindDeadlockByID(ctx, id)
			if lookupErr == nil && existing.Status == model.DeadlockResolved {
				return nil, apperrors.Conflict("Deadlock event already resolved")
			}
			return nil, apperrors.NotFoundWithID("Deadlock event", id)
		}
		return nil, apperrors.Internal("Failed to resolve deadlock event", err)
	}

	s.cfg.Log.Info("Deadlock event resolved manually", "id", id, "tenant", event.TenantID)
	return event, nil
}
