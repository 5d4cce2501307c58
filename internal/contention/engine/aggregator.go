package engine

import (
	"lockwatch/pkg/model"
	"sort"
	"time"
)

// Thresholds carries the tunable classification knobs for one pass. All
// values come from configuration; defaults live in pkg/config.
type Thresholds struct {
	SeverityMediumAfter   time.Duration
	SeverityHighAfter     time.Duration
	SeverityCriticalAfter time.Duration
	KillThreshold         time.Duration

	BlockingPenalty   int
	DeadlockPenalty   int
	TrendNoiseBand    int
	HotspotLimit      int
	BlockingSessWarn  int
	CriticalLocksWarn int
	EfficiencyWarn    int
}

// ClassifySeverity maps a blocking duration onto the severity ladder.
func (t Thresholds) ClassifySeverity(d time.Duration) model.Severity {
	switch {
	case d >= t.SeverityCriticalAfter:
		return model.SeverityCritical
	case d >= t.SeverityHighAfter:
		return model.SeverityHigh
	case d >= t.SeverityMediumAfter:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// AggregateSessions rolls the pass up per session: lock counts for every
// observed session, plus blocking fan-out, severity and kill eligibility
// for sessions that appear as holders in the edge set. Edges referencing a
// session with no lock record in the pass are dropped (the session
// vanished between sub-steps); the caller logs how many.
//
// Returned summaries are sorted by session id so repeated aggregation of
// the same pass is byte-identical.
func AggregateSessions(
	records []*model.LockRecord,
	edges []model.BlockingEdge,
	t Thresholds,
	tenantID, passID string,
	capturedAt time.Time,
) (summaries []*model.SessionSummary, droppedEdges int) {
	bySession := make(map[int]*model.SessionSummary)
	for _, r := range records {
		s, ok := bySession[r.SessionID]
		if !ok {
			s = &model.SessionSummary{
				TenantID:   tenantID,
				PassID:     passID,
				SessionID:  r.SessionID,
				CapturedAt: capturedAt,
			}
			bySession[r.SessionID] = s
		}
		if r.Granted {
			s.LocksHeld++
		} else {
			s.LocksWaited++
		}
	}

	waiters := make(map[int]map[int]struct{})
	for _, e := range edges {
		holder, ok := bySession[e.HolderSessionID]
		if !ok {
			droppedEdges++
			continue
		}
		if _, ok := bySession[e.WaiterSessionID]; !ok {
			droppedEdges++
			continue
		}
		if waiters[e.HolderSessionID] == nil {
			waiters[e.HolderSessionID] = make(map[int]struct{})
		}
		waiters[e.HolderSessionID][e.WaiterSessionID] = struct{}{}
		if e.WaitDuration > holder.BlockingDuration {
			holder.BlockingDuration = e.WaitDuration
		}
	}

	for sessionID, w := range waiters {
		s := bySession[sessionID]
		s.BlockedCount = len(w)
		s.Severity = t.ClassifySeverity(s.BlockingDuration)
		s.AutoKillEligible = s.BlockingDuration > t.KillThreshold && s.Severity >= model.SeverityHigh
	}

	summaries = make([]*model.SessionSummary, 0, len(bySession))
	for _, s := range bySession {
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SessionID < summaries[j].SessionID
	})
	return summaries, droppedEdges
}
