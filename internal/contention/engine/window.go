package engine

import (
	"lockwatch/pkg/model"
	"sort"
	"time"
)

// AnalyzeWindow aggregates one pass into an AnalysisWindow. prev is the
// most recent persisted window for the same tenant, or nil on the first
// run; the trend direction degrades gracefully to STABLE when it is
// absent.
func AnalyzeWindow(
	records []*model.LockRecord,
	edges []model.BlockingEdge,
	deadlocks int,
	prev *model.AnalysisWindow,
	t Thresholds,
	tenantID, passID string,
	periodStart, periodEnd time.Time,
) *model.AnalysisWindow {
	w := &model.AnalysisWindow{
		TenantID:       tenantID,
		PassID:         passID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		TotalLocks:     len(records),
		BlockingEvents: len(edges),
		Deadlocks:      deadlocks,
		PeakConcurrent: peakConcurrent(records),
	}

	var totalWait time.Duration
	waiting := 0
	for _, r := range records {
		if r.Granted {
			continue
		}
		waiting++
		totalWait += r.WaitDuration
		if r.WaitDuration > w.MaxWaitDuration {
			w.MaxWaitDuration = r.WaitDuration
		}
	}
	if waiting > 0 {
		w.AvgWaitDuration = totalWait / time.Duration(waiting)
	}

	w.Hotspots = rankHotspots(records, edges, t.HotspotLimit)
	w.MostBlockingSessID, w.MostBlockedSessID = extremeSessions(edges)

	w.EfficiencyScore = efficiencyScore(len(edges), deadlocks, t)
	w.TrendDirection = trendDirection(w.EfficiencyScore, prev, t.TrendNoiseBand)
	return w
}

// efficiencyScore penalizes each blocking event and deadlock observed in
// the window, floored at zero.
func efficiencyScore(blocking, deadlocks int, t Thresholds) int {
	penalty := blocking*t.BlockingPenalty + deadlocks*t.DeadlockPenalty
	if penalty > 100 {
		penalty = 100
	}
	return 100 - penalty
}

func trendDirection(score int, prev *model.AnalysisWindow, noiseBand int) string {
	if prev == nil {
		return model.TrendStable
	}
	delta := score - prev.EfficiencyScore
	switch {
	case delta > noiseBand:
		return model.TrendImproving
	case delta < -noiseBand:
		return model.TrendDegrading
	default:
		return model.TrendStable
	}
}

// rankHotspots orders resources by how many distinct sessions wait on
// them, breaking ties by resource id for stable output.
func rankHotspots(records []*model.LockRecord, edges []model.BlockingEdge, limit int) []model.Hotspot {
	waiters := make(map[string]map[int]struct{})
	for _, e := range edges {
		if waiters[e.ResourceID] == nil {
			waiters[e.ResourceID] = make(map[int]struct{})
		}
		waiters[e.ResourceID][e.WaiterSessionID] = struct{}{}
	}
	if len(waiters) == 0 {
		return nil
	}

	names := make(map[string]string)
	for _, r := range records {
		if _, ok := waiters[r.ResourceID]; ok {
			names[r.ResourceID] = r.RelationName
		}
	}

	hotspots := make([]model.Hotspot, 0, len(waiters))
	for resource, w := range waiters {
		hotspots = append(hotspots, model.Hotspot{
			ResourceID:   resource,
			RelationName: names[resource],
			WaiterCount:  len(w),
		})
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].WaiterCount != hotspots[j].WaiterCount {
			return hotspots[i].WaiterCount > hotspots[j].WaiterCount
		}
		return hotspots[i].ResourceID < hotspots[j].ResourceID
	})
	if len(hotspots) > limit {
		hotspots = hotspots[:limit]
	}
	return hotspots
}

// extremeSessions returns the session blocking the most distinct waiters
// and the session waiting on the most distinct holders. Zero when the
// pass had no edges; ties break to the lower session id.
func extremeSessions(edges []model.BlockingEdge) (mostBlocking, mostBlocked int) {
	blocking := make(map[int]map[int]struct{})
	blocked := make(map[int]map[int]struct{})
	for _, e := range edges {
		if blocking[e.HolderSessionID] == nil {
			blocking[e.HolderSessionID] = make(map[int]struct{})
		}
		blocking[e.HolderSessionID][e.WaiterSessionID] = struct{}{}
		if blocked[e.WaiterSessionID] == nil {
			blocked[e.WaiterSessionID] = make(map[int]struct{})
		}
		blocked[e.WaiterSessionID][e.HolderSessionID] = struct{}{}
	}
	mostBlocking = maxBySetSize(blocking)
	mostBlocked = maxBySetSize(blocked)
	return mostBlocking, mostBlocked
}

func maxBySetSize(sets map[int]map[int]struct{}) int {
	best, bestSize := 0, 0
	ids := make([]int, 0, len(sets))
	for id := range sets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if size := len(sets[id]); size > bestSize {
			best, bestSize = id, size
		}
	}
	return best
}

// peakConcurrent counts granted locks in the snapshot, the instantaneous
// concurrency at capture time.
func peakConcurrent(records []*model.LockRecord) int {
	n := 0
	for _, r := range records {
		if r.Granted {
			n++
		}
	}
	return n
}
