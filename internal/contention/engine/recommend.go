package engine

import (
	"fmt"
	"lockwatch/pkg/model"
)

// Recommendation text. Tests and downstream consumers match on the fixed
// prefixes, so changes here are breaking.
const (
	RecommendationNormal = "Lock activity normal - no action required"
)

// Recommend evaluates the pass findings against the configured thresholds
// and produces the ordered recommendation list plus the overall alert
// level. Pure function: same inputs, same output.
func Recommend(
	summaries []*model.SessionSummary,
	records []*model.LockRecord,
	deadlocks int,
	window *model.AnalysisWindow,
	t Thresholds,
) ([]string, model.AlertLevel) {
	blockingSessions := 0
	criticalSessions := 0
	highSessions := 0
	for _, s := range summaries {
		if s.BlockedCount > 0 {
			blockingSessions++
			switch s.Severity {
			case model.SeverityCritical:
				criticalSessions++
			case model.SeverityHigh:
				highSessions++
			}
		}
	}

	criticalLocks := 0
	for _, r := range records {
		if r.ImpactScore >= 80 {
			criticalLocks++
		}
	}

	var recommendations []string
	if blockingSessions > t.BlockingSessWarn {
		recommendations = append(recommendations, fmt.Sprintf(
			"High contention: %d sessions are blocking others - review transaction patterns and shorten long-running transactions",
			blockingSessions,
		))
	}
	if deadlocks > 0 {
		recommendations = append(recommendations, fmt.Sprintf(
			"%d deadlock(s) detected - implement retry logic and review lock acquisition ordering",
			deadlocks,
		))
	}
	if criticalLocks > t.CriticalLocksWarn {
		recommendations = append(recommendations, fmt.Sprintf(
			"%d critical-impact locks observed - consider intervention on the most blocking sessions",
			criticalLocks,
		))
	}
	if window.EfficiencyScore < t.EfficiencyWarn {
		recommendations = append(recommendations, fmt.Sprintf(
			"Lock efficiency at %d%% - optimize queries and review indexing on contended relations",
			window.EfficiencyScore,
		))
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, RecommendationNormal)
	}

	level := model.AlertNone
	if blockingSessions > t.BlockingSessWarn || highSessions > 0 || window.EfficiencyScore < t.EfficiencyWarn {
		level = model.AlertWarning
	}
	if deadlocks > 0 || criticalSessions > 0 || criticalLocks > t.CriticalLocksWarn {
		level = model.AlertCritical
	}
	return recommendations, level
}
