package model

import "time"

// Trend direction of the efficiency score relative to the prior window.
const (
	TrendImproving = "IMPROVING"
	TrendStable    = "STABLE"
	TrendDegrading = "DEGRADING"
)

// Hotspot is a contended resource ranked by how many distinct sessions
// were waiting on it during the window.
type Hotspot struct {
	ResourceID   string `json:"resource_id" bson:"resource_id"`
	RelationName string `json:"relation_name" bson:"relation_name"`
	WaiterCount  int    `json:"waiter_count" bson:"waiter_count"`
}

// AnalysisWindow aggregates one sampling pass into efficiency and trend
// metrics. One window is produced per pass; the trend compares against the
// previous persisted window for the same tenant.
type AnalysisWindow struct {
	ID                 string        `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID           string        `json:"tenant_id" bson:"tenant_id" validate:"required"`
	PassID             string        `json:"pass_id" bson:"pass_id" validate:"required,uuid4"`
	PeriodStart        time.Time     `json:"period_start" bson:"period_start"`
	PeriodEnd          time.Time     `json:"period_end" bson:"period_end"`
	TotalLocks         int           `json:"total_locks" bson:"total_locks"`
	BlockingEvents     int           `json:"blocking_events" bson:"blocking_events"`
	Deadlocks          int           `json:"deadlocks" bson:"deadlocks"`
	AvgWaitDuration    time.Duration `json:"avg_wait_duration" bson:"avg_wait_duration"`
	MaxWaitDuration    time.Duration `json:"max_wait_duration" bson:"max_wait_duration"`
	PeakConcurrent     int           `json:"peak_concurrent" bson:"peak_concurrent"`
	MostBlockingSessID int           `json:"most_blocking_session_id" bson:"most_blocking_session_id"`
	MostBlockedSessID  int           `json:"most_blocked_session_id" bson:"most_blocked_session_id"`
	Hotspots           []Hotspot     `json:"hotspots" bson:"hotspots"`
	EfficiencyScore    int           `json:"efficiency_score" bson:"efficiency_score" validate:"min=0,max=100"`
	TrendDirection     string        `json:"trend_direction" bson:"trend_direction" validate:"oneof=IMPROVING STABLE DEGRADING"`
	ClosedAt           *time.Time    `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

func (w *AnalysisWindow) Close(at time.Time) {
	if w.ClosedAt == nil {
		w.ClosedAt = &at
	}
}

// MostContendedResource is the top hotspot, or an empty Hotspot when the
// window saw no waiters at all.
func (w *AnalysisWindow) MostContendedResource() Hotspot {
	if len(w.Hotspots) == 0 {
		return Hotspot{}
	}
	return w.Hotspots[0]
}
