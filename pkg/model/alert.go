package model

import "time"

// AlertLevel is the overall classification of one pass for downstream
// notification routing.
type AlertLevel int

const (
	AlertNone AlertLevel = iota
	AlertWarning
	AlertCritical
)

var alertLevelNames = map[AlertLevel]string{
	AlertNone:     "none",
	AlertWarning:  "warning",
	AlertCritical: "critical",
}

func (l AlertLevel) String() string {
	if name, ok := alertLevelNames[l]; ok {
		return name
	}
	return "none"
}

// AlertEvent is the payload published when a pass concludes at warning or
// critical level. It carries the triggering findings so consumers do not
// have to read the dashboard API.
type AlertEvent struct {
	ID              string            `json:"id" validate:"required,uuid4"`
	TenantID        string            `json:"tenant_id" validate:"required"`
	PassID          string            `json:"pass_id" validate:"required,uuid4"`
	Level           string            `json:"level" validate:"required,oneof=warning critical"`
	Recommendations []string          `json:"recommendations" validate:"required,min=1"`
	Summaries       []*SessionSummary `json:"summaries,omitempty"`
	Deadlocks       []*DeadlockEvent  `json:"deadlocks,omitempty"`
	EmittedAt       time.Time         `json:"emitted_at"`
}

// RunSummary is the outward result of one monitoring pass.
type RunSummary struct {
	PassID          string     `json:"pass_id"`
	TenantID        string     `json:"tenant_id"`
	LocksCaptured   int        `json:"locks_captured"`
	BlockingCount   int        `json:"blocking_count"`
	CriticalCount   int        `json:"critical_count"`
	DeadlocksCount  int        `json:"deadlocks_count"`
	EfficiencyScore int        `json:"efficiency_score"`
	AlertLevel      string     `json:"alert_level"`
	Recommendations []string   `json:"recommendations"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     time.Time  `json:"completed_at"`
}
