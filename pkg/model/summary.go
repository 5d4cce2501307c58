package model

import "time"

// Severity classifies how long a session has been blocking others.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityLow:      "LOW",
	SeverityMedium:   "MEDIUM",
	SeverityHigh:     "HIGH",
	SeverityCritical: "CRITICAL",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "LOW"
}

// ParseSeverity returns the Severity for a dashboard filter string and
// whether the name was recognized.
func ParseSeverity(name string) (Severity, bool) {
	for s, n := range severityNames {
		if n == name {
			return s, true
		}
	}
	return SeverityLow, false
}

// SessionSummary is the per-session rollup of one sampling pass: what the
// session holds, what it waits on, and how badly it is blocking others.
// Derived, not independently authoritative.
type SessionSummary struct {
	ID               string        `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID         string        `json:"tenant_id" bson:"tenant_id" validate:"required"`
	PassID           string        `json:"pass_id" bson:"pass_id" validate:"required,uuid4"`
	SessionID        int           `json:"session_id" bson:"session_id" validate:"required,min=1"`
	LocksHeld        int           `json:"locks_held" bson:"locks_held"`
	LocksWaited      int           `json:"locks_waited" bson:"locks_waited"`
	BlockedCount     int           `json:"blocked_count" bson:"blocked_count"`
	BlockingDuration time.Duration `json:"blocking_duration" bson:"blocking_duration"`
	Severity         Severity      `json:"severity" bson:"severity"`
	AutoKillEligible bool          `json:"auto_kill_eligible" bson:"auto_kill_eligible"`
	CapturedAt       time.Time     `json:"captured_at" bson:"captured_at"`
	ClosedAt         *time.Time    `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

func (s *SessionSummary) Close(at time.Time) {
	if s.ClosedAt == nil {
		s.ClosedAt = &at
	}
}
