package model

import (
	"fmt"
	"strings"
	"time"
)

// Deadlock event lifecycle. DETECTED events transition to RESOLVED either
// when a later pass no longer observes the cycle or when an operator
// reports the resolution explicitly. Retention may close either state.
const (
	DeadlockDetected = "DETECTED"
	DeadlockResolved = "RESOLVED"
)

// Resolution provenance values recorded on RESOLVED events.
const (
	ResolutionInferred = "inferred"
	ResolutionManual   = "manual"
)

// DeadlockEvent records one cycle found in the waits-for graph. Immutable
// after creation except for the resolution fields and ClosedAt.
type DeadlockEvent struct {
	ID              string         `json:"id,omitempty" bson:"_id,omitempty"`
	TenantID        string         `json:"tenant_id" bson:"tenant_id" validate:"required"`
	PassID          string         `json:"pass_id" bson:"pass_id" validate:"required,uuid4"`
	CycleKey        string         `json:"cycle_key" bson:"cycle_key" validate:"required,cycle_key"`
	SessionIDs      []int          `json:"session_ids" bson:"session_ids" validate:"required,min=2"`
	Edges           []BlockingEdge `json:"edges" bson:"edges" validate:"required,min=2"`
	VictimSessionID int            `json:"victim_session_id" bson:"victim_session_id" validate:"required,min=1"`
	Status          string         `json:"status" bson:"status" validate:"required,oneof=DETECTED RESOLVED"`
	Resolution      string         `json:"resolution,omitempty" bson:"resolution,omitempty"`
	DetectedAt      time.Time      `json:"detected_at" bson:"detected_at"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	ClosedAt        *time.Time     `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// Duration reports how long the deadlock was (or has been) outstanding.
func (d *DeadlockEvent) Duration(now time.Time) time.Duration {
	if d.ResolvedAt != nil {
		return d.ResolvedAt.Sub(d.DetectedAt)
	}
	return now.Sub(d.DetectedAt)
}

func (d *DeadlockEvent) Close(at time.Time) {
	if d.ClosedAt == nil {
		d.ClosedAt = &at
	}
}

// CycleKey canonicalizes a cycle's session list so the same deadlock
// observed across passes maps to the same key. The cycle order is rotated
// to start at the lowest session id; direction is preserved.
func CycleKey(sessions []int) string {
	if len(sessions) == 0 {
		return ""
	}
	min := 0
	for i, s := range sessions {
		if s < sessions[min] {
			min = i
		}
	}
	parts := make([]string, 0, len(sessions))
	for i := 0; i < len(sessions); i++ {
		parts = append(parts, fmt.Sprintf("%d", sessions[(min+i)%len(sessions)]))
	}
	return strings.Join(parts, "-")
}
