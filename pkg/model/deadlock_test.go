package model

import (
	"testing"
	"time"
)

func TestCycleKey_RotationInvariant(t *testing.T) {
	// All rotations of the same cycle map to one key.
	rotations := [][]int{
		{300, 100, 200},
		{100, 200, 300},
		{200, 300, 100},
	}
	for _, r := range rotations {
		if key := CycleKey(r); key != "100-200-300" {
			t.Errorf("CycleKey(%v) = %q, want 100-200-300", r, key)
		}
	}
}

func TestCycleKey_DirectionPreserved(t *testing.T) {
	// The reverse traversal is a different cycle.
	forward := CycleKey([]int{100, 200, 300})
	reverse := CycleKey([]int{100, 300, 200})

	if forward == reverse {
		t.Errorf("opposite traversal directions collapsed to %q", forward)
	}
}

func TestCycleKey_Empty(t *testing.T) {
	if key := CycleKey(nil); key != "" {
		t.Errorf("expected empty key, got %q", key)
	}
}

func TestDeadlockEvent_Duration(t *testing.T) {
	detected := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	resolved := detected.Add(90 * time.Second)
	now := detected.Add(10 * time.Minute)

	open := &DeadlockEvent{DetectedAt: detected}
	if d := open.Duration(now); d != 10*time.Minute {
		t.Errorf("open event duration = %v, want 10m", d)
	}

	closed := &DeadlockEvent{DetectedAt: detected, ResolvedAt: &resolved}
	if d := closed.Duration(now); d != 90*time.Second {
		t.Errorf("resolved event duration = %v, want 90s", d)
	}
}

func TestDeadlockEvent_CloseIsIdempotent(t *testing.T) {
	e := &DeadlockEvent{}
	first := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	e.Close(first)
	e.Close(first.Add(time.Hour))

	if e.ClosedAt == nil || !e.ClosedAt.Equal(first) {
		t.Errorf("expected first close timestamp to stick, got %v", e.ClosedAt)
	}
}
