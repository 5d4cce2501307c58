package model

import (
	"testing"
	"time"
)

func TestLockMode_ConflictMatrixSymmetry(t *testing.T) {
	// The Postgres table-level conflict relation is symmetric.
	for held := AccessShare; held <= AccessExclusive; held++ {
		for req := AccessShare; req <= AccessExclusive; req++ {
			if held.Conflicts(req) != req.Conflicts(held) {
				t.Errorf("conflict matrix asymmetric for %v vs %v", held, req)
			}
		}
	}
}

func TestLockMode_ConflictEdges(t *testing.T) {
	cases := []struct {
		held, requested LockMode
		want            bool
	}{
		{AccessShare, AccessShare, false},
		{AccessShare, AccessExclusive, true},
		{RowExclusive, RowExclusive, false},
		{RowExclusive, Share, true},
		{Share, Share, false},
		{Share, RowExclusive, true},
		{ShareUpdateExclusive, ShareUpdateExclusive, true},
		{AccessExclusive, AccessShare, true},
		{AccessExclusive, AccessExclusive, true},
	}
	for _, c := range cases {
		if got := c.held.Conflicts(c.requested); got != c.want {
			t.Errorf("Conflicts(%v held, %v requested) = %v, want %v", c.held, c.requested, got, c.want)
		}
	}
}

func TestParseLockMode_UnknownConflictsWithEverything(t *testing.T) {
	mode := ParseLockMode("SomeFutureLock")

	if mode != AccessExclusive {
		t.Fatalf("unknown mode should map to AccessExclusive, got %v", mode)
	}
	for m := AccessShare; m <= AccessExclusive; m++ {
		if !mode.Conflicts(m) {
			t.Errorf("unknown mode should conflict with %v", m)
		}
	}
}

func TestParseLockMode_RoundTrip(t *testing.T) {
	for m := AccessShare; m <= AccessExclusive; m++ {
		if got := ParseLockMode(m.String()); got != m {
			t.Errorf("ParseLockMode(%q) = %v, want %v", m.String(), got, m)
		}
	}
}

func TestLockMode_ExclusiveLike(t *testing.T) {
	if Share.ExclusiveLike() {
		t.Error("Share should not be exclusive-like")
	}
	for _, m := range []LockMode{ShareRowExclusive, Exclusive, AccessExclusive} {
		if !m.ExclusiveLike() {
			t.Errorf("%v should be exclusive-like", m)
		}
	}
}

func TestLockRecord_CloseIsIdempotent(t *testing.T) {
	r := &LockRecord{SessionID: 1}
	first := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	r.Close(first)
	r.Close(later)

	if r.ClosedAt == nil || !r.ClosedAt.Equal(first) {
		t.Errorf("expected first close timestamp to stick, got %v", r.ClosedAt)
	}
}

func TestSeverity_ParseAndString(t *testing.T) {
	for _, s := range []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical} {
		parsed, ok := ParseSeverity(s.String())
		if !ok || parsed != s {
			t.Errorf("round trip failed for %v", s)
		}
	}
	if _, ok := ParseSeverity("EXTREME"); ok {
		t.Error("unknown severity should not parse")
	}
}
