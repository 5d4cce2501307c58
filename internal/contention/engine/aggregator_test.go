package engine

import (
	"testing"
	"time"

	"lockwatch/pkg/model"
)

func TestClassifySeverity_Ladder(t *testing.T) {
	th := testThresholds()

	cases := []struct {
		wait time.Duration
		want model.Severity
	}{
		{0, model.SeverityLow},
		{59 * time.Second, model.SeverityLow},
		{60 * time.Second, model.SeverityMedium},
		{299 * time.Second, model.SeverityMedium},
		{300 * time.Second, model.SeverityHigh},
		{599 * time.Second, model.SeverityHigh},
		{600 * time.Second, model.SeverityCritical},
		{time.Hour, model.SeverityCritical},
	}
	for _, c := range cases {
		if got := th.ClassifySeverity(c.wait); got != c.want {
			t.Errorf("ClassifySeverity(%v) = %v, want %v", c.wait, got, c.want)
		}
	}
}

func TestAggregateSessions_SingleBlocker(t *testing.T) {
	// W1 waits behind H: H must report blocked_count=1 and carry the
	// waiter's duration as its blocking duration.
	records := []*model.LockRecord{
		lockRec(100, "relation:1001", model.AccessExclusive, true, 0),
		lockRec(200, "relation:1001", model.AccessShare, false, 90*time.Second),
	}
	edges := ResolveBlocking(records)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	summaries, dropped := AggregateSessions(records, edges, testThresholds(), "system", "pass", now)

	if dropped != 0 {
		t.Fatalf("expected no dropped edges, got %d", dropped)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	holder, waiter := summaries[0], summaries[1]
	if holder.SessionID != 100 || waiter.SessionID != 200 {
		t.Fatalf("summaries not sorted by session id: %d, %d", holder.SessionID, waiter.SessionID)
	}
	if holder.LocksHeld != 1 || holder.LocksWaited != 0 {
		t.Errorf("holder counts wrong: held=%d waited=%d", holder.LocksHeld, holder.LocksWaited)
	}
	if holder.BlockedCount != 1 {
		t.Errorf("expected holder blocked_count 1, got %d", holder.BlockedCount)
	}
	if holder.BlockingDuration != 90*time.Second {
		t.Errorf("expected blocking duration 90s, got %v", holder.BlockingDuration)
	}
	if holder.Severity != model.SeverityMedium {
		t.Errorf("expected MEDIUM severity, got %v", holder.Severity)
	}
	if holder.AutoKillEligible {
		t.Error("holder should not be kill eligible at 90s")
	}

	if waiter.BlockedCount != 0 || waiter.Severity != model.SeverityLow {
		t.Errorf("waiter should not be classified as a blocker: %+v", waiter)
	}
	if waiter.LocksWaited != 1 {
		t.Errorf("expected waiter locks_waited 1, got %d", waiter.LocksWaited)
	}
}

func TestAggregateSessions_DistinctWaitersNotEdges(t *testing.T) {
	// Same waiter blocked on two resources held by the same session
	// counts once in blocked_count.
	records := []*model.LockRecord{
		lockRec(100, "relation:1001", model.AccessExclusive, true, 0),
		lockRec(100, "relation:2002", model.AccessExclusive, true, 0),
		lockRec(200, "relation:1001", model.AccessShare, false, 30*time.Second),
		lockRec(200, "relation:2002", model.AccessShare, false, 45*time.Second),
	}
	edges := ResolveBlocking(records)
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}

	summaries, _ := AggregateSessions(records, edges, testThresholds(), "system", "pass", time.Now())

	holder := summaries[0]
	if holder.BlockedCount != 1 {
		t.Errorf("expected blocked_count 1 for one distinct waiter, got %d", holder.BlockedCount)
	}
	if holder.BlockingDuration != 45*time.Second {
		t.Errorf("expected max edge duration 45s, got %v", holder.BlockingDuration)
	}
}

func TestAggregateSessions_AutoKillRequiresHighAndThreshold(t *testing.T) {
	records := []*model.LockRecord{
		lockRec(100, "relation:1001", model.AccessExclusive, true, 0),
		lockRec(200, "relation:1001", model.AccessShare, false, 301*time.Second),
	}
	edges := ResolveBlocking(records)

	summaries, _ := AggregateSessions(records, edges, testThresholds(), "system", "pass", time.Now())
	holder := summaries[0]

	if holder.Severity != model.SeverityHigh {
		t.Fatalf("expected HIGH at 301s, got %v", holder.Severity)
	}
	if !holder.AutoKillEligible {
		t.Error("expected kill eligibility above threshold at HIGH severity")
	}
}

func TestAggregateSessions_DropsEdgesForVanishedSessions(t *testing.T) {
	records := []*model.LockRecord{
		lockRec(100, "relation:1001", model.AccessExclusive, true, 0),
	}
	edges := []model.BlockingEdge{
		{WaiterSessionID: 999, HolderSessionID: 100, ResourceID: "relation:1001", WaitDuration: time.Minute},
		{WaiterSessionID: 100, HolderSessionID: 888, ResourceID: "relation:2002", WaitDuration: time.Minute},
	}

	summaries, dropped := AggregateSessions(records, edges, testThresholds(), "system", "pass", time.Now())

	if dropped != 2 {
		t.Fatalf("expected 2 dropped edges, got %d", dropped)
	}
	if summaries[0].BlockedCount != 0 {
		t.Errorf("vanished-session edge should not count: %+v", summaries[0])
	}
}
