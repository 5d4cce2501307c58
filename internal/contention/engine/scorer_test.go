package engine

import (
	"testing"
	"time"

	"lockwatch/pkg/model"
)

func TestScoreImpact_GrantedSharedBaseline(t *testing.T) {
	r := lockRec(10, "relation:1001", model.AccessShare, true, 0)

	if score := ScoreImpact(r, false); score != 20 {
		t.Errorf("expected baseline 20 (10 base + 10 shared), got %d", score)
	}
}

func TestScoreImpact_WaitingExclusiveLongWithWaiters(t *testing.T) {
	r := lockRec(10, "relation:1001", model.AccessExclusive, false, 400*time.Second)

	// 40 waiting + 30 exclusive + 20 long + 20 waiters = 110, clamped.
	if score := ScoreImpact(r, true); score != 100 {
		t.Errorf("expected clamp at 100, got %d", score)
	}
}

func TestScoreImpact_DurationTiers(t *testing.T) {
	short := lockRec(10, "r", model.AccessShare, false, 30*time.Second)
	mid := lockRec(10, "r", model.AccessShare, false, 90*time.Second)
	long := lockRec(10, "r", model.AccessShare, false, 400*time.Second)

	if s, m, l := ScoreImpact(short, false), ScoreImpact(mid, false), ScoreImpact(long, false); !(s < m && m < l) {
		t.Errorf("duration tiers not increasing: %d, %d, %d", s, m, l)
	}
}

// Worsening any single dimension must never lower the score.
func TestScoreImpact_Monotone(t *testing.T) {
	base := lockRec(10, "r", model.RowExclusive, true, 30*time.Second)
	baseScore := ScoreImpact(base, false)

	notGranted := *base
	notGranted.Granted = false
	if s := ScoreImpact(&notGranted, false); s < baseScore {
		t.Errorf("waiting scored lower than granted: %d < %d", s, baseScore)
	}

	stronger := *base
	stronger.Mode = model.AccessExclusive
	if s := ScoreImpact(&stronger, false); s < baseScore {
		t.Errorf("stronger mode scored lower: %d < %d", s, baseScore)
	}

	longer := *base
	longer.WaitDuration = 10 * time.Minute
	if s := ScoreImpact(&longer, false); s < baseScore {
		t.Errorf("longer wait scored lower: %d < %d", s, baseScore)
	}

	if s := ScoreImpact(base, true); s < baseScore {
		t.Errorf("having waiters scored lower: %d < %d", s, baseScore)
	}
}

func TestApplyScores_WaiterBonusFollowsEdges(t *testing.T) {
	holder := lockRec(10, "relation:1001", model.RowExclusive, true, 0)
	waiter := lockRec(20, "relation:1001", model.Share, false, 10*time.Second)
	bystander := lockRec(30, "relation:2002", model.RowExclusive, true, 0)
	records := []*model.LockRecord{holder, waiter, bystander}

	edges := ResolveBlocking(records)
	ApplyScores(records, edges)

	if holder.ImpactScore != bystander.ImpactScore+scoreHasWaiters {
		t.Errorf("holder should carry the waiter bonus over an identical bystander: %d vs %d",
			holder.ImpactScore, bystander.ImpactScore)
	}
	if waiter.ImpactScore <= holder.ImpactScore {
		t.Errorf("waiting record should outscore the holder here: %d <= %d",
			waiter.ImpactScore, holder.ImpactScore)
	}
}
