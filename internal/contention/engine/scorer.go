package engine

import "lockwatch/pkg/model"

// Impact score weights. Each factor only ever adds, so a record that is
// worse on any single dimension never scores lower.
const (
	scoreBaseGranted   = 10
	scoreBaseWaiting   = 40
	scoreModeExclusive = 30
	scoreModeShared    = 10
	scoreLongDuration  = 20
	scoreMidDuration   = 10
	scoreHasWaiters    = 20

	longDurationSecs = 300
	midDurationSecs  = 60
)

// ScoreImpact computes the 0-100 severity of a single lock observation.
// hasWaiters reports whether any session is blocked behind this record's
// session (fan-out from the resolver).
func ScoreImpact(r *model.LockRecord, hasWaiters bool) int {
	score := scoreBaseGranted
	if !r.Granted {
		score = scoreBaseWaiting
	}

	if r.Mode.ExclusiveLike() {
		score += scoreModeExclusive
	} else {
		score += scoreModeShared
	}

	secs := int(r.WaitDuration.Seconds())
	switch {
	case secs > longDurationSecs:
		score += scoreLongDuration
	case secs > midDurationSecs:
		score += scoreMidDuration
	}

	if hasWaiters {
		score += scoreHasWaiters
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// ApplyScores stamps every record in the pass with its impact score,
// using the resolved edges to decide which sessions have waiters behind
// them.
func ApplyScores(records []*model.LockRecord, edges []model.BlockingEdge) {
	blockers := make(map[int]bool, len(edges))
	for _, e := range edges {
		blockers[e.HolderSessionID] = true
	}
	for _, r := range records {
		r.ImpactScore = ScoreImpact(r, blockers[r.SessionID])
	}
}
