package engine

import (
	"time"

	"lockwatch/pkg/model"
)

func testThresholds() Thresholds {
	return Thresholds{
		SeverityMediumAfter:   60 * time.Second,
		SeverityHighAfter:     300 * time.Second,
		SeverityCriticalAfter: 600 * time.Second,
		KillThreshold:         300 * time.Second,
		BlockingPenalty:       5,
		DeadlockPenalty:       15,
		TrendNoiseBand:        3,
		HotspotLimit:          5,
		BlockingSessWarn:      5,
		CriticalLocksWarn:     10,
		EfficiencyWarn:        70,
	}
}

func lockRec(session int, resource string, mode model.LockMode, granted bool, wait time.Duration) *model.LockRecord {
	return &model.LockRecord{
		TenantID:     model.SystemTenant,
		PassID:       "11111111-2222-4333-8444-555555555555",
		ResourceID:   resource,
		RelationName: "orders",
		LockType:     "relation",
		Mode:         mode,
		Granted:      granted,
		SessionID:    session,
		WaitDuration: wait,
	}
}
