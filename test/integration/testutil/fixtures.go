package testutil

import (
	"context"
	"testing"
	"time"

	"lockwatch/pkg/model"

	"github.com/google/uuid"
)

type DeadlockEventBuilder struct {
	event model.DeadlockEvent
}

func NewDeadlockEventBuilder() *DeadlockEventBuilder {
	detectedAt := time.Now().UTC().Truncate(time.Millisecond)
	return &DeadlockEventBuilder{
		event: model.DeadlockEvent{
			ID:         uuid.New().String(),
			TenantID:   model.SystemTenant,
			PassID:     uuid.New().String(),
			CycleKey:   "100-200",
			SessionIDs: []int{100, 200},
			Edges: []model.BlockingEdge{
				{WaiterSessionID: 100, HolderSessionID: 200, ResourceID: "relation:16384", RequestedMode: model.Share, HeldMode: model.Exclusive, WaitDuration: 30 * time.Second},
				{WaiterSessionID: 200, HolderSessionID: 100, ResourceID: "relation:16385", RequestedMode: model.Share, HeldMode: model.Exclusive, WaitDuration: 20 * time.Second},
			},
			VictimSessionID: 200,
			Status:          model.DeadlockDetected,
			DetectedAt:      detectedAt,
		},
	}
}

func (b *DeadlockEventBuilder) WithTenant(tenantID string) *DeadlockEventBuilder {
	b.event.TenantID = tenantID
	return b
}

func (b *DeadlockEventBuilder) WithCycle(sessions ...int) *DeadlockEventBuilder {
	b.event.SessionIDs = sessions
	b.event.CycleKey = model.CycleKey(sessions)
	return b
}

func (b *DeadlockEventBuilder) WithVictim(sessionID int) *DeadlockEventBuilder {
	b.event.VictimSessionID = sessionID
	return b
}

func (b *DeadlockEventBuilder) WithDetectedAt(at time.Time) *DeadlockEventBuilder {
	b.event.DetectedAt = at
	return b
}

func (b *DeadlockEventBuilder) Resolved(resolution string, at time.Time) *DeadlockEventBuilder {
	b.event.Status = model.DeadlockResolved
	b.event.Resolution = resolution
	b.event.ResolvedAt = &at
	return b
}

func (b *DeadlockEventBuilder) Build() *model.DeadlockEvent {
	event := b.event
	return &event
}

// Insert seeds the event directly into the findings store, bypassing the
// monitor. Used to set up resolve and reconciliation scenarios.
func (b *DeadlockEventBuilder) Insert(t *testing.T, mongo *MongoHelper) *model.DeadlockEvent {
	t.Helper()

	event := b.Build()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := mongo.GetCollection(DeadlockEventsCollection).InsertOne(ctx, event); err != nil {
		t.Fatalf("failed to insert deadlock event fixture: %v", err)
	}
	return event
}
