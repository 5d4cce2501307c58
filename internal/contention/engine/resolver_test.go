package engine

import (
	"reflect"
	"testing"
	"time"

	"lockwatch/pkg/model"
)

func TestResolveBlocking_BasicConflict(t *testing.T) {
	records := []*model.LockRecord{
		lockRec(10, "relation:1001", model.RowExclusive, true, 0),
		lockRec(20, "relation:1001", model.Share, false, 30*time.Second),
	}

	edges := ResolveBlocking(records)

	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	e := edges[0]
	if e.WaiterSessionID != 20 || e.HolderSessionID != 10 {
		t.Errorf("expected edge 20->10, got %d->%d", e.WaiterSessionID, e.HolderSessionID)
	}
	if e.ResourceID != "relation:1001" {
		t.Errorf("unexpected resource: %s", e.ResourceID)
	}
	if e.WaitDuration != 30*time.Second {
		t.Errorf("expected wait duration carried from waiter, got %v", e.WaitDuration)
	}
}

func TestResolveBlocking_CompatibleModesProduceNoEdge(t *testing.T) {
	// Two shared readers never block each other.
	records := []*model.LockRecord{
		lockRec(10, "relation:1001", model.AccessShare, true, 0),
		lockRec(20, "relation:1001", model.AccessShare, false, 5*time.Second),
	}

	if edges := ResolveBlocking(records); len(edges) != 0 {
		t.Fatalf("expected no edges for compatible modes, got %d", len(edges))
	}
}

func TestResolveBlocking_SessionNeverBlocksItself(t *testing.T) {
	// Lock upgrade: the same session holds RowExclusive and waits for
	// AccessExclusive on the same relation.
	records := []*model.LockRecord{
		lockRec(10, "relation:1001", model.RowExclusive, true, 0),
		lockRec(10, "relation:1001", model.AccessExclusive, false, 10*time.Second),
	}

	if edges := ResolveBlocking(records); len(edges) != 0 {
		t.Fatalf("self-blocking edge produced: %+v", edges)
	}
}

func TestResolveBlocking_DifferentResourcesDoNotInteract(t *testing.T) {
	records := []*model.LockRecord{
		lockRec(10, "relation:1001", model.AccessExclusive, true, 0),
		lockRec(20, "relation:2002", model.AccessShare, false, time.Second),
	}

	if edges := ResolveBlocking(records); len(edges) != 0 {
		t.Fatalf("edge across different resources: %+v", edges)
	}
}

func TestResolveBlocking_MultipleHoldersFanIn(t *testing.T) {
	records := []*model.LockRecord{
		lockRec(10, "relation:1001", model.Share, true, 0),
		lockRec(20, "relation:1001", model.Share, true, 0),
		lockRec(30, "relation:1001", model.RowExclusive, false, time.Minute),
	}

	edges := ResolveBlocking(records)

	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[0].HolderSessionID != 10 || edges[1].HolderSessionID != 20 {
		t.Errorf("expected holders 10 then 20, got %d then %d", edges[0].HolderSessionID, edges[1].HolderSessionID)
	}
}

func TestResolveBlocking_Deterministic(t *testing.T) {
	records := []*model.LockRecord{
		lockRec(30, "relation:1001", model.RowExclusive, false, time.Minute),
		lockRec(20, "relation:1001", model.Share, true, 0),
		lockRec(10, "relation:1001", model.Share, true, 0),
		lockRec(40, "relation:2002", model.AccessShare, false, time.Second),
		lockRec(50, "relation:2002", model.AccessExclusive, true, 0),
	}

	first := ResolveBlocking(records)
	for i := 0; i < 5; i++ {
		if again := ResolveBlocking(records); !reflect.DeepEqual(first, again) {
			t.Fatalf("iteration %d: edge set not deterministic:\n%+v\nvs\n%+v", i, first, again)
		}
	}
}
