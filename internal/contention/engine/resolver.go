package engine

import (
	"lockwatch/pkg/model"
	"sort"
)

// ResolveBlocking derives the waits-for edges for one pass: every
// non-granted lock request is matched against the granted requests on the
// same resource, and each mode conflict produces one edge from the waiting
// session to the holding session.
//
// The result is deduplicated on (waiter, holder, resource) and sorted, so
// resolving the same snapshot twice yields an identical edge set. A
// session never blocks itself: lock upgrades and multi-resource holds by
// the same backend are not contention.
func ResolveBlocking(records []*model.LockRecord) []model.BlockingEdge {
	type resourceKey struct {
		resourceID string
		lockType   string
	}

	granted := make(map[resourceKey][]*model.LockRecord)
	for _, r := range records {
		if r.Granted {
			k := resourceKey{r.ResourceID, r.LockType}
			granted[k] = append(granted[k], r)
		}
	}

	type edgeKey struct {
		waiter   int
		holder   int
		resource string
	}
	seen := make(map[edgeKey]struct{})

	var edges []model.BlockingEdge
	for _, waiter := range records {
		if waiter.Granted {
			continue
		}
		k := resourceKey{waiter.ResourceID, waiter.LockType}
		for _, holder := range granted[k] {
			if holder.SessionID == waiter.SessionID {
				continue
			}
			if !holder.Mode.Conflicts(waiter.Mode) {
				continue
			}
			ek := edgeKey{waiter.SessionID, holder.SessionID, waiter.ResourceID}
			if _, dup := seen[ek]; dup {
				continue
			}
			seen[ek] = struct{}{}
			edges = append(edges, model.BlockingEdge{
				WaiterSessionID: waiter.SessionID,
				HolderSessionID: holder.SessionID,
				ResourceID:      waiter.ResourceID,
				RequestedMode:   waiter.Mode,
				HeldMode:        holder.Mode,
				WaitDuration:    waiter.WaitDuration,
			})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].WaiterSessionID != edges[j].WaiterSessionID {
			return edges[i].WaiterSessionID < edges[j].WaiterSessionID
		}
		if edges[i].HolderSessionID != edges[j].HolderSessionID {
			return edges[i].HolderSessionID < edges[j].HolderSessionID
		}
		return edges[i].ResourceID < edges[j].ResourceID
	})

	return edges
}
