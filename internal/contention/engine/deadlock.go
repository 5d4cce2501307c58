package engine

import (
	"lockwatch/pkg/model"
	"sort"
	"time"

	"github.com/google/uuid"
)

// node colors for the cycle search.
const (
	unvisited = iota
	inProgress
	done
)

// DetectDeadlocks finds every distinct cycle in the waits-for graph and
// materializes one DeadlockEvent per cycle. Traversal order, cycle keys
// and victim selection are all deterministic so the same graph always
// produces the same events (modulo generated ids).
func DetectDeadlocks(
	records []*model.LockRecord,
	edges []model.BlockingEdge,
	tenantID, passID string,
	detectedAt time.Time,
) []*model.DeadlockEvent {
	adj := make(map[int][]int)
	nodes := make(map[int]struct{})
	for _, e := range edges {
		adj[e.WaiterSessionID] = append(adj[e.WaiterSessionID], e.HolderSessionID)
		nodes[e.WaiterSessionID] = struct{}{}
		nodes[e.HolderSessionID] = struct{}{}
	}
	for _, next := range adj {
		sort.Ints(next)
	}

	ordered := make([]int, 0, len(nodes))
	for n := range nodes {
		ordered = append(ordered, n)
	}
	sort.Ints(ordered)

	color := make(map[int]int, len(nodes))
	var stack []int
	onStack := make(map[int]int) // session -> index in stack
	cycles := make(map[string][]int)

	var visit func(n int)
	visit = func(n int) {
		color[n] = inProgress
		onStack[n] = len(stack)
		stack = append(stack, n)

		for _, next := range adj[n] {
			switch color[next] {
			case unvisited:
				visit(next)
			case inProgress:
				if start, ok := onStack[next]; ok {
					cycle := append([]int(nil), stack[start:]...)
					key := model.CycleKey(cycle)
					if _, dup := cycles[key]; !dup {
						cycles[key] = cycle
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, n)
		color[n] = done
	}

	for _, n := range ordered {
		if color[n] == unvisited {
			visit(n)
		}
	}

	keys := make([]string, 0, len(cycles))
	for k := range cycles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	held := heldLockCounts(records)
	waitStart := waitStartTimes(records)

	events := make([]*model.DeadlockEvent, 0, len(cycles))
	for _, key := range keys {
		cycle := cycles[key]
		events = append(events, &model.DeadlockEvent{
			ID:              uuid.NewString(),
			TenantID:        tenantID,
			PassID:          passID,
			CycleKey:        key,
			SessionIDs:      canonicalCycle(cycle),
			Edges:           cycleEdges(cycle, edges),
			VictimSessionID: selectVictim(cycle, held, waitStart),
			Status:          model.DeadlockDetected,
			DetectedAt:      detectedAt,
		})
	}
	return events
}

// selectVictim picks the cycle member to recommend for termination:
// the session holding the fewest locks (least work lost), then the one
// whose wait started most recently (youngest), then the lowest session id
// so fully symmetric cycles still resolve reproducibly.
func selectVictim(cycle []int, held map[int]int, waitStart map[int]time.Time) int {
	victim := cycle[0]
	for _, s := range cycle[1:] {
		switch {
		case held[s] < held[victim]:
			victim = s
		case held[s] > held[victim]:
		case waitStart[s].After(waitStart[victim]):
			victim = s
		case waitStart[s].Equal(waitStart[victim]) && s < victim:
			victim = s
		}
	}
	return victim
}

func heldLockCounts(records []*model.LockRecord) map[int]int {
	held := make(map[int]int)
	for _, r := range records {
		if r.Granted {
			held[r.SessionID]++
		}
	}
	return held
}

func waitStartTimes(records []*model.LockRecord) map[int]time.Time {
	start := make(map[int]time.Time)
	for _, r := range records {
		if r.Granted {
			continue
		}
		if cur, ok := start[r.SessionID]; !ok || r.AcquiredAt.After(cur) {
			start[r.SessionID] = r.AcquiredAt
		}
	}
	return start
}

// canonicalCycle rotates the cycle to start at its lowest session id,
// matching the order encoded in the cycle key.
func canonicalCycle(cycle []int) []int {
	min := 0
	for i, s := range cycle {
		if s < cycle[min] {
			min = i
		}
	}
	out := make([]int, 0, len(cycle))
	for i := 0; i < len(cycle); i++ {
		out = append(out, cycle[(min+i)%len(cycle)])
	}
	return out
}

// cycleEdges extracts the subset of edges connecting consecutive cycle
// members.
func cycleEdges(cycle []int, edges []model.BlockingEdge) []model.BlockingEdge {
	member := make(map[int]int, len(cycle)) // waiter -> holder within cycle
	for i, s := range cycle {
		member[s] = cycle[(i+1)%len(cycle)]
	}
	var out []model.BlockingEdge
	for _, e := range edges {
		if holder, ok := member[e.WaiterSessionID]; ok && holder == e.HolderSessionID {
			out = append(out, e)
		}
	}
	return out
}
