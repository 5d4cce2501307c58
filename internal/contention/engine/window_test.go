package engine

import (
	"testing"
	"time"

	"lockwatch/pkg/model"
)

func TestAnalyzeWindow_EmptyPass(t *testing.T) {
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Second)

	w := AnalyzeWindow(nil, nil, 0, nil, testThresholds(), "system", "pass", start, end)

	if w.TotalLocks != 0 || w.BlockingEvents != 0 || w.Deadlocks != 0 {
		t.Errorf("counts should be zero: %+v", w)
	}
	if w.EfficiencyScore != 100 {
		t.Errorf("expected efficiency 100 for a quiet pass, got %d", w.EfficiencyScore)
	}
	if w.TrendDirection != model.TrendStable {
		t.Errorf("expected STABLE with no previous window, got %s", w.TrendDirection)
	}
	if w.MostBlockingSessID != 0 || w.MostBlockedSessID != 0 {
		t.Errorf("extreme sessions should be zero: %+v", w)
	}
}

func TestAnalyzeWindow_EfficiencyPenalties(t *testing.T) {
	th := testThresholds()
	edges := []model.BlockingEdge{
		{WaiterSessionID: 1, HolderSessionID: 2, ResourceID: "r"},
		{WaiterSessionID: 3, HolderSessionID: 2, ResourceID: "r"},
	}

	w := AnalyzeWindow(nil, edges, 1, nil, th, "system", "pass", time.Now(), time.Now())

	// 2 blocking * 5 + 1 deadlock * 15 = 25.
	if w.EfficiencyScore != 75 {
		t.Errorf("expected efficiency 75, got %d", w.EfficiencyScore)
	}
}

func TestAnalyzeWindow_EfficiencyFloorsAtZero(t *testing.T) {
	th := testThresholds()
	var edges []model.BlockingEdge
	for i := 0; i < 50; i++ {
		edges = append(edges, model.BlockingEdge{WaiterSessionID: i + 1000, HolderSessionID: 1, ResourceID: "r"})
	}

	w := AnalyzeWindow(nil, edges, 3, nil, th, "system", "pass", time.Now(), time.Now())

	if w.EfficiencyScore != 0 {
		t.Errorf("expected efficiency floored at 0, got %d", w.EfficiencyScore)
	}
}

func TestAnalyzeWindow_TrendDirections(t *testing.T) {
	th := testThresholds()

	cases := []struct {
		name     string
		prev     int
		blocking int
		want     string
	}{
		// current efficiency = 100 - blocking*5
		{"improving", 50, 2, model.TrendImproving},   // 90 vs 50
		{"degrading", 95, 5, model.TrendDegrading},   // 75 vs 95
		{"within noise band", 92, 2, model.TrendStable}, // 90 vs 92
		{"exactly at band edge", 87, 2, model.TrendStable}, // delta +3
	}
	for _, c := range cases {
		edges := make([]model.BlockingEdge, c.blocking)
		for i := range edges {
			edges[i] = model.BlockingEdge{WaiterSessionID: 100 + i, HolderSessionID: 1, ResourceID: "r"}
		}
		prev := &model.AnalysisWindow{EfficiencyScore: c.prev}

		w := AnalyzeWindow(nil, edges, 0, prev, th, "system", "pass", time.Now(), time.Now())
		if w.TrendDirection != c.want {
			t.Errorf("%s: expected %s, got %s (score %d, prev %d)", c.name, c.want, w.TrendDirection, w.EfficiencyScore, c.prev)
		}
	}
}

func TestAnalyzeWindow_WaitStats(t *testing.T) {
	records := []*model.LockRecord{
		lockRec(1, "r1", model.AccessExclusive, true, 0),
		lockRec(2, "r1", model.AccessShare, false, 10*time.Second),
		lockRec(3, "r1", model.AccessShare, false, 30*time.Second),
	}

	w := AnalyzeWindow(records, nil, 0, nil, testThresholds(), "system", "pass", time.Now(), time.Now())

	if w.AvgWaitDuration != 20*time.Second {
		t.Errorf("expected avg wait 20s, got %v", w.AvgWaitDuration)
	}
	if w.MaxWaitDuration != 30*time.Second {
		t.Errorf("expected max wait 30s, got %v", w.MaxWaitDuration)
	}
	if w.PeakConcurrent != 1 {
		t.Errorf("expected peak concurrent 1, got %d", w.PeakConcurrent)
	}
}

func TestAnalyzeWindow_HotspotsRankedByDistinctWaiters(t *testing.T) {
	records := []*model.LockRecord{
		lockRec(1, "relation:hot", model.AccessExclusive, true, 0),
		lockRec(5, "relation:warm", model.AccessExclusive, true, 0),
	}
	edges := []model.BlockingEdge{
		{WaiterSessionID: 2, HolderSessionID: 1, ResourceID: "relation:hot"},
		{WaiterSessionID: 3, HolderSessionID: 1, ResourceID: "relation:hot"},
		{WaiterSessionID: 4, HolderSessionID: 1, ResourceID: "relation:hot"},
		{WaiterSessionID: 6, HolderSessionID: 5, ResourceID: "relation:warm"},
	}

	w := AnalyzeWindow(records, edges, 0, nil, testThresholds(), "system", "pass", time.Now(), time.Now())

	if len(w.Hotspots) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(w.Hotspots))
	}
	if w.Hotspots[0].ResourceID != "relation:hot" || w.Hotspots[0].WaiterCount != 3 {
		t.Errorf("unexpected top hotspot: %+v", w.Hotspots[0])
	}
	if w.Hotspots[0].RelationName != "orders" {
		t.Errorf("hotspot should carry the relation name, got %q", w.Hotspots[0].RelationName)
	}
	if w.MostBlockingSessID != 1 {
		t.Errorf("expected most blocking session 1, got %d", w.MostBlockingSessID)
	}
	if w.MostBlockedSessID != 2 {
		t.Errorf("expected most blocked session 2 (tie breaks low), got %d", w.MostBlockedSessID)
	}
}

func TestAnalyzeWindow_HotspotLimit(t *testing.T) {
	th := testThresholds()
	th.HotspotLimit = 2

	var edges []model.BlockingEdge
	for i := 0; i < 4; i++ {
		edges = append(edges, model.BlockingEdge{
			WaiterSessionID: 100 + i,
			HolderSessionID: 1,
			ResourceID:      string(rune('a' + i)),
		})
	}

	w := AnalyzeWindow(nil, edges, 0, nil, th, "system", "pass", time.Now(), time.Now())
	if len(w.Hotspots) != 2 {
		t.Errorf("expected hotspot list capped at 2, got %d", len(w.Hotspots))
	}
}
