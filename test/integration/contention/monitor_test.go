package contention

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"lockwatch/pkg/model"
	"lockwatch/test/integration/testutil"
)

// The suite drives a running monitor over HTTP and inspects the findings
// store directly. It needs a live monitor, its MongoDB and a reachable
// monitored instance; set RUN_INTEGRATION_TESTS=1 to enable.
func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") != "1" {
		t.Skip("set RUN_INTEGRATION_TESTS=1 to run integration tests")
	}
}

func TestTriggerPass_PersistsWindow(t *testing.T) {
	skipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.POST(t, "/api/v1/passes", nil)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var envelope struct {
		Data model.RunSummary `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to decode run summary: %v", err)
	}

	summary := envelope.Data
	if summary.PassID == "" {
		t.Error("expected a pass id")
	}
	if summary.TenantID != model.SystemTenant {
		t.Errorf("expected tenant %s, got %s", model.SystemTenant, summary.TenantID)
	}
	if summary.EfficiencyScore < 0 || summary.EfficiencyScore > 100 {
		t.Errorf("efficiency score out of range: %d", summary.EfficiencyScore)
	}
	if summary.CompletedAt.Before(summary.StartedAt) {
		t.Error("pass completed before it started")
	}

	if got := mongo.CountDocuments(t, testutil.AnalysisWindowsCollection); got != 1 {
		t.Errorf("expected 1 analysis window, got %d", got)
	}
}

func TestTriggerPass_ConsecutivePassesAccumulateWindows(t *testing.T) {
	skipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	for i := 0; i < 3; i++ {
		resp := client.POST(t, "/api/v1/passes", nil)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	}

	if got := mongo.CountDocuments(t, testutil.AnalysisWindowsCollection); got != 3 {
		t.Errorf("expected 3 analysis windows, got %d", got)
	}
}

func TestGetWindows_PaginatedNewestFirst(t *testing.T) {
	skipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	for i := 0; i < 2; i++ {
		resp := client.POST(t, "/api/v1/passes", nil)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	}

	resp := client.GET(t, "/api/v1/windows?limit=10&offset=0")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var envelope struct {
		Data       []*model.AnalysisWindow `json:"data"`
		TotalCount int64                   `json:"total_count"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to decode windows: %v", err)
	}
	if envelope.TotalCount != 2 || len(envelope.Data) != 2 {
		t.Fatalf("expected 2 windows, got total=%d len=%d", envelope.TotalCount, len(envelope.Data))
	}
	if envelope.Data[0].PeriodEnd.Before(envelope.Data[1].PeriodEnd) {
		t.Error("expected windows sorted newest first")
	}
}

func TestGetSummaries_RejectsBadSeverity(t *testing.T) {
	skipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.GET(t, "/api/v1/summaries?min_severity=EXTREME")
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}

func TestResolveDeadlock_ManualResolution(t *testing.T) {
	skipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	seeded := testutil.NewDeadlockEventBuilder().
		WithCycle(310, 320).
		WithVictim(320).
		Insert(t, mongo)

	resp := client.PUT(t, fmt.Sprintf("/api/v1/deadlocks/%s/resolution", seeded.ID), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var envelope struct {
		Data model.DeadlockEvent `json:"data"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to decode deadlock event: %v", err)
	}
	if envelope.Data.Status != model.DeadlockResolved {
		t.Errorf("expected status %s, got %s", model.DeadlockResolved, envelope.Data.Status)
	}
	if envelope.Data.Resolution != model.ResolutionManual {
		t.Errorf("expected resolution %s, got %s", model.ResolutionManual, envelope.Data.Resolution)
	}
	if envelope.Data.ResolvedAt == nil {
		t.Error("expected a resolution timestamp")
	}
}

func TestResolveDeadlock_SecondResolveConflicts(t *testing.T) {
	skipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	seeded := testutil.NewDeadlockEventBuilder().
		WithCycle(410, 420).
		WithVictim(410).
		Insert(t, mongo)

	path := fmt.Sprintf("/api/v1/deadlocks/%s/resolution", seeded.ID)
	testutil.AssertStatusCode(t, client.PUT(t, path, nil), http.StatusOK)
	testutil.AssertStatusCode(t, client.PUT(t, path, nil), http.StatusConflict)
}

func TestResolveDeadlock_UnknownIDNotFound(t *testing.T) {
	skipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.PUT(t, "/api/v1/deadlocks/00000000-0000-4000-8000-000000000000/resolution", nil)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestGetDeadlocks_FiltersByStatus(t *testing.T) {
	skipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	testutil.NewDeadlockEventBuilder().WithCycle(510, 520).WithVictim(510).Insert(t, mongo)
	testutil.NewDeadlockEventBuilder().
		WithCycle(530, 540).
		WithVictim(530).
		Resolved(model.ResolutionManual, time.Now().UTC()).
		Insert(t, mongo)

	resp := client.GET(t, "/api/v1/deadlocks?status=DETECTED")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var envelope struct {
		Data       []*model.DeadlockEvent `json:"data"`
		TotalCount int64                  `json:"total_count"`
	}
	if err := resp.DecodeJSON(&envelope); err != nil {
		t.Fatalf("failed to decode deadlocks: %v", err)
	}
	if envelope.TotalCount != 1 || len(envelope.Data) != 1 {
		t.Fatalf("expected 1 detected event, got total=%d len=%d", envelope.TotalCount, len(envelope.Data))
	}
	if envelope.Data[0].Status != model.DeadlockDetected {
		t.Errorf("expected DETECTED, got %s", envelope.Data[0].Status)
	}

	resp = client.GET(t, "/api/v1/deadlocks?status=BROKEN")
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}

func TestHealthEndpoints(t *testing.T) {
	skipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	testutil.AssertStatusCode(t, client.GET(t, "/health"), http.StatusOK)
	testutil.AssertStatusCode(t, client.GET(t, "/ready"), http.StatusOK)
}
