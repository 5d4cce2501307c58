package validator

import (
	"strings"
	"testing"
	"time"

	"lockwatch/pkg/logger"
	"lockwatch/pkg/model"
)

const testPassID = "11111111-2222-4333-8444-555555555555"

func newTestValidator() *FindingValidator {
	return NewFindingValidator(logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	}))
}

func validDeadlock() *model.DeadlockEvent {
	return &model.DeadlockEvent{
		ID:              "22222222-3333-4444-8555-666666666666",
		TenantID:        model.SystemTenant,
		PassID:          testPassID,
		CycleKey:        "100-200",
		SessionIDs:      []int{100, 200},
		Edges: []model.BlockingEdge{
			{WaiterSessionID: 100, HolderSessionID: 200, ResourceID: "relation:1", RequestedMode: model.Share, HeldMode: model.Exclusive},
			{WaiterSessionID: 200, HolderSessionID: 100, ResourceID: "relation:2", RequestedMode: model.Share, HeldMode: model.Exclusive},
		},
		VictimSessionID: 200,
		Status:          model.DeadlockDetected,
		DetectedAt:      time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidateDeadlock_Valid(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateDeadlock(validDeadlock()); err != nil {
		t.Errorf("expected valid deadlock, got %v", err)
	}
}

func TestValidateDeadlock_BadCycleKey(t *testing.T) {
	v := newTestValidator()

	event := validDeadlock()
	event.CycleKey = "100"
	err := v.ValidateDeadlock(event)
	if err == nil {
		t.Fatal("expected validation error for single-session cycle key")
	}
	if !strings.Contains(err.Error(), "CycleKey") {
		t.Errorf("expected CycleKey in error, got %v", err)
	}
}

func TestValidateDeadlock_BadPassID(t *testing.T) {
	v := newTestValidator()

	event := validDeadlock()
	event.PassID = "not-a-uuid"
	err := v.ValidateDeadlock(event)
	if err == nil {
		t.Fatal("expected validation error for malformed pass id")
	}
	if !strings.Contains(err.Error(), "valid UUID") {
		t.Errorf("expected translated uuid4 message, got %v", err)
	}
}

func TestValidateDeadlock_VictimOutsideCycle(t *testing.T) {
	v := newTestValidator()

	event := validDeadlock()
	event.VictimSessionID = 999
	err := v.ValidateDeadlock(event)
	if err == nil {
		t.Fatal("expected validation error for victim outside the cycle")
	}
	if !strings.Contains(err.Error(), "not part of the cycle") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateDeadlock_ResolvedWithoutTimestamp(t *testing.T) {
	v := newTestValidator()

	event := validDeadlock()
	event.Status = model.DeadlockResolved
	event.Resolution = model.ResolutionManual
	err := v.ValidateDeadlock(event)
	if err == nil {
		t.Fatal("expected validation error for resolved event without timestamp")
	}
	if !strings.Contains(err.Error(), "ResolvedAt") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateWindow_Valid(t *testing.T) {
	v := newTestValidator()

	window := &model.AnalysisWindow{
		TenantID:        model.SystemTenant,
		PassID:          testPassID,
		PeriodStart:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		PeriodEnd:       time.Date(2026, 8, 30, 12, 0, 1, 0, time.UTC),
		EfficiencyScore: 100,
		TrendDirection:  model.TrendStable,
	}
	if err := v.ValidateWindow(window); err != nil {
		t.Errorf("expected valid window, got %v", err)
	}
}

func TestValidateWindow_PeriodEndBeforeStart(t *testing.T) {
	v := newTestValidator()

	window := &model.AnalysisWindow{
		TenantID:        model.SystemTenant,
		PassID:          testPassID,
		PeriodStart:     time.Date(2026, 8, 30, 12, 0, 1, 0, time.UTC),
		PeriodEnd:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		EfficiencyScore: 100,
		TrendDirection:  model.TrendStable,
	}
	err := v.ValidateWindow(window)
	if err == nil {
		t.Fatal("expected validation error for inverted period")
	}
	if !strings.Contains(err.Error(), "PeriodEnd") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateWindow_BadTrendDirection(t *testing.T) {
	v := newTestValidator()

	window := &model.AnalysisWindow{
		TenantID:        model.SystemTenant,
		PassID:          testPassID,
		EfficiencyScore: 50,
		TrendDirection:  "SIDEWAYS",
	}
	err := v.ValidateWindow(window)
	if err == nil {
		t.Fatal("expected validation error for unknown trend direction")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("expected translated oneof message, got %v", err)
	}
}

func TestValidateAlert_Valid(t *testing.T) {
	v := newTestValidator()

	alert := &model.AlertEvent{
		ID:              "33333333-4444-4555-8666-777777777777",
		TenantID:        model.SystemTenant,
		PassID:          testPassID,
		Level:           "critical",
		Recommendations: []string{"High contention detected; review transaction patterns"},
		EmittedAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	if err := v.ValidateAlert(alert); err != nil {
		t.Errorf("expected valid alert, got %v", err)
	}
}

func TestValidateAlert_RequiresRecommendations(t *testing.T) {
	v := newTestValidator()

	alert := &model.AlertEvent{
		ID:       "33333333-4444-4555-8666-777777777777",
		TenantID: model.SystemTenant,
		PassID:   testPassID,
		Level:    "warning",
	}
	err := v.ValidateAlert(alert)
	if err == nil {
		t.Fatal("expected validation error for alert without recommendations")
	}
	if !strings.Contains(err.Error(), "Recommendations") {
		t.Errorf("unexpected message: %v", err)
	}
}
