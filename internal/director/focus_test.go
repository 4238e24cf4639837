package director

import (
	"testing"

	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/tension"
)

func TestSelectFocusPrefersHighestSeverity(t *testing.T) {
	tensions := []*tension.Tension{
		{ID: "tens_low", Severity: 0.3},
		{ID: "tens_high", Severity: 0.9},
	}
	tracker := NewThreadTracker()
	cfg := config.FocusConfig{MinTensionSeverity: 0.2}
	if got := SelectFocus(tensions, tracker, cfg); got != "tens_high" {
		t.Fatalf("expected tens_high, got %s", got)
	}
}

func TestSelectFocusTiebreaksByID(t *testing.T) {
	tensions := []*tension.Tension{
		{ID: "tens_b", Severity: 0.5},
		{ID: "tens_a", Severity: 0.5},
	}
	tracker := NewThreadTracker()
	cfg := config.FocusConfig{MinTensionSeverity: 0.0}
	if got := SelectFocus(tensions, tracker, cfg); got != "tens_a" {
		t.Fatalf("expected tens_a to win the severity tie by ID, got %s", got)
	}
}

func TestSelectFocusFiltersBelowMinSeverity(t *testing.T) {
	tensions := []*tension.Tension{{ID: "tens_1", Severity: 0.1}}
	tracker := NewThreadTracker()
	cfg := config.FocusConfig{MinTensionSeverity: 0.5}
	if got := SelectFocus(tensions, tracker, cfg); got != "overview" {
		t.Fatalf("expected overview fallback for a below-threshold tension, got %s", got)
	}
}

func TestSelectFocusExcludesFatiguedAndDormantThreads(t *testing.T) {
	tensions := []*tension.Tension{
		{ID: "tens_fatigued", Severity: 0.9},
		{ID: "tens_dormant", Severity: 0.8},
		{ID: "tens_active", Severity: 0.1},
	}
	tracker := NewThreadTracker()
	tracker.Observe("tens_fatigued", nil, "", 0)
	tracker.Observe("tens_dormant", nil, "", 0)
	tracker.Observe("tens_active", nil, "", 0)
	tracker.byTension["tens_fatigued"].Status = ThreadFatigued
	tracker.byTension["tens_dormant"].Status = ThreadDormant

	cfg := config.FocusConfig{MinTensionSeverity: 0.0}
	if got := SelectFocus(tensions, tracker, cfg); got != "tens_active" {
		t.Fatalf("expected the only non-fatigued, non-dormant thread tens_active, got %s", got)
	}
}

func TestSelectFocusFallsBackToOverviewWhenEmpty(t *testing.T) {
	tracker := NewThreadTracker()
	cfg := config.FocusConfig{MinTensionSeverity: 0.2}
	if got := SelectFocus(nil, tracker, cfg); got != "overview" {
		t.Fatalf("expected overview with no tensions at all, got %s", got)
	}
}
