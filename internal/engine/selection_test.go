package engine

import (
	"testing"

	"github.com/talgya/bubbles/internal/agents"
)

func TestBestCoalitionJoinsPositiveGroup(t *testing.T) {
	w := newTestWorld(t, SelectStrict, half(1), half(1))
	// Solo is worth 0, joining is worth 1 - 0.75.
	best, err := w.BestCoalition(0, unitPressure)
	if err != nil {
		t.Fatal(err)
	}
	if best != 1 {
		t.Errorf("BestCoalition(0) = %d, want 1", best)
	}
}

func TestBestCoalitionTieGoesToEarliest(t *testing.T) {
	w := newTestWorld(t, SelectStrict, half(1), half(1), half(1))
	best, err := w.BestCoalition(2, unitPressure)
	if err != nil {
		t.Fatal(err)
	}
	if best != 0 {
		t.Errorf("tie between coalitions 0 and 1 resolved to %d, want 0", best)
	}
}

func TestBestCoalitionNegativeFoundsSingleton(t *testing.T) {
	w := newTestWorld(t, SelectStrict, half(0.1), half(1))
	w.MoveTo(0, 1)

	// Only coalition 1 is active; it is worth 0.1 - 0.75 to household 0.
	best, err := w.BestCoalition(0, unitPressure)
	if err != nil {
		t.Fatal(err)
	}
	if best != 0 {
		t.Errorf("negative best should send household 0 to empty coalition 0, got %d", best)
	}
	if !w.Coalitions[best].Empty() {
		t.Error("chosen coalition should be empty")
	}
}

func TestBestCoalitionNegativeStaysSolo(t *testing.T) {
	lonely := agents.Traits{SocialEagerness: -5, RiskFactor: 1, Occupations: []float64{0.5}, Baseline: -1}
	w := newTestWorld(t, SelectStrict, lonely, half(1), half(1))
	w.MoveTo(2, 1)

	best, err := w.BestCoalition(0, unitPressure)
	if err != nil {
		t.Fatal(err)
	}
	if best != 0 {
		t.Errorf("solo household with negative options should stay in 0, got %d", best)
	}
}

func TestBestCoalitionThresholdPolicy(t *testing.T) {
	w := newTestWorld(t, SelectThreshold, half(0.1), half(1))
	w.MoveTo(0, 1)

	// -0.65 beats the -1 floor, so no override to an empty coalition.
	best, err := w.BestCoalition(0, unitPressure)
	if err != nil {
		t.Fatal(err)
	}
	if best != 1 {
		t.Errorf("threshold policy chose %d, want 1", best)
	}

	w = newTestWorld(t, SelectThreshold, half(-1), half(1))
	w.MoveTo(0, 1)
	// -1.75 never beats -1: stay in the current coalition.
	best, err = w.BestCoalition(0, unitPressure)
	if err != nil {
		t.Fatal(err)
	}
	if best != 1 {
		t.Errorf("threshold policy with nothing above the floor chose %d, want current 1", best)
	}
}

func TestBestCoalitionUnknownHousehold(t *testing.T) {
	w := newTestWorld(t, SelectStrict, half(1))
	if _, err := w.BestCoalition(4, unitPressure); err == nil {
		t.Error("expected error for unknown household")
	}
}

func TestParseSelectionPolicy(t *testing.T) {
	for name, want := range map[string]SelectionPolicy{"": SelectStrict, "strict": SelectStrict, "threshold": SelectThreshold} {
		got, err := ParseSelectionPolicy(name)
		if err != nil || got != want {
			t.Errorf("ParseSelectionPolicy(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseSelectionPolicy("greedy"); err == nil {
		t.Error("expected error for unknown policy")
	}
	if SelectThreshold.String() != "threshold" {
		t.Errorf("String() = %q", SelectThreshold.String())
	}
}

func TestBestCoalitionOverrideIgnoresBaseline(t *testing.T) {
	rich := half(1)
	rich.Baseline = 1

	// Solo, the household values staying alone (1) above joining (0.25).
	w := newTestWorld(t, SelectStrict, rich, half(1))
	best, err := w.BestCoalition(0, unitPressure)
	if err != nil {
		t.Fatal(err)
	}
	if best != 0 {
		t.Errorf("solo household chose %d, want to stay in 0", best)
	}

	// In a group worth 0.25 the override only fires below zero, so it stays.
	w.MoveTo(0, 1)
	best, err = w.BestCoalition(0, unitPressure)
	if err != nil {
		t.Fatal(err)
	}
	if best != 1 {
		t.Errorf("grouped household chose %d, want to stay in 1", best)
	}
}
