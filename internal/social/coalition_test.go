package social

import (
	"slices"
	"testing"

	"github.com/talgya/bubbles/internal/agents"
)

func TestCoalitionMembership(t *testing.T) {
	c := NewCoalition(4, 2)
	if c.ID != 4 || c.Len() != 1 || !c.IsSolo(2) {
		t.Fatalf("new coalition = id %d len %d", c.ID, c.Len())
	}

	if !c.Add(7) {
		t.Error("Add(7) should report insertion")
	}
	if c.Add(7) {
		t.Error("second Add(7) should be a no-op")
	}
	if c.IsSolo(2) {
		t.Error("coalition of two is not solo")
	}
	if !c.Has(7) || c.Has(3) {
		t.Error("Has mismatch")
	}

	c.Add(0)
	if got := c.Members(); !slices.Equal(got, []agents.HouseholdID{0, 2, 7}) {
		t.Errorf("Members() = %v, want [0 2 7]", got)
	}

	if !c.Remove(2) || c.Remove(2) {
		t.Error("Remove should succeed once")
	}
	c.Remove(0)
	c.Remove(7)
	if !c.Empty() {
		t.Errorf("expected empty coalition, len %d", c.Len())
	}

	// Empty coalitions can be refilled.
	c.Add(9)
	if !c.IsSolo(9) {
		t.Error("refilled coalition should hold 9 alone")
	}
}
