// Best-response selection: which coalition a household would rather be in.
package engine

import (
	"fmt"

	"github.com/talgya/bubbles/internal/agents"
	"github.com/talgya/bubbles/internal/social"
	"github.com/talgya/bubbles/internal/timeline"
)

// SelectionPolicy decides how a household picks among active coalitions.
type SelectionPolicy uint8

const (
	// SelectStrict takes the strictly greatest payoff, earliest coalition on
	// ties. A negative best sends the household to an empty coalition.
	SelectStrict SelectionPolicy = iota
	// SelectThreshold keeps a running maximum seeded at -1 and never
	// overrides a negative best. If nothing beats -1 the household stays put.
	SelectThreshold
)

// thresholdFloor seeds the running maximum under SelectThreshold.
const thresholdFloor = -1.0

// ParseSelectionPolicy maps a config name to a SelectionPolicy.
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch s {
	case "", "strict":
		return SelectStrict, nil
	case "threshold":
		return SelectThreshold, nil
	default:
		return SelectStrict, fmt.Errorf("unknown selection policy %q (valid: strict, threshold)", s)
	}
}

// String returns the config name of the policy.
func (p SelectionPolicy) String() string {
	switch p {
	case SelectStrict:
		return "strict"
	case SelectThreshold:
		return "threshold"
	default:
		return "unknown"
	}
}

// BestCoalition scans the active coalitions in ID order and returns the one
// that household id values most under cond.
func (w *World) BestCoalition(id agents.HouseholdID, cond timeline.Conditions) (social.CoalitionID, error) {
	if int(id) >= len(w.owner) {
		return 0, fmt.Errorf("unknown household %d", id)
	}
	switch w.cfg.Selection {
	case SelectThreshold:
		return w.bestThreshold(id, cond)
	default:
		return w.bestStrict(id, cond)
	}
}

func (w *World) bestStrict(id agents.HouseholdID, cond timeline.Conditions) (social.CoalitionID, error) {
	h := w.Households[id]
	cur := w.owner[id]

	found := false
	var best social.CoalitionID
	var bestPayoff float64
	for _, c := range w.Coalitions {
		if c.Empty() {
			continue
		}
		p, err := h.CoalitionPayoff(w.members(c), cond, w.cfg.Exposure)
		if err != nil {
			return cur, err
		}
		if !found || p > bestPayoff {
			best, bestPayoff, found = c.ID, p, true
		}
	}
	if !found {
		return cur, nil
	}

	if bestPayoff < 0 {
		// Every group costs more than it gives: go it alone.
		if w.Coalitions[cur].IsSolo(id) {
			return cur, nil
		}
		if empty, ok := w.firstEmpty(); ok {
			return empty, nil
		}
		return cur, nil
	}
	return best, nil
}

func (w *World) bestThreshold(id agents.HouseholdID, cond timeline.Conditions) (social.CoalitionID, error) {
	h := w.Households[id]
	best := w.owner[id]
	top := thresholdFloor
	for _, c := range w.Coalitions {
		if c.Empty() {
			continue
		}
		p, err := h.CoalitionPayoff(w.members(c), cond, w.cfg.Exposure)
		if err != nil {
			return w.owner[id], err
		}
		if p > top {
			best, top = c.ID, p
		}
	}
	return best, nil
}

func (w *World) firstEmpty() (social.CoalitionID, bool) {
	for _, c := range w.Coalitions {
		if c.Empty() {
			return c.ID, true
		}
	}
	return 0, false
}
