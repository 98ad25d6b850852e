// Package engine runs best-response coalition dynamics over a population of
// households.
package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/talgya/bubbles/internal/agents"
	"github.com/talgya/bubbles/internal/exposure"
	"github.com/talgya/bubbles/internal/social"
	"github.com/talgya/bubbles/internal/timeline"
)

// ErrPartition reports a household held by zero or several coalitions.
var ErrPartition = errors.New("coalitions do not partition households")

// WorldConfig controls a world's dynamics.
type WorldConfig struct {
	Sweeps    int             // Best-response sweeps per round
	Exposure  exposure.Policy // How coalition exposure is combined
	Selection SelectionPolicy // How each household picks a coalition
}

// DefaultWorldConfig returns ten sweeps with exact exposure and strict selection.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Sweeps:    10,
		Exposure:  exposure.PolicyExact,
		Selection: SelectStrict,
	}
}

// World owns the household arena and the fixed coalition pool. Households are
// addressed by ID and coalition i starts out holding household i alone.
//
// A World is not safe for concurrent use. Independent runs each need their
// own World.
type World struct {
	Households []*agents.Household
	Coalitions []*social.Coalition
	Schedule   *timeline.Schedule

	owner []social.CoalitionID // household ID → coalition ID
	order []agents.HouseholdID // visitation order, reshuffled every sweep
	rng   *rand.Rand
	cfg   WorldConfig
}

// NewWorld seeds one singleton coalition per household. Household IDs must be
// 0..len-1 in order.
func NewWorld(households []*agents.Household, schedule *timeline.Schedule, cfg WorldConfig, seed int64) (*World, error) {
	if len(households) == 0 {
		return nil, fmt.Errorf("world needs at least one household")
	}
	if cfg.Sweeps < 1 {
		return nil, fmt.Errorf("sweeps must be at least 1, got %d", cfg.Sweeps)
	}
	if schedule == nil {
		return nil, fmt.Errorf("world needs a schedule")
	}

	w := &World{
		Households: households,
		Coalitions: make([]*social.Coalition, len(households)),
		Schedule:   schedule,
		owner:      make([]social.CoalitionID, len(households)),
		order:      make([]agents.HouseholdID, len(households)),
		rng:        rand.New(rand.NewSource(seed + 500)),
		cfg:        cfg,
	}
	for i, h := range households {
		if h == nil || h.ID() != agents.HouseholdID(i) {
			return nil, fmt.Errorf("household at index %d has mismatched ID", i)
		}
		cid := social.CoalitionID(i)
		w.Coalitions[i] = social.NewCoalition(cid, h.ID())
		w.owner[i] = cid
		w.order[i] = h.ID()
	}
	return w, nil
}

// Config returns the world's dynamics configuration.
func (w *World) Config() WorldConfig { return w.cfg }

// CurrentCoalition returns the coalition holding a household.
func (w *World) CurrentCoalition(id agents.HouseholdID) (*social.Coalition, error) {
	if int(id) >= len(w.owner) {
		return nil, fmt.Errorf("unknown household %d", id)
	}
	return w.Coalitions[w.owner[id]], nil
}

// MoveTo takes a household out of its current coalition and puts it in the
// coalition with the given ID. Moving to the current coalition changes nothing.
func (w *World) MoveTo(id agents.HouseholdID, cid social.CoalitionID) error {
	if int(id) >= len(w.owner) {
		return fmt.Errorf("unknown household %d", id)
	}
	if int(cid) >= len(w.Coalitions) {
		return fmt.Errorf("unknown coalition %d", cid)
	}

	src := w.owner[id]
	if src == cid {
		return nil
	}
	w.Coalitions[src].Remove(id)
	w.Coalitions[cid].Add(id)
	w.owner[id] = cid
	return nil
}

// members resolves a coalition's IDs to households in ascending ID order.
func (w *World) members(c *social.Coalition) []*agents.Household {
	ids := c.Members()
	out := make([]*agents.Household, len(ids))
	for i, id := range ids {
		out[i] = w.Households[id]
	}
	return out
}

// CheckPartition verifies every household sits in exactly one coalition and
// that the owner index agrees with coalition membership.
func (w *World) CheckPartition() error {
	seen := make([]int, len(w.Households))
	for _, c := range w.Coalitions {
		for _, id := range c.Members() {
			if int(id) >= len(seen) {
				return fmt.Errorf("%w: coalition %d holds unknown household %d", ErrPartition, c.ID, id)
			}
			seen[id]++
			if w.owner[id] != c.ID {
				return fmt.Errorf("%w: household %d in coalition %d but indexed to %d", ErrPartition, id, c.ID, w.owner[id])
			}
		}
	}
	for id, n := range seen {
		if n != 1 {
			return fmt.Errorf("%w: household %d appears in %d coalitions", ErrPartition, id, n)
		}
	}
	return nil
}
