// Package social provides coalitions: named groups of households that share
// social exposure.
package social

import (
	"slices"

	"github.com/talgya/bubbles/internal/agents"
)

// CoalitionID is a coalition's stable slot in the world's fixed pool.
type CoalitionID uint32

// Coalition is a mutable set of household IDs. A coalition may empty out and
// be refilled later; it is never destroyed.
type Coalition struct {
	ID      CoalitionID
	members map[agents.HouseholdID]struct{}
}

// NewCoalition creates a coalition holding the given households.
func NewCoalition(id CoalitionID, members ...agents.HouseholdID) *Coalition {
	c := &Coalition{
		ID:      id,
		members: make(map[agents.HouseholdID]struct{}, len(members)),
	}
	for _, m := range members {
		c.members[m] = struct{}{}
	}
	return c
}

// Add inserts a household. Returns false if it was already a member.
func (c *Coalition) Add(id agents.HouseholdID) bool {
	if _, ok := c.members[id]; ok {
		return false
	}
	c.members[id] = struct{}{}
	return true
}

// Remove deletes a household. Returns false if it was not a member.
func (c *Coalition) Remove(id agents.HouseholdID) bool {
	if _, ok := c.members[id]; !ok {
		return false
	}
	delete(c.members, id)
	return true
}

// Has reports whether the household is a member.
func (c *Coalition) Has(id agents.HouseholdID) bool {
	_, ok := c.members[id]
	return ok
}

// Len returns the number of members.
func (c *Coalition) Len() int { return len(c.members) }

// Empty reports whether the coalition has no members.
func (c *Coalition) Empty() bool { return len(c.members) == 0 }

// IsSolo reports whether id is the only member.
func (c *Coalition) IsSolo(id agents.HouseholdID) bool {
	return len(c.members) == 1 && c.Has(id)
}

// Members returns member IDs in ascending order.
func (c *Coalition) Members() []agents.HouseholdID {
	ids := make([]agents.HouseholdID, 0, len(c.members))
	for id := range c.members {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
