// Package agents provides the household agent model: static traits, the payoff
// a household assigns to a candidate coalition, and population spawning.
package agents

import (
	"fmt"

	"github.com/talgya/bubbles/internal/exposure"
	"github.com/talgya/bubbles/internal/timeline"
)

// HouseholdID addresses a household in the world's arena. IDs are dense,
// starting at 0.
type HouseholdID uint32

// Traits are the inputs used to build a household.
type Traits struct {
	SocialEagerness float64   // Desire to socialize
	RiskFactor      float64   // Sensitivity to infection risk, 0.0–1.0
	Occupations     []float64 // Exposure probability of each member's occupation
	Baseline        float64   // Payoff of staying solo
}

// Household is a single agent. Its traits never change after construction;
// only coalition membership, held by the world, moves.
type Household struct {
	id              HouseholdID
	socialEagerness float64
	riskFactor      float64
	exposureChance  float64
	memberCount     int
	baseline        float64
}

// NewHousehold builds a household, folding its members' occupational exposure
// into a single chance with the given policy.
func NewHousehold(id HouseholdID, t Traits, policy exposure.Policy) (*Household, error) {
	if t.RiskFactor < 0 || t.RiskFactor > 1 {
		return nil, fmt.Errorf("household %d: risk factor %v outside [0, 1]", id, t.RiskFactor)
	}
	chance, err := policy.Apply(t.Occupations)
	if err != nil {
		return nil, fmt.Errorf("household %d: %w", id, err)
	}
	return &Household{
		id:              id,
		socialEagerness: t.SocialEagerness,
		riskFactor:      t.RiskFactor,
		exposureChance:  chance,
		memberCount:     len(t.Occupations),
		baseline:        t.Baseline,
	}, nil
}

func (h *Household) ID() HouseholdID          { return h.id }
func (h *Household) SocialEagerness() float64 { return h.socialEagerness }
func (h *Household) RiskFactor() float64      { return h.riskFactor }
func (h *Household) ExposureChance() float64  { return h.exposureChance }
func (h *Household) MemberCount() int         { return h.memberCount }

// Value is the payoff of remaining solo. It is the configured baseline,
// independent of the household's traits.
func (h *Household) Value() float64 {
	return h.baseline
}

// CoalitionPayoff returns what h would get from belonging to a coalition with
// the given members under cond. A coalition of h alone is worth Value.
// Otherwise the payoff is social eagerness less the combined exposure of
// members ∪ {h}, weighted by h's risk factor and the round's pressure.
func (h *Household) CoalitionPayoff(members []*Household, cond timeline.Conditions, policy exposure.Policy) (float64, error) {
	if len(members) == 1 && members[0].id == h.id {
		return h.Value(), nil
	}

	chances := make([]float64, 0, len(members)+1)
	chances = append(chances, h.exposureChance)
	for _, m := range members {
		if m.id == h.id {
			continue
		}
		chances = append(chances, m.exposureChance)
	}

	combined, err := policy.Apply(chances)
	if err != nil {
		return 0, fmt.Errorf("household %d payoff: %w", h.id, err)
	}
	return h.socialEagerness - combined*h.riskFactor*cond.Pressure(), nil
}

// String renders the traits compactly, e.g. "<3.8S, 0.5R, 0.1E>".
func (h *Household) String() string {
	return fmt.Sprintf("<%.1fS, %.1fR, %.1fE>", h.socialEagerness, h.riskFactor, h.exposureChance)
}
