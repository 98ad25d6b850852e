// Population spawning: draws household traits from the configured
// distributions.
package agents

import (
	"fmt"
	"math/rand"

	"github.com/talgya/bubbles/internal/exposure"
)

// PopulationConfig describes the trait distributions of a population.
type PopulationConfig struct {
	MeanSociability   float64   // Mean of the normal social-eagerness distribution
	SDSociability     float64   // Standard deviation of the same
	RiskFactors       []float64 // Bag sampled uniformly for risk factor
	OccupationClasses []float64 // Bag sampled uniformly per member
	MinMembers        int       // Inclusive
	MaxMembers        int       // Inclusive
	Baseline          float64   // Solo payoff for every household
}

// Validate checks the distributions can be sampled. Probability ranges are
// checked later, when each household's exposure is combined.
func (c PopulationConfig) Validate() error {
	if c.MinMembers < 1 || c.MaxMembers < c.MinMembers {
		return fmt.Errorf("member range [%d, %d] is invalid", c.MinMembers, c.MaxMembers)
	}
	if len(c.RiskFactors) == 0 || len(c.OccupationClasses) == 0 {
		return fmt.Errorf("risk factor and occupation class distributions must be non-empty")
	}
	return nil
}

// DefaultRiskFactors is a 100-entry bag: 2% 0, 8% 0.25, 25% 0.5, 35% 0.75, 30% 1.
func DefaultRiskFactors() []float64 {
	bag := make([]float64, 0, 100)
	for _, w := range []struct {
		value float64
		count int
	}{{0, 2}, {0.25, 8}, {0.5, 25}, {0.75, 35}, {1, 30}} {
		for i := 0; i < w.count; i++ {
			bag = append(bag, w.value)
		}
	}
	return bag
}

// DefaultPopulationConfig returns the standard population shape.
func DefaultPopulationConfig() PopulationConfig {
	return PopulationConfig{
		MeanSociability:   3.84,
		SDSociability:     1.18,
		RiskFactors:       DefaultRiskFactors(),
		OccupationClasses: []float64{0.02, 0.04, 0.08, 0.16},
		MinMembers:        1,
		MaxMembers:        5,
	}
}

// Spawner creates households for a simulation.
type Spawner struct {
	rng    *rand.Rand
	cfg    PopulationConfig
	policy exposure.Policy
	nextID HouseholdID
}

// NewSpawner creates a household spawner with the given seed. The policy is
// used to fold each household's occupations into its exposure chance.
func NewSpawner(seed int64, cfg PopulationConfig, policy exposure.Policy) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		cfg:    cfg,
		policy: policy,
	}
}

// SpawnPopulation creates count households with consecutive IDs.
func (s *Spawner) SpawnPopulation(count int) ([]*Household, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	households := make([]*Household, 0, count)
	for i := 0; i < count; i++ {
		h, err := s.spawnOne()
		if err != nil {
			return nil, err
		}
		households = append(households, h)
	}
	return households, nil
}

func (s *Spawner) spawnOne() (*Household, error) {
	id := s.nextID
	s.nextID++

	sociability := s.cfg.MeanSociability + s.rng.NormFloat64()*s.cfg.SDSociability
	risk := s.cfg.RiskFactors[s.rng.Intn(len(s.cfg.RiskFactors))]

	members := s.cfg.MinMembers + s.rng.Intn(s.cfg.MaxMembers-s.cfg.MinMembers+1)
	occupations := make([]float64, members)
	for i := range occupations {
		occupations[i] = s.cfg.OccupationClasses[s.rng.Intn(len(s.cfg.OccupationClasses))]
	}

	return NewHousehold(id, Traits{
		SocialEagerness: sociability,
		RiskFactor:      risk,
		Occupations:     occupations,
		Baseline:        s.cfg.Baseline,
	}, s.policy)
}
