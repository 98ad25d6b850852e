// Package timeline provides the round-indexed multipliers that scale how
// strongly infection risk weighs on a household: a sigmoid decay of urgency
// and a per-round infection-rate table.
package timeline

import (
	"errors"
	"fmt"
	"math"
)

// ErrIndexOutOfRange is returned when a round falls outside the infection-rate
// table. The table must cover every configured round.
var ErrIndexOutOfRange = errors.New("round outside infection-rate table")

// DefaultDecayStretch is the number of rounds per decay unit.
const DefaultDecayStretch = 4.0

// DefaultInfectionRates is the per-round infection multiplier table.
var DefaultInfectionRates = []float64{0.9, 1.0, 1.5, 2.0, 4.0, 1.2, 1.1, 2.0}

// DecayFactor returns 1 - 1/sqrt(1 + 0.5·exp(-16·(round/stretch) + 12)).
// Early rounds sit near 1 and the factor falls toward 0 as urgency wanes.
// Late rounds where the value would underflow return the smallest positive
// float64, so the factor stays strictly inside (0, 1).
func DecayFactor(round int, stretch float64) float64 {
	u := 0.5 * math.Exp(-16*(float64(round)/stretch)+12)
	// Same value as 1 - 1/sqrt(1+u), without cancellation when u is tiny.
	s := math.Sqrt(1 + u)
	d := u / (s * (1 + s))
	if d < math.SmallestNonzeroFloat64 {
		return math.SmallestNonzeroFloat64
	}
	return d
}

// InfectionFactor returns rates[round].
func InfectionFactor(round int, rates []float64) (float64, error) {
	if round < 0 || round >= len(rates) {
		return 0, fmt.Errorf("%w: round %d, table length %d", ErrIndexOutOfRange, round, len(rates))
	}
	return rates[round], nil
}

// Conditions are the multipliers in force for one round. Payoff evaluation
// receives them explicitly rather than reading a shared clock.
type Conditions struct {
	Round     int     `json:"round"`
	Decay     float64 `json:"decay"`
	Infection float64 `json:"infection"`
}

// Pressure is the combined time multiplier applied to weighted exposure.
func (c Conditions) Pressure() float64 {
	return c.Decay * c.Infection
}

// Schedule binds a decay stretch to an infection-rate table.
type Schedule struct {
	Stretch float64
	Rates   []float64
}

// DefaultSchedule returns the standard eight-round schedule.
func DefaultSchedule() *Schedule {
	rates := make([]float64, len(DefaultInfectionRates))
	copy(rates, DefaultInfectionRates)
	return &Schedule{Stretch: DefaultDecayStretch, Rates: rates}
}

// At returns the conditions for a round.
func (s *Schedule) At(round int) (Conditions, error) {
	inf, err := InfectionFactor(round, s.Rates)
	if err != nil {
		return Conditions{}, err
	}
	return Conditions{
		Round:     round,
		Decay:     DecayFactor(round, s.Stretch),
		Infection: inf,
	}, nil
}

// Covers reports an error unless every round in [0, rounds) has conditions.
func (s *Schedule) Covers(rounds int) error {
	if s.Stretch <= 0 {
		return fmt.Errorf("decay stretch must be positive, got %v", s.Stretch)
	}
	if len(s.Rates) < rounds {
		return fmt.Errorf("%w: %d rounds configured, table length %d", ErrIndexOutOfRange, rounds, len(s.Rates))
	}
	for i, r := range s.Rates {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("infection rate %d is %v, want a finite non-negative value", i, r)
		}
	}
	return nil
}

// Clone returns a copy that shares no memory with s.
func (s *Schedule) Clone() *Schedule {
	rates := make([]float64, len(s.Rates))
	copy(rates, s.Rates)
	return &Schedule{Stretch: s.Stretch, Rates: rates}
}
