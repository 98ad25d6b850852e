// Package exposure aggregates individual exposure probabilities into the
// probability that a group as a whole is exposed.
package exposure

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for empty input or a probability outside [0, 1].
var ErrInvalidInput = errors.New("invalid exposure input")

// Policy selects how individual probabilities are combined.
type Policy uint8

const (
	PolicyExact Policy = iota // Inclusion–exclusion over independent events
	PolicyMean                // Arithmetic mean
)

// ParsePolicy maps a config name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "exact":
		return PolicyExact, nil
	case "mean":
		return PolicyMean, nil
	default:
		return PolicyExact, fmt.Errorf("unknown exposure policy %q (valid: exact, mean)", s)
	}
}

// String returns the config name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyExact:
		return "exact"
	case PolicyMean:
		return "mean"
	default:
		return "unknown"
	}
}

// Apply combines ps according to the policy.
func (p Policy) Apply(ps []float64) (float64, error) {
	if p == PolicyMean {
		return Mean(ps)
	}
	return Combine(ps)
}

// enumerationLimit caps explicit subset enumeration. Larger groups use the
// equivalent complement form 1 - Π(1-p).
const enumerationLimit = 16

// Combine returns the probability that at least one of the independent events
// with probabilities ps occurs, by inclusion–exclusion: the sum of all values,
// then (-1)^(k-1) times the sum of products of every k-subset for k = 2..len.
func Combine(ps []float64) (float64, error) {
	if err := validate(ps); err != nil {
		return 0, err
	}
	if len(ps) == 1 {
		return ps[0], nil
	}
	if len(ps) > enumerationLimit {
		return complement(ps), nil
	}

	total := 0.0
	for _, p := range ps {
		total += p
	}
	sign := -1.0
	for k := 2; k <= len(ps); k++ {
		total += sign * subsetProducts(ps, k)
		sign = -sign
	}
	return total, nil
}

// subsetProducts sums the products of every k-subset of ps, visiting subsets
// in lexicographic index order.
func subsetProducts(ps []float64, k int) float64 {
	var sum float64
	var walk func(start, left int, prod float64)
	walk = func(start, left int, prod float64) {
		if left == 0 {
			sum += prod
			return
		}
		for i := start; i <= len(ps)-left; i++ {
			walk(i+1, left-1, prod*ps[i])
		}
	}
	walk(0, k, 1)
	return sum
}

func complement(ps []float64) float64 {
	none := 1.0
	for _, p := range ps {
		none *= 1 - p
	}
	return 1 - none
}

// Mean returns the arithmetic mean of ps.
func Mean(ps []float64) (float64, error) {
	if err := validate(ps); err != nil {
		return 0, err
	}
	var sum float64
	for _, p := range ps {
		sum += p
	}
	return sum / float64(len(ps)), nil
}

func validate(ps []float64) error {
	if len(ps) == 0 {
		return fmt.Errorf("%w: no probabilities", ErrInvalidInput)
	}
	for i, p := range ps {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: probability %d is %v, want [0, 1]", ErrInvalidInput, i, p)
		}
	}
	return nil
}
