// Procedural infection curves from layered simplex noise.
package timeline

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseConfig shapes a generated infection-rate table.
type NoiseConfig struct {
	Seed      int64
	Rounds    int
	Base      float64 // Multiplier around which the curve wanders
	Amplitude float64 // Peak deviation from Base
}

// DefaultNoiseConfig returns a curve roughly in the range of the default table.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Rounds:    8,
		Base:      1.5,
		Amplitude: 1.0,
	}
}

// NoiseRates generates a smooth per-round infection table. The same seed
// always yields the same table. Values never drop below zero.
func NoiseRates(cfg NoiseConfig) []float64 {
	noise := opensimplex.NewNormalized(cfg.Seed)

	rates := make([]float64, cfg.Rounds)
	for i := range rates {
		// Normalized noise is in [0, 1); recentre to [-1, 1).
		n := octaveNoise(noise, float64(i), 3, 0.35, 0.5)*2 - 1
		r := cfg.Base + n*cfg.Amplitude
		if r < 0 {
			r = 0
		}
		rates[i] = r
	}
	return rates
}

func octaveNoise(noise opensimplex.Noise, x float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, 0) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
