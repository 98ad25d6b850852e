// Per-round best-response dynamics.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/bubbles/internal/timeline"
)

// RoundStats summarises the moves made during one round.
type RoundStats struct {
	Round      int                 `json:"round"`
	Conditions timeline.Conditions `json:"conditions"`
	Moves      int                 `json:"moves"`
	SweepMoves []int               `json:"sweep_moves"`
}

// SimulateRound runs the configured number of sweeps at the given round.
// Each sweep reshuffles the visiting order and lets every household, one after
// another, move to its best coalition. Later households see earlier moves
// from the same sweep. The sweep count is fixed; there is no early exit on
// convergence.
func (w *World) SimulateRound(round int) (RoundStats, error) {
	cond, err := w.Schedule.At(round)
	if err != nil {
		return RoundStats{}, fmt.Errorf("round %d: %w", round, err)
	}

	stats := RoundStats{
		Round:      round,
		Conditions: cond,
		SweepMoves: make([]int, 0, w.cfg.Sweeps),
	}

	for sweep := 0; sweep < w.cfg.Sweeps; sweep++ {
		w.rng.Shuffle(len(w.order), func(i, j int) {
			w.order[i], w.order[j] = w.order[j], w.order[i]
		})

		moves := 0
		for _, id := range w.order {
			best, err := w.BestCoalition(id, cond)
			if err != nil {
				return stats, fmt.Errorf("round %d sweep %d: %w", round, sweep, err)
			}
			if best == w.owner[id] {
				continue
			}
			if err := w.MoveTo(id, best); err != nil {
				return stats, fmt.Errorf("round %d sweep %d: %w", round, sweep, err)
			}
			moves++
		}

		stats.SweepMoves = append(stats.SweepMoves, moves)
		stats.Moves += moves
		slog.Debug("sweep complete", "round", round, "sweep", sweep, "moves", moves)
	}

	return stats, nil
}
