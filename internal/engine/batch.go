// Monte-Carlo repetition: independent worlds run side by side.
package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/bubbles/internal/timeline"
)

// RunResult is the outcome of one run in a batch.
type RunResult struct {
	Index     int        `json:"index"`
	Seed      int64      `json:"seed"`
	Snapshots []Snapshot `json:"snapshots"`
}

// RoundSummary averages one round across a batch.
type RoundSummary struct {
	Round      int     `json:"round"`
	MeanActive float64 `json:"mean_active"`
	MeanSize   float64 `json:"mean_size"`
	MeanMoves  float64 `json:"mean_moves"`
}

// RunBatch performs runs independent simulations with seeds opts.Seed,
// opts.Seed+1, …. Each run builds its own World; nothing mutable is shared.
// parallelism ≤ 0 means GOMAXPROCS.
func RunBatch(ctx context.Context, opts Options, runs, parallelism int) ([]RunResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", runs)
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	if opts.Schedule == nil {
		opts.Schedule = timeline.DefaultSchedule()
	}

	// A bad config fails before any goroutine starts.
	if err := opts.validate(); err != nil {
		return nil, err
	}

	results := make([]RunResult, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i := 0; i < runs; i++ {
		i := i
		g.Go(func() error {
			o := opts
			o.Seed = opts.Seed + int64(i)
			o.Schedule = opts.Schedule.Clone()

			r, err := Build(o)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			snaps, err := r.Run(ctx)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = RunResult{Index: i, Seed: o.Seed, Snapshots: snaps}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summarize averages each round over all results.
func Summarize(results []RunResult) []RoundSummary {
	if len(results) == 0 {
		return nil
	}
	rounds := len(results[0].Snapshots)
	out := make([]RoundSummary, rounds)
	for round := 0; round < rounds; round++ {
		var active, size, moves float64
		for _, res := range results {
			s := res.Snapshots[round]
			active += float64(s.ActiveCount())
			size += s.MeanSize()
			moves += float64(s.Stats.Moves)
		}
		n := float64(len(results))
		out[round] = RoundSummary{
			Round:      round,
			MeanActive: active / n,
			MeanSize:   size / n,
			MeanMoves:  moves / n,
		}
	}
	return out
}
