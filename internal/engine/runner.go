// Round driver: builds a world and runs it for the configured rounds.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/bubbles/internal/agents"
	"github.com/talgya/bubbles/internal/timeline"
)

// Options gather everything needed to build a runnable simulation.
type Options struct {
	Agents     int
	Rounds     int
	Seed       int64
	World      WorldConfig
	Population agents.PopulationConfig
	Schedule   *timeline.Schedule
}

// DefaultOptions returns the standard 20-household, eight-round setup.
func DefaultOptions() Options {
	return Options{
		Agents:     20,
		Rounds:     8,
		World:      DefaultWorldConfig(),
		Population: agents.DefaultPopulationConfig(),
		Schedule:   timeline.DefaultSchedule(),
	}
}

// validate checks everything that can be checked without spawning a
// population. Schedule must be set.
func (o Options) validate() error {
	if o.Agents < 1 {
		return fmt.Errorf("agents must be at least 1, got %d", o.Agents)
	}
	if o.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", o.Rounds)
	}
	if o.World.Sweeps < 1 {
		return fmt.Errorf("sweeps must be at least 1, got %d", o.World.Sweeps)
	}
	if err := o.Schedule.Covers(o.Rounds); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if err := o.Population.Validate(); err != nil {
		return fmt.Errorf("population: %w", err)
	}
	return nil
}

// Runner drives a world through its rounds.
type Runner struct {
	World  *World
	Rounds int
	Seed   int64

	// OnRound is called after every round with that round's snapshot.
	OnRound func(snap Snapshot)
}

// Build validates opts, spawns the population and returns a ready Runner.
// Configuration problems are reported here, before any round runs.
func Build(opts Options) (*Runner, error) {
	if opts.Schedule == nil {
		opts.Schedule = timeline.DefaultSchedule()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	spawner := agents.NewSpawner(opts.Seed, opts.Population, opts.World.Exposure)
	households, err := spawner.SpawnPopulation(opts.Agents)
	if err != nil {
		return nil, fmt.Errorf("spawn population: %w", err)
	}

	world, err := NewWorld(households, opts.Schedule, opts.World, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("new world: %w", err)
	}

	return &Runner{World: world, Rounds: opts.Rounds, Seed: opts.Seed}, nil
}

// Run simulates rounds 0..Rounds-1 and returns a snapshot per round. The
// context is checked between rounds only.
func (r *Runner) Run(ctx context.Context) ([]Snapshot, error) {
	if err := r.World.Schedule.Covers(r.Rounds); err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	slog.Info("simulation started",
		"households", len(r.World.Households),
		"rounds", r.Rounds,
		"sweeps", r.World.cfg.Sweeps,
		"exposure", r.World.cfg.Exposure.String(),
		"selection", r.World.cfg.Selection.String(),
		"seed", r.Seed,
	)

	snaps := make([]Snapshot, 0, r.Rounds)
	for round := 0; round < r.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return snaps, err
		}

		stats, err := r.World.SimulateRound(round)
		if err != nil {
			return snaps, err
		}
		snap := r.World.Snapshot(stats)
		snaps = append(snaps, snap)

		slog.Info("round report",
			"round", round,
			"active", snap.ActiveCount(),
			"largest", snap.Largest(),
			"singletons", snap.Singletons(),
			"moves", stats.Moves,
			"decay", fmt.Sprintf("%.4f", stats.Conditions.Decay),
			"infection", stats.Conditions.Infection,
		)

		if r.OnRound != nil {
			r.OnRound(snap)
		}
	}

	slog.Info("simulation finished", "rounds", len(snaps))
	return snaps, nil
}
