package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/bubbles/internal/engine"
	"github.com/talgya/bubbles/internal/entropy"
	"github.com/talgya/bubbles/internal/persistence"
)

type runOutput struct {
	Seed      int64             `json:"seed"`
	RunID     string            `json:"run_id,omitempty"`
	Snapshots []engine.Snapshot `json:"snapshots"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation and print coalition sizes after every round",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			seed := entropy.Seed(cfg.Simulation.Seed)
			opts, err := cfg.Options(seed)
			if err != nil {
				return err
			}

			runner, err := engine.Build(opts)
			if err != nil {
				return fmt.Errorf("build simulation: %w", err)
			}

			jsonOut := jsonOutput(cmd)
			out := cmd.OutOrStdout()
			if !jsonOut {
				fmt.Fprintf(out, "Seed %d: %d households, %d rounds of %d sweeps\n",
					seed, opts.Agents, opts.Rounds, opts.World.Sweeps)
				runner.OnRound = func(snap engine.Snapshot) {
					fmt.Fprintln(out, formatRound(snap))
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			snaps, err := runner.Run(ctx)
			if err != nil {
				return fmt.Errorf("simulation: %w", err)
			}

			var runID string
			if cfg.Storage.Path != "" {
				runID, err = saveRun(cfg.Storage.Path, opts, cfg, runner, snaps)
				if err != nil {
					return err
				}
			}

			if jsonOut {
				return writeJSON(cmd, runOutput{Seed: seed, RunID: runID, Snapshots: snaps})
			}
			if len(snaps) > 0 {
				fmt.Fprintln(out, formatSummary(snaps))
			}
			if runID != "" {
				fmt.Fprintf(out, "Saved as run %s\n", runID)
			}
			return nil
		},
	}
	addSimulationFlags(cmd)
	return cmd
}

func saveRun(path string, opts engine.Options, settings any, runner *engine.Runner, snaps []engine.Snapshot) (string, error) {
	db, err := persistence.Open(path)
	if err != nil {
		return "", err
	}
	defer db.Close()
	slog.Debug("database opened", "path", path)

	id, err := db.SaveRun(opts, settings, runner.World.Households, snaps)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return id, nil
}
