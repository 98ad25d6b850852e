package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/bubbles/internal/engine"
	"github.com/talgya/bubbles/internal/entropy"
)

type batchOutput struct {
	BaseSeed int64                 `json:"base_seed"`
	Runs     int                   `json:"runs"`
	Summary  []engine.RoundSummary `json:"summary"`
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run independent repetitions and average coalition structure per round",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			runs, _ := cmd.Flags().GetInt("runs")
			parallel, _ := cmd.Flags().GetInt("parallel")

			seed := entropy.Seed(cfg.Simulation.Seed)
			opts, err := cfg.Options(seed)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results, err := engine.RunBatch(ctx, opts, runs, parallel)
			if err != nil {
				return fmt.Errorf("batch: %w", err)
			}
			summary := engine.Summarize(results)

			if jsonOutput(cmd) {
				return writeJSON(cmd, batchOutput{BaseSeed: seed, Runs: runs, Summary: summary})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d runs from seed %d\n", runs, seed)
			fmt.Fprint(out, formatBatch(summary))
			return nil
		},
	}
	addSimulationFlags(cmd)
	cmd.Flags().Int("runs", 10, "Number of independent runs")
	cmd.Flags().Int("parallel", 0, "Concurrent runs (0 = GOMAXPROCS)")
	return cmd
}
