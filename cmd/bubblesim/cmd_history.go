package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/bubbles/internal/persistence"
)

type historyOutput struct {
	Run    persistence.Run     `json:"run"`
	Rounds []persistence.Round `json:"rounds"`
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs, or show one run's rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Storage.Path == "" {
				return fmt.Errorf("no database configured (use --db or storage.path)")
			}
			runID, _ := cmd.Flags().GetString("run")
			limit, _ := cmd.Flags().GetInt("limit")

			db, err := persistence.Open(cfg.Storage.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			if runID == "" {
				runs, err := db.RecentRuns(limit)
				if err != nil {
					return fmt.Errorf("list runs: %w", err)
				}
				if jsonOutput(cmd) {
					return writeJSON(cmd, runs)
				}
				fmt.Fprint(cmd.OutOrStdout(), formatRuns(runs))
				return nil
			}

			run, err := db.GetRun(runID)
			if err != nil {
				return fmt.Errorf("get run %s: %w", runID, err)
			}
			rounds, err := db.Rounds(runID)
			if err != nil {
				return fmt.Errorf("load rounds: %w", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd, historyOutput{Run: run, Rounds: rounds})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s (seed %d, %s/%s)\n", run.ID, run.Seed, run.ExposurePolicy, run.SelectionPolicy)
			for _, rd := range rounds {
				sizes, err := db.CoalitionSizes(runID, rd.Round)
				if err != nil {
					return fmt.Errorf("load sizes: %w", err)
				}
				fmt.Fprintln(out, formatStoredRound(rd, sizes))
			}
			return nil
		},
	}
	cmd.Flags().String("db", "", "SQLite path for run history")
	cmd.Flags().String("run", "", "Run ID to show")
	cmd.Flags().Int("limit", 20, "Number of runs to list")
	return cmd
}
