// Command bubblesim simulates households forming and leaving social bubbles
// under a time-varying infection risk.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/bubbles/internal/config"
	"github.com/talgya/bubbles/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bubblesim",
		Short: "Coalition-formation model of social distancing",
		Long: `bubblesim runs best-response dynamics over a population of households.

Each round, households repeatedly move to the coalition (social bubble) that
pays them most, trading social benefit against the combined infection
exposure of the group at that round's infection level.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newBatchCmd(),
		newHistoryCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput(cmd) {
				writeJSON(cmd, map[string]string{"version": version})
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bubblesim version %s\n", version)
		},
	}
}

// addSimulationFlags registers the flags shared by run and batch.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("seed", 0, "Random seed (0 = random)")
	cmd.Flags().Int("agents", 0, "Number of households")
	cmd.Flags().Int("rounds", 0, "Number of rounds")
	cmd.Flags().Int("sweeps", 0, "Best-response sweeps per round")
	cmd.Flags().String("exposure", "", "Exposure combination: exact or mean")
	cmd.Flags().String("selection", "", "Coalition selection: strict or threshold")
	cmd.Flags().String("generator", "", "Infection rates: table or noise")
	cmd.Flags().String("db", "", "SQLite path for run history")
}

// loadConfig resolves defaults, the config file, BUBBLES_* variables and
// finally explicitly set flags, validates the result and installs the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("agents") {
		cfg.Simulation.Agents, _ = flags.GetInt("agents")
	}
	if flags.Changed("rounds") {
		cfg.Simulation.Rounds, _ = flags.GetInt("rounds")
	}
	if flags.Changed("sweeps") {
		cfg.Simulation.Sweeps, _ = flags.GetInt("sweeps")
	}
	if flags.Changed("exposure") {
		cfg.Simulation.ExposurePolicy, _ = flags.GetString("exposure")
	}
	if flags.Changed("selection") {
		cfg.Simulation.SelectionPolicy, _ = flags.GetString("selection")
	}
	if flags.Changed("generator") {
		cfg.Timeline.Generator, _ = flags.GetString("generator")
	}
	if flags.Changed("db") {
		cfg.Storage.Path, _ = flags.GetString("db")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.SetDefault(logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()))
	return cfg, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
