package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/bubbles/internal/engine"
	"github.com/talgya/bubbles/internal/persistence"
)

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatRound renders one round, e.g.
// "1st round  Coalition sizes: ( 3 1 1 )  moves=12 pressure=0.897".
func formatRound(snap engine.Snapshot) string {
	return fmt.Sprintf("%s round  %s  moves=%s pressure=%.3f",
		humanize.Ordinal(snap.Round+1),
		snap.String(),
		humanize.Comma(int64(snap.Stats.Moves)),
		snap.Stats.Conditions.Pressure(),
	)
}

func formatSummary(snaps []engine.Snapshot) string {
	last := snaps[len(snaps)-1]
	total := 0
	for _, s := range snaps {
		total += s.Stats.Moves
	}
	return fmt.Sprintf("Final: %d coalitions, largest %d, %d alone, %s moves in total",
		last.ActiveCount(), last.Largest(), last.Singletons(), humanize.Comma(int64(total)))
}

func formatBatch(summary []engine.RoundSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %12s %10s %10s\n", "round", "coalitions", "mean size", "moves")
	for _, s := range summary {
		fmt.Fprintf(&b, "%-6d %12.2f %10.2f %10.1f\n", s.Round, s.MeanActive, s.MeanSize, s.MeanMoves)
	}
	return b.String()
}

func formatRuns(runs []persistence.Run) string {
	if len(runs) == 0 {
		return "No runs stored.\n"
	}
	var b strings.Builder
	for _, r := range runs {
		fmt.Fprintf(&b, "%s  %s  seed=%d agents=%s rounds=%d %s/%s\n",
			r.ID, r.CreatedAt, r.Seed, humanize.Comma(int64(r.Agents)), r.Rounds,
			r.ExposurePolicy, r.SelectionPolicy)
	}
	return b.String()
}

func formatStoredRound(rd persistence.Round, sizes []int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s round  Coalition sizes: ( ", humanize.Ordinal(rd.Round+1))
	for _, s := range sizes {
		fmt.Fprintf(&b, "%d ", s)
	}
	fmt.Fprintf(&b, ")  moves=%s", humanize.Comma(int64(rd.Moves)))
	return b.String()
}
