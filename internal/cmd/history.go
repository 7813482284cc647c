package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pthm/scalecheck/internal/history"
	"github.com/spf13/cobra"
)

var (
	historyStats bool
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded detections",
	Long: `List detections recorded with --history (or SCALECHECK_HISTORY), newest
first, or count them per level with --stats.

Examples:
  scalecheck --history ~/.scalecheck.db history
  SCALECHECK_HISTORY=levels.db scalecheck history --stats`,
	Args:         cobra.NoArgs,
	RunE:         runHistory,
	SilenceUsage: true,
}

func init() {
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Show the number of detections per level")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of detections to list (0 for all)")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyPath == "" {
		return fmt.Errorf("no history database: set --history or SCALECHECK_HISTORY")
	}

	store, err := history.Open(historyPath)
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	jsonOut := GetUI().IsJSON()

	if historyStats {
		stats, err := store.Stats()
		if err != nil {
			return err
		}
		if jsonOut {
			return encodeJSON(w, stats)
		}
		printStats(w, stats)
		return nil
	}

	entries, err := store.List(historyLimit)
	if err != nil {
		return err
	}
	if jsonOut {
		return encodeJSON(w, entries)
	}
	printEntries(w, entries)
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printEntries(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No detections recorded")
		return
	}

	for _, e := range entries {
		stories := "-"
		if e.EstimatedSize != nil {
			stories = fmt.Sprintf("%d", *e.EstimatedSize)
		}
		fallback := ""
		if e.Fallback {
			fallback = color.YellowString(" (fallback)")
		}

		color.New(color.FgHiBlack).Fprintf(w, "%s  %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Module)
		fmt.Fprintf(w, "  Level %d  confidence %.0f%%  stories %s%s\n", e.Level, e.Confidence*100, stories, fallback)
		fmt.Fprintf(w, "  %s\n", e.Description)
	}
}

func printStats(w io.Writer, stats []history.LevelCount) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No detections recorded")
		return
	}

	total := 0
	for _, s := range stats {
		total += s.Count
	}

	color.New(color.FgCyan).Fprintln(w, "Detections by level")
	for _, s := range stats {
		fmt.Fprintf(w, "  Level %d: %d (%.0f%%)\n", s.Level, s.Count, float64(s.Count)*100/float64(total))
	}
	fmt.Fprintf(w, "  Total:   %d\n", total)
}
