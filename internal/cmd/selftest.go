package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pthm/scalecheck/internal/level"
	"github.com/pthm/scalecheck/internal/levelconfig"
	"github.com/spf13/cobra"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the catalog's built-in classification cases",
	Long: `Classify the sample descriptions shipped with the active level catalog and
compare each recommendation with its expected level.

Exits non-zero when any case recommends a different level.

Examples:
  scalecheck selftest
  scalecheck selftest --module bmgd`,
	Args:         cobra.NoArgs,
	RunE:         runSelftest,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(selftestCmd)
}

// caseResult is the outcome of one built-in case
type caseResult struct {
	Description   string  `json:"description"`
	Stories       *int    `json:"stories,omitempty"`
	ExpectedLevel int     `json:"expected_level"`
	Level         int     `json:"level"`
	Confidence    float64 `json:"confidence"`
	Passed        bool    `json:"passed"`
	Error         string  `json:"error,omitempty"`
}

func runSelftest(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	if len(catalog.Cases) == 0 {
		return fmt.Errorf("level catalog %s has no test cases", catalog.Source)
	}

	results := runCases(catalog)

	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}

	w := cmd.OutOrStdout()
	if GetUI().IsJSON() {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		printCaseResults(w, catalog.Source, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(results))
	}
	return nil
}

func runCases(catalog *levelconfig.Catalog) []caseResult {
	results := make([]caseResult, 0, len(catalog.Cases))
	for _, tc := range catalog.Cases {
		r := caseResult{
			Description:   tc.Description,
			Stories:       tc.Stories,
			ExpectedLevel: tc.ExpectedLevel,
		}

		res, err := level.Classify(catalog.Config, level.Input{
			Description:   tc.Description,
			EstimatedSize: tc.Stories,
		})
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Level = res.RecommendedLevel
			r.Confidence = res.Confidence
			r.Passed = res.RecommendedLevel == tc.ExpectedLevel
		}
		results = append(results, r)
	}
	return results
}

func printCaseResults(w io.Writer, source string, results []caseResult) {
	color.New(color.FgCyan).Fprintf(w, "Level catalog self-test: %s\n", source)
	color.New(color.FgCyan).Fprintln(w, "================================")
	fmt.Fprintln(w)

	passed := 0
	for i, r := range results {
		stories := "none"
		if r.Stories != nil {
			stories = fmt.Sprintf("%d", *r.Stories)
		}

		switch {
		case r.Error != "":
			color.New(color.FgRed).Fprintf(w, "✗ case %d: %s\n", i+1, r.Error)
		case r.Passed:
			passed++
			color.New(color.FgGreen).Fprintf(w, "✓ case %d: level %d (confidence %.0f%%)\n",
				i+1, r.Level, r.Confidence*100)
		default:
			color.New(color.FgRed).Fprintf(w, "✗ case %d: level %d, expected %d (confidence %.0f%%)\n",
				i+1, r.Level, r.ExpectedLevel, r.Confidence*100)
		}
		color.New(color.FgHiBlack).Fprintf(w, "    %q, stories: %s\n", r.Description, stories)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "─────────────────────────────────────")
	summary := fmt.Sprintf("%d/%d cases passed", passed, len(results))
	if passed == len(results) {
		fmt.Fprintln(w, color.GreenString(summary))
	} else {
		fmt.Fprintln(w, color.RedString(summary))
	}
}
