package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pthm/scalecheck/internal/estimator"
	"github.com/pthm/scalecheck/internal/history"
	"github.com/pthm/scalecheck/internal/level"
	"github.com/pthm/scalecheck/internal/levelconfig"
	"github.com/pthm/scalecheck/internal/parser"
	"github.com/pthm/scalecheck/internal/reporter"
	"github.com/spf13/cobra"
)

var (
	stories      int
	briefFile    string
	estimateWith string
	outputPath   string
)

// newEstimator is swapped out by tests
var newEstimator = estimator.New

var detectCmd = &cobra.Command{
	Use:   "detect [description...]",
	Short: "Recommend a scale level for a project description",
	Long: `Classify a project description into a scale level.

The description is taken from the arguments or from a brief document
(--file). An optional story estimate sharpens the result; when none is
given, --estimate can ask Claude for one.

Examples:
  scalecheck detect "Fix login page captcha display bug"
  scalecheck detect --stories 8 "Build user comments and ratings module"
  scalecheck detect --file docs/brief.md --format json
  scalecheck detect --estimate api "Design microservices order platform"`,
	RunE:         runDetect,
	SilenceUsage: true,
}

func init() {
	detectCmd.Flags().IntVarP(&stories, "stories", "s", 0, "Estimated number of stories")
	detectCmd.Flags().StringVar(&briefFile, "file", "", "Read the description from a Markdown, YAML or JSON brief")
	detectCmd.Flags().StringVar(&estimateWith, "estimate", "",
		"Ask an LLM for a story estimate when none is given ("+estimator.KindAPI+", "+estimator.KindClaudeCode+")")
	detectCmd.Flags().StringVar(&outputPath, "output", "", "Also write the JSON report to this file")
	RootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	u := GetUI()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	d := reporter.Detection{Description: strings.Join(args, " ")}

	if briefFile != "" {
		if len(args) > 0 {
			return fmt.Errorf("give either a description or --file, not both")
		}
		b, err := parser.ParseBrief(briefFile)
		if err != nil {
			return fmt.Errorf("failed to read brief: %w", err)
		}
		d.Source = briefFile
		d.Name = b.Name
		d.Description = b.Description
		d.EstimatedSize = b.Stories
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("a project description is required")
	}

	if cmd.Flags().Changed("stories") {
		n := stories
		d.EstimatedSize = &n
	}

	if d.EstimatedSize == nil && estimateWith != "" {
		d.EstimatedSize = estimateStories(cmd.Context(), d.Description)
	}

	in := level.Input{Description: d.Description, EstimatedSize: d.EstimatedSize}
	d.Result, err = level.Classify(catalog.Config, in)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if err := recordHistory(catalog, in, d.Result); err != nil {
		u.Warn("%v", err)
	}

	detections := []reporter.Detection{d}
	if outputPath != "" {
		if err := writeJSONReport(outputPath, detections); err != nil {
			return err
		}
		if verbose {
			u.Infof("Wrote report to %s", outputPath)
		}
	}

	return newReporter(cmd.OutOrStdout(), u).Report(detections)
}

// estimateStories asks the configured estimator for a story count. Failures
// are reported as warnings and classification continues without an estimate.
func estimateStories(ctx context.Context, description string) *int {
	u := GetUI()

	opts := estimator.Options{
		APIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Model:  os.Getenv("SCALECHECK_MODEL"),
	}
	est, err := newEstimator(estimateWith, opts)
	if err != nil {
		u.Warn("story estimate skipped: %v", err)
		return nil
	}

	spinner := u.StartSpinner("Estimating story count...")
	n, err := est.Estimate(ctx, description)
	spinner.Stop()
	if err != nil {
		if errors.Is(err, estimator.ErrUnavailable) {
			u.Warn("story estimate skipped: %v", err)
		} else {
			u.Warn("story estimate failed: %v", err)
		}
		return nil
	}

	if verbose {
		u.Infof("Estimated %d stories with %s", n, estimateWith)
	}
	return &n
}

// recordHistory stores a result when a history database is configured
func recordHistory(catalog *levelconfig.Catalog, in level.Input, res *level.Result) error {
	if historyPath == "" {
		return nil
	}

	store, err := history.Open(historyPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if _, err := store.Record(catalog.Source, in, res); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

func writeJSONReport(path string, detections []reporter.Detection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := reporter.NewJSONReporter(f).Report(detections); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}
