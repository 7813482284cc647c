package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pthm/scalecheck/internal/analyzer"
	"github.com/pthm/scalecheck/internal/level"
	"github.com/pthm/scalecheck/internal/reporter"
	"github.com/pthm/scalecheck/internal/ui"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Classify every project brief in a directory",
	Long: `Walk a directory for project briefs and classify each one.

Workflow documents, files named as briefs and markdown files with a
"description" in their frontmatter are read; an "estimated_stories" field
is used as the story estimate. The report ends with per-level counts.

Examples:
  scalecheck scan .
  scalecheck scan --format json docs > levels.json`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runScan,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	u := GetUI()

	progress := u.StartProgress()
	defer func() {
		progress.Done()
	}()

	// Stage 1: Load level catalog
	progress.SetStage(ui.StageLoadConfig)
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	// Stage 2: Find briefs
	progress.SetStage(ui.StageDiscover)
	progress.SetOperation(fmt.Sprintf("Searching %s...", path))
	candidates, err := analyzer.Discover(absPath)
	if err != nil {
		return err
	}

	// Stage 3: Classify
	progress.SetStage(ui.StageClassify)
	progress.SetFileCount(len(candidates))

	var outcomes []analyzer.Outcome
	var detections []reporter.Detection
	for _, c := range candidates {
		rel, err := filepath.Rel(absPath, c.Path)
		if err != nil {
			rel = c.Path
		}
		progress.FileStart(rel)

		b, err := c.Brief()
		o := analyzer.Outcome{Candidate: c, Brief: b, Err: err}
		outcomes = append(outcomes, o)

		if o.Skipped() {
			progress.FileDone(-1, false)
			continue
		}
		d := reporter.Detection{Source: rel}
		if err != nil {
			d.Err = err
			detections = append(detections, d)
			progress.FileDone(-1, true)
			continue
		}

		d.Name = b.Name
		d.Description = b.Description
		d.EstimatedSize = b.Stories
		in := level.Input{Description: b.Description, EstimatedSize: b.Stories}
		d.Result, d.Err = level.Classify(catalog.Config, in)
		if d.Err != nil {
			progress.FileDone(-1, true)
		} else {
			progress.FileDone(d.Result.RecommendedLevel, false)
			if err := recordHistory(catalog, in, d.Result); err != nil {
				u.Warn("%v", err)
			}
		}
		detections = append(detections, d)
	}

	// Stop progress before reporting
	progress.Done()
	progress = nil

	if verbose {
		printScanMetrics(analyzer.ComputeMetrics(outcomes))
	}

	return newReporter(cmd.OutOrStdout(), u).Report(detections)
}

func printScanMetrics(m *analyzer.Metrics) {
	u := GetUI()
	u.Infof("Scanned %d files: %d briefs, %d without description, %d unreadable",
		m.TotalFiles, m.Briefs, m.Skipped, m.Failed)

	categories := make([]string, 0, len(m.FilesByCategory))
	for c := range m.FilesByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		u.Infof("  %s: %d", c, m.FilesByCategory[c])
	}
}
