package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/pthm/scalecheck/internal/level"
	"github.com/pthm/scalecheck/internal/ui"
)

// TerminalReporter outputs results to the terminal with colors
type TerminalReporter struct {
	w       io.Writer
	styles  *ui.Styles
	verbose bool
}

// NewTerminalReporter creates a new terminal reporter. Verbose adds the
// per-level score breakdown to every detection.
func NewTerminalReporter(w io.Writer, u *ui.UI, verbose bool) *TerminalReporter {
	styles := ui.NewStyles(false)
	if u != nil {
		styles = u.Styles
	}
	return &TerminalReporter{w: w, styles: styles, verbose: verbose}
}

// Report outputs detections to the terminal. A single detection is printed
// on its own; several are printed one after another followed by a summary.
// It returns an error when any description could not be classified.
func (r *TerminalReporter) Report(detections []Detection) error {
	if len(detections) == 0 {
		fmt.Fprintln(r.w, r.styles.Warning.Render(
			fmt.Sprintf("%s No project descriptions found", r.styles.IconWarning)))
		return nil
	}

	multi := len(detections) > 1
	for i, d := range detections {
		if i > 0 {
			fmt.Fprintln(r.w)
		}
		if multi {
			r.printSource(d)
		}
		if d.Err != nil {
			fmt.Fprintln(r.w, r.styles.Error.Render(fmt.Sprintf("%s %v", r.styles.IconError, d.Err)))
			continue
		}
		r.printResult(d.Result)
	}

	summary := ComputeSummary(detections)
	if multi {
		r.printSummary(summary)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d descriptions could not be classified", summary.Failed, summary.Total)
	}
	return nil
}

func (r *TerminalReporter) printSource(d Detection) {
	title := d.Name
	if title == "" {
		title = d.Source
	}
	fmt.Fprintln(r.w, r.styles.Header.Render(title))
	if d.Source != "" && d.Source != title {
		fmt.Fprintln(r.w, r.styles.Path.Render("  "+d.Source))
	}
}

// FormatResult renders a single result the way the terminal reporter does
func (r *TerminalReporter) FormatResult(res *level.Result) string {
	var sb strings.Builder
	buf := *r
	buf.w = &sb
	buf.printResult(res)
	return strings.TrimRight(sb.String(), "\n")
}

func (r *TerminalReporter) printResult(res *level.Result) {
	s := r.styles
	info := res.Level

	fmt.Fprintln(r.w, s.Level.Render(fmt.Sprintf("Level %d: %s", res.RecommendedLevel, info.Title)))
	if info.Description != "" {
		fmt.Fprintf(r.w, "  %s\n", info.Description)
	}

	r.printField("Stories", info.Stories)
	if info.Documentation != "" {
		r.printField("Documentation", info.Documentation)
	}
	arch := "not required"
	if info.Architecture {
		arch = "required"
	}
	r.printField("Architecture", arch)
	r.printField("Confidence", s.Confidence(res.Confidence).Render(fmt.Sprintf("%.0f%%", res.Confidence*100)))

	if res.Fallback {
		fmt.Fprintf(r.w, "  %s\n", s.Warning.Render(fmt.Sprintf(
			"%s No keyword or size signal matched; using default level %d",
			s.IconWarning, res.RecommendedLevel)))
	}

	if len(res.Reasoning) > 0 {
		fmt.Fprintf(r.w, "  %s\n", s.Label.Render("Reasoning:"))
		for _, reason := range res.Reasoning {
			fmt.Fprintf(r.w, "    %s %s\n", s.IconBullet, reason)
		}
	}

	if r.verbose {
		r.printScores(res)
	}
}

func (r *TerminalReporter) printField(label, value string) {
	fmt.Fprintf(r.w, "  %s %s\n", r.styles.Label.Render(fmt.Sprintf("%-14s", label+":")), value)
}

func (r *TerminalReporter) printScores(res *level.Result) {
	fmt.Fprintf(r.w, "  %s\n", r.styles.Label.Render("Scores:"))
	for _, sc := range res.Scores {
		size := "-"
		if sc.Size != nil {
			size = "no"
			if *sc.Size {
				size = "yes"
			}
		}
		line := fmt.Sprintf("    Level %d  keywords %d  size %-3s  score %.2f", sc.Level, sc.Keyword, size, sc.Final)
		if sc.Level == res.RecommendedLevel {
			line = r.styles.Success.Render(line)
		}
		fmt.Fprintln(r.w, line)
	}
}

func (r *TerminalReporter) printSummary(summary Summary) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.styles.Separator.Render("─────────────────────────────────────"))

	parts := []string{}
	for _, id := range summary.Levels() {
		parts = append(parts, fmt.Sprintf("level %d: %d", id, summary.ByLevel[id]))
	}
	if summary.Fallbacks > 0 {
		parts = append(parts, r.styles.Warning.Render(fmt.Sprintf("%d fallback", summary.Fallbacks)))
	}
	if summary.Failed > 0 {
		parts = append(parts, r.styles.Error.Render(fmt.Sprintf("%d failed", summary.Failed)))
	}

	fmt.Fprintf(r.w, "Classified %d of %d descriptions", summary.Classified, summary.Total)
	if len(parts) > 0 {
		fmt.Fprintf(r.w, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(r.w)
	if summary.Classified > 0 {
		fmt.Fprintf(r.w, "Average confidence: %.0f%%\n", summary.AverageConfidence*100)
	}
}
