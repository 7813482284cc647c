package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pthm/scalecheck/internal/level"
	"github.com/pthm/scalecheck/internal/levelconfig"
	"github.com/pthm/scalecheck/internal/reporter"
	"github.com/pthm/scalecheck/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Classify descriptions one after another",
	Long: `Prompt for project descriptions and optional story estimates, printing a
recommendation for each. Type "exit" to quit.

On a terminal this runs a full-screen prompt; when input is piped it reads
one description line followed by one story-count line per entry.`,
	Args:         cobra.NoArgs,
	RunE:         runInteractive,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	u := GetUI()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	detect := detectFunc(catalog, u)

	if u.IsInteractive() && stdinIsTerminal(cmd.InOrStdin()) {
		return u.RunPrompt(detect)
	}
	return promptLoop(cmd.InOrStdin(), cmd.OutOrStdout(), detect)
}

// detectFunc classifies one entry and renders it in the active format
func detectFunc(catalog *levelconfig.Catalog, u *ui.UI) ui.DetectFunc {
	return func(description string, stories *int) (string, error) {
		in := level.Input{Description: description, EstimatedSize: stories}
		res, err := level.Classify(catalog.Config, in)
		if err != nil {
			return "", err
		}
		if err := recordHistory(catalog, in, res); err != nil {
			u.Warn("%v", err)
		}

		d := reporter.Detection{Description: description, EstimatedSize: stories, Result: res}
		if u.IsJSON() {
			var buf bytes.Buffer
			if err := reporter.NewJSONReporter(&buf).Report([]reporter.Detection{d}); err != nil {
				return "", err
			}
			return strings.TrimRight(buf.String(), "\n"), nil
		}
		return reporter.NewTerminalReporter(io.Discard, u, verbose).FormatResult(res), nil
	}
}

// promptLoop is the line-based prompt used when stdin is not a terminal.
// Errors are printed and the loop continues; it ends on "exit" or EOF.
func promptLoop(r io.Reader, w io.Writer, detect ui.DetectFunc) error {
	scanner := bufio.NewScanner(r)
	u := GetUI()

	for {
		fmt.Fprint(w, "Description: ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}
		description := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(description, "exit") {
			return nil
		}
		if description == "" {
			continue
		}

		fmt.Fprint(w, "Estimated stories (optional): ")
		storiesLine := ""
		if scanner.Scan() {
			storiesLine = scanner.Text()
		}
		estimate, err := ui.ParseStoriesInput(storiesLine)
		if err != nil {
			fmt.Fprintln(w)
			fmt.Fprintln(w, u.Styles.Error.Render(fmt.Sprintf("%s %v", u.Styles.IconError, err)))
			continue
		}

		out, err := detect(description, estimate)
		fmt.Fprintln(w)
		if err != nil {
			fmt.Fprintln(w, u.Styles.Error.Render(fmt.Sprintf("%s %v", u.Styles.IconError, err)))
			continue
		}
		fmt.Fprintln(w, out)
		fmt.Fprintln(w, u.Styles.Separator.Render(strings.Repeat("─", 60)))
	}
}

func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
