package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pthm/scalecheck/internal/levelconfig"
	"github.com/pthm/scalecheck/internal/reporter"
	"github.com/pthm/scalecheck/internal/ui"
	"github.com/pthm/scalecheck/internal/version"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	format      string
	module      string
	configPath  string
	historyPath string

	globalUI *ui.UI
)

var RootCmd = &cobra.Command{
	Use:     "scalecheck",
	Version: version.Short(),
	Short:   "Recommend a project scale level from a description",
	Long:    `scalecheck classifies a free-text project description, plus an optional
story estimate, into one of the scale levels of a level catalog.

Each level carries process guidance: the documentation to write, whether an
architecture phase is needed and how many stories to expect. Keyword hints
and story-count ranges from the catalog are scored against the description;
the best-scoring level is recommended together with a confidence and the
evidence behind it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyEnv(cmd)
		if format != "terminal" && format != "json" {
			return fmt.Errorf("invalid format %q (want terminal or json)", format)
		}
		globalUI = ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), format)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	RootCmd.PersistentFlags().StringVarP(&format, "format", "f", "terminal", "Output format (terminal, json)")
	RootCmd.PersistentFlags().StringVarP(&module, "module", "m", levelconfig.DefaultModule,
		"Built-in level catalog ("+strings.Join(levelconfig.Available(), ", ")+")")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Level catalog file (overrides --module)")
	RootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "SQLite file to record detections in")
}

// applyEnv fills flags the user did not set from the environment
func applyEnv(cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("config") {
		envOverride(&configPath, "SCALECHECK_CONFIG")
	}
	if !flags.Changed("module") {
		envOverride(&module, "SCALECHECK_MODULE")
	}
	if !flags.Changed("history") {
		envOverride(&historyPath, "SCALECHECK_HISTORY")
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

// GetUI returns the UI configured for the running command
func GetUI() *ui.UI {
	if globalUI == nil {
		globalUI = ui.New(os.Stdout, os.Stderr, format)
	}
	return globalUI
}

// loadCatalog resolves the active level catalog and prints its warnings
func loadCatalog() (*levelconfig.Catalog, error) {
	catalog, err := levelconfig.Resolve(configPath, module)
	if err != nil {
		return nil, fmt.Errorf("failed to load level catalog: %w", err)
	}

	u := GetUI()
	for _, w := range catalog.Warnings {
		u.Warn("%s: %s", catalog.Source, w)
	}
	if verbose {
		u.Infof("Using level catalog %s (%d levels)", catalog.Source, len(catalog.Config.Levels))
	}
	return catalog, nil
}

func newReporter(w io.Writer, u *ui.UI) reporter.Reporter {
	if u.IsJSON() {
		return reporter.NewJSONReporter(w)
	}
	return reporter.NewTerminalReporter(w, u, verbose)
}
