package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pthm/scalecheck/internal/level"
	"github.com/pthm/scalecheck/internal/levelconfig"
	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the active level catalog and its detection hints",
	Long: `Print every level of the active catalog with its process guidance,
keyword hints and story-count range.

Examples:
  scalecheck levels
  scalecheck levels --module bmgd
  scalecheck levels --config project-levels.yaml --format json`,
	Args:         cobra.NoArgs,
	RunE:         runLevels,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(levelsCmd)
}

// levelInfo is the JSON rendering of one catalog level
type levelInfo struct {
	level.Level
	Keywords  []string     `json:"keywords"`
	SizeRange *level.Range `json:"size_range,omitempty"`
}

type catalogInfo struct {
	Source        string      `json:"source"`
	Name          string      `json:"name"`
	FallbackLevel int         `json:"fallback_level"`
	Levels        []levelInfo `json:"levels"`
	Warnings      []string    `json:"warnings,omitempty"`
}

func runLevels(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	info, err := describeCatalog(catalog)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if GetUI().IsJSON() {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}

	printCatalog(w, info)
	return nil
}

func describeCatalog(catalog *levelconfig.Catalog) (catalogInfo, error) {
	cfg := catalog.Config
	fallback, err := cfg.Fallback()
	if err != nil {
		return catalogInfo{}, err
	}

	info := catalogInfo{
		Source:        catalog.Source,
		Name:          cfg.Name,
		FallbackLevel: fallback,
		Levels:        make([]levelInfo, 0, len(cfg.Levels)),
		Warnings:      catalog.Warnings,
	}
	for _, l := range cfg.Levels {
		li := levelInfo{Level: l, Keywords: cfg.Hints.Keywords[l.ID]}
		if li.Keywords == nil {
			li.Keywords = []string{}
		}
		if r, ok := cfg.Hints.SizeRanges[l.ID]; ok {
			li.SizeRange = &r
		}
		info.Levels = append(info.Levels, li)
	}
	return info, nil
}

func printCatalog(w io.Writer, info catalogInfo) {
	color.New(color.FgCyan).Fprintf(w, "Level catalog: %s\n", info.Name)
	color.New(color.FgCyan).Fprintln(w, "================================")
	fmt.Fprintf(w, "Source:   %s\n", info.Source)
	fmt.Fprintf(w, "Fallback: level %d\n", info.FallbackLevel)

	for _, l := range info.Levels {
		fmt.Fprintln(w)
		color.New(color.FgYellow).Fprintf(w, "Level %d: %s\n", l.ID, l.Title)
		if l.Description != "" {
			fmt.Fprintf(w, "  %s\n", l.Description)
		}
		fmt.Fprintf(w, "  Stories:       %s\n", l.Stories)
		if l.Documentation != "" {
			fmt.Fprintf(w, "  Documentation: %s\n", l.Documentation)
		}
		fmt.Fprintf(w, "  Architecture:  %t\n", l.Architecture)

		keywords := "none"
		if len(l.Keywords) > 0 {
			keywords = strings.Join(l.Keywords, ", ")
		}
		fmt.Fprintf(w, "  Keywords:      %s\n", keywords)

		sizeRange := "none"
		if l.SizeRange != nil {
			sizeRange = l.SizeRange.String()
		}
		fmt.Fprintf(w, "  Size range:    %s\n", sizeRange)
	}

	if len(info.Warnings) > 0 {
		fmt.Fprintln(w)
		color.New(color.FgYellow).Fprintln(w, "Warnings:")
		for _, warning := range info.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}
}
