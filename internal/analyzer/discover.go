// Package analyzer finds project briefs in a directory tree.
package analyzer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pthm/scalecheck/internal/parser"
)

// skipDirs are directory names never descended into
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
}

// Candidate is a file that may describe a project
type Candidate struct {
	Path     string
	Category parser.FileCategory
}

// Discover walks root and returns every file that may carry a project
// description, sorted by path. Workflow and brief documents always qualify;
// other markdown files qualify only when they declare a frontmatter
// description, which is checked later by Brief.
func Discover(root string) ([]Candidate, error) {
	var candidates []Candidate

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		category := parser.GetFileCategory(path)
		switch category {
		case parser.FileCategoryBrief, parser.FileCategoryWorkflow:
			candidates = append(candidates, Candidate{Path: path, Category: category})
		case parser.FileCategoryUnknown:
			if parser.GetFileType(path) == parser.FileTypeMarkdown {
				candidates = append(candidates, Candidate{Path: path, Category: category})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Path < candidates[j].Path
	})
	return candidates, nil
}

// Brief parses the candidate and extracts its brief. It returns an error
// wrapping parser.ErrNoDescription when the file carries no description.
func (c Candidate) Brief() (*parser.Brief, error) {
	if c.Category != parser.FileCategoryUnknown {
		return parser.ParseBrief(c.Path)
	}

	// Plain markdown only counts when it opts in through frontmatter
	pf, err := parser.Parse(c.Path)
	if err != nil {
		return nil, err
	}
	if _, ok := pf.Frontmatter["description"]; !ok {
		return nil, fmt.Errorf("%s: %w", c.Path, parser.ErrNoDescription)
	}
	b, ok := parser.ExtractBrief(pf)
	if !ok {
		return nil, fmt.Errorf("%s: %w", c.Path, parser.ErrNoDescription)
	}
	return b, nil
}
