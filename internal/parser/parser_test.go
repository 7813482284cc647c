package parser

import (
	"testing"
)

func TestGetFileCategory(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected FileCategory
	}{
		// Catalogs
		{
			name:     "project-levels.yaml",
			path:     "/project/src/modules/bmm/workflows/workflow-status/project-levels.yaml",
			expected: FileCategoryCatalog,
		},
		{
			name:     "project-levels.yml",
			path:     "/project/project-levels.yml",
			expected: FileCategoryCatalog,
		},

		// Agents
		{
			name:     "agent yaml",
			path:     "/project/src/modules/bmm/agents/pm.agent.yaml",
			expected: FileCategoryAgent,
		},

		// Workflows
		{
			name:     "workflow.md",
			path:     "/project/src/modules/bmm/workflows/prd/workflow.md",
			expected: FileCategoryWorkflow,
		},
		{
			name:     "yaml under workflows",
			path:     "/project/src/modules/bmm/workflows/tech-spec/tech-spec.yaml",
			expected: FileCategoryWorkflow,
		},

		// Briefs
		{
			name:     "brief.md",
			path:     "/project/docs/brief.md",
			expected: FileCategoryBrief,
		},
		{
			name:     "product brief",
			path:     "/project/docs/Product-Brief.json",
			expected: FileCategoryBrief,
		},

		// Unknown files
		{
			name:     "random markdown file",
			path:     "/project/notes.md",
			expected: FileCategoryUnknown,
		},
		{
			name:     "markdown under workflows",
			path:     "/project/workflows/readme.md",
			expected: FileCategoryUnknown,
		},
		{
			name:     "source code",
			path:     "/project/src/main.go",
			expected: FileCategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetFileCategory(tt.path)
			if got != tt.expected {
				t.Errorf("GetFileCategory(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestFileCategoryString(t *testing.T) {
	tests := []struct {
		category FileCategory
		expected string
	}{
		{FileCategoryCatalog, "catalog"},
		{FileCategoryBrief, "brief"},
		{FileCategoryWorkflow, "workflow"},
		{FileCategoryAgent, "agent"},
		{FileCategoryUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.category.String(); got != tt.expected {
				t.Errorf("FileCategory.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseFrontmatter(t *testing.T) {
	content := []byte("---\nname: prd\ndescription: Build a dashboard\n---\n# PRD\n")

	fm, rest := ParseFrontmatter(content)
	if fm["name"] != "prd" || fm["description"] != "Build a dashboard" {
		t.Errorf("frontmatter = %v", fm)
	}
	if string(rest) != "# PRD\n" {
		t.Errorf("remaining = %q, want %q", rest, "# PRD\n")
	}

	fm, rest = ParseFrontmatter([]byte("# No frontmatter\n"))
	if fm != nil || string(rest) != "# No frontmatter\n" {
		t.Errorf("ParseFrontmatter(no frontmatter) = %v, %q", fm, rest)
	}
}

func TestMarkdownParser_Sections(t *testing.T) {
	content := []byte("# Brief\n\nIntro line.\n\n## Description\n\nAdd a settings screen.\n\n## Risks\n\nNone.\n")

	pf, err := (&MarkdownParser{}).Parse("brief.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(pf.Sections) != 1 || pf.Sections[0].Title != "Brief" {
		t.Fatalf("Sections = %+v, want one top-level Brief section", pf.Sections)
	}
	subs := pf.Sections[0].Subsections
	if len(subs) != 2 || subs[0].Title != "Description" || subs[1].Title != "Risks" {
		t.Fatalf("Subsections = %+v", subs)
	}
	if pf.Lead != "Intro line." {
		t.Errorf("Lead = %q, want %q", pf.Lead, "Intro line.")
	}
}

func TestPlainParser_Paragraphs(t *testing.T) {
	content := []byte("\nAdd a   settings\nscreen.\n\n\nKeep it small.\n")

	pf, err := (&PlainParser{}).Parse("notes.txt", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pf.Sections) != 2 {
		t.Fatalf("Sections = %+v, want 2 paragraphs", pf.Sections)
	}
	if pf.Sections[0].StartLine != 2 || pf.Sections[0].EndLine != 3 {
		t.Errorf("first paragraph lines = %d-%d, want 2-3", pf.Sections[0].StartLine, pf.Sections[0].EndLine)
	}
	if pf.Sections[1].StartLine != 6 {
		t.Errorf("second paragraph starts at %d, want 6", pf.Sections[1].StartLine)
	}
	if pf.Lead != "Add a settings screen." {
		t.Errorf("Lead = %q", pf.Lead)
	}
	if got := pf.Text(); got != "Add a   settings\nscreen.\n\nKeep it small." {
		t.Errorf("Text() = %q", got)
	}
}

func TestMarkdownParser_SectionBoundaries(t *testing.T) {
	content := []byte("# A\n\n## Description\n\nFix the bug.\n\n# B\n\nOther text.\n")

	pf, err := (&MarkdownParser{}).Parse("brief.md", content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pf.Sections) != 2 {
		t.Fatalf("Sections = %+v, want A and B", pf.Sections)
	}

	desc := pf.Sections[0].Subsections[0]
	if desc.Content != "## Description\n\nFix the bug.\n" {
		t.Errorf("Description content = %q", desc.Content)
	}
	if desc.StartLine != 3 || desc.EndLine != 6 {
		t.Errorf("Description lines = %d-%d, want 3-6", desc.StartLine, desc.EndLine)
	}
	if pf.Sections[1].Content != "# B\n\nOther text.\n" {
		t.Errorf("B content = %q", pf.Sections[1].Content)
	}
}
