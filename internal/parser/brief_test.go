package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", name, err)
	}
	return path
}

func TestParseBrief(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name        string
		file        string
		content     string
		wantName    string
		wantDesc    string
		wantStories int // -1 for none
	}{
		{
			name: "markdown frontmatter",
			file: "workflows/prd/workflow.md",
			content: `---
description: Build an admin dashboard
estimated_stories: 8
---
# PRD workflow

Some other text.
`,
			wantName:    "prd",
			wantDesc:    "Build an admin dashboard",
			wantStories: 8,
		},
		{
			name: "markdown description section",
			file: "brief.md",
			content: `# Checkout

Background first.

## Description

Fix the coupon
rounding bug.

## Notes

Ignored.
`,
			wantName:    ".",
			wantDesc:    "Fix the coupon rounding bug.",
			wantStories: -1,
		},
		{
			name: "markdown lead paragraph",
			file: "idea.md",
			content: `# Idea

Add avatar upload to the profile page.
`,
			wantName:    "idea",
			wantDesc:    "Add avatar upload to the profile page.",
			wantStories: -1,
		},
		{
			name: "yaml workflow",
			file: "workflows/tech-spec/tech-spec.yaml",
			content: `name: tech-spec
description: "Design microservices platform"
stories: "25"
`,
			wantName:    "tech-spec",
			wantDesc:    "Design microservices platform",
			wantStories: 25,
		},
		{
			name:        "json brief",
			file:        "brief.json",
			content:     `{"description": "Build enterprise ecosystem", "story_count": 80}`,
			wantName:    ".",
			wantDesc:    "Build enterprise ecosystem",
			wantStories: 80,
		},
		{
			name:        "plain text",
			file:        "notes.txt",
			content:     "  Quick typo   fix \n",
			wantName:    "notes",
			wantDesc:    "Quick typo fix",
			wantStories: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tmpDir, tt.file, tt.content)

			b, err := ParseBrief(path)
			if err != nil {
				t.Fatalf("ParseBrief() error = %v", err)
			}
			if b.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", b.Description, tt.wantDesc)
			}
			if tt.wantName != "." && b.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", b.Name, tt.wantName)
			}
			switch {
			case tt.wantStories < 0 && b.Stories != nil:
				t.Errorf("Stories = %d, want none", *b.Stories)
			case tt.wantStories >= 0 && (b.Stories == nil || *b.Stories != tt.wantStories):
				t.Errorf("Stories = %v, want %d", b.Stories, tt.wantStories)
			}
		})
	}
}

func TestParseBrief_NoDescription(t *testing.T) {
	tmpDir := t.TempDir()

	path := writeFile(t, tmpDir, "empty.yaml", "name: nothing\n")
	if _, err := ParseBrief(path); !errors.Is(err, ErrNoDescription) {
		t.Errorf("ParseBrief() error = %v, want ErrNoDescription", err)
	}

	path = writeFile(t, tmpDir, "headings.md", "# Only\n## Headings\n")
	if _, err := ParseBrief(path); err == nil {
		t.Error("ParseBrief() = nil error for markdown without text")
	}
}

func TestExtractBrief_IgnoresNegativeStories(t *testing.T) {
	pf := &ParsedFile{
		Path:     "x.yaml",
		FileType: FileTypeYAML,
		Data:     map[string]interface{}{"description": "add a module", "stories": -3},
	}

	b, ok := ExtractBrief(pf)
	if !ok {
		t.Fatal("ExtractBrief() = false")
	}
	if b.Stories != nil {
		t.Errorf("Stories = %d, want none", *b.Stories)
	}
}
