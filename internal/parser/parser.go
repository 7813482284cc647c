package parser

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParsedFile represents a parsed configuration file
type ParsedFile struct {
	Path        string
	Content     []byte
	FileType    FileType
	Category    FileCategory
	Sections    []Section
	Frontmatter map[string]interface{} // YAML frontmatter from markdown files
	Data        map[string]interface{} // Top-level object of YAML/JSON files
	Lead        string                 // First paragraph of markdown body text
}

// FileType represents the type of configuration file
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeMarkdown
	FileTypeJSON
	FileTypeYAML
)

// FileCategory represents the semantic purpose of a file
type FileCategory int

const (
	// FileCategoryUnknown is for files that don't match any known category
	FileCategoryUnknown FileCategory = iota
	// FileCategoryCatalog is for level catalogs (project-levels.yaml)
	FileCategoryCatalog
	// FileCategoryBrief is for project briefs and descriptions (brief.md, *.brief.yaml)
	FileCategoryBrief
	// FileCategoryWorkflow is for workflow definitions (workflow.md, workflows/**/*.yaml)
	FileCategoryWorkflow
	// FileCategoryAgent is for agent definitions (*.agent.yaml)
	FileCategoryAgent
)

func (c FileCategory) String() string {
	switch c {
	case FileCategoryCatalog:
		return "catalog"
	case FileCategoryBrief:
		return "brief"
	case FileCategoryWorkflow:
		return "workflow"
	case FileCategoryAgent:
		return "agent"
	default:
		return "unknown"
	}
}

// Section represents a section within a parsed file
type Section struct {
	Title       string
	Level       int
	StartLine   int
	EndLine     int
	Content     string
	Subsections []Section
}

// Parser defines the interface for parsing configuration files
type Parser interface {
	Parse(path string, content []byte) (*ParsedFile, error)
	CanParse(path string) bool
}

// Parse parses a file using the appropriate parser
func Parse(path string) (*ParsedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parser := getParser(path)
	parsed, err := parser.Parse(path, content)
	if err != nil {
		return nil, err
	}

	// Set the semantic category
	parsed.Category = GetFileCategory(path)
	return parsed, nil
}

// getParser returns the appropriate parser for a file
func getParser(path string) Parser {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}
	case ".json":
		return &JSONParser{}
	case ".yaml", ".yml":
		return &YAMLParser{}
	default:
		// Extensionless briefs are treated as markdown
		base := filepath.Base(path)
		if strings.Contains(strings.ToUpper(base), "BRIEF") && ext == "" {
			return &MarkdownParser{}
		}
		return &PlainParser{}
	}
}

// GetFileType returns the FileType for a given path
func GetFileType(path string) FileType {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown":
		return FileTypeMarkdown
	case ".json":
		return FileTypeJSON
	case ".yaml", ".yml":
		return FileTypeYAML
	default:
		return FileTypeUnknown
	}
}

// GetFileCategory returns the semantic FileCategory for a given path
func GetFileCategory(path string) FileCategory {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	dir := filepath.ToSlash(filepath.Dir(path))
	ft := GetFileType(path)

	// Catalogs - level definitions
	if baseLower == "project-levels.yaml" || baseLower == "project-levels.yml" {
		return FileCategoryCatalog
	}

	// Agents - agent definitions in YAML
	if strings.HasSuffix(baseLower, ".agent.yaml") || strings.HasSuffix(baseLower, ".agent.yml") {
		return FileCategoryAgent
	}

	// Workflows - workflow.md files and YAML under a workflows directory
	if baseLower == "workflow.md" || baseLower == "workflow.yaml" || baseLower == "workflow.yml" {
		return FileCategoryWorkflow
	}
	if ft == FileTypeYAML && (strings.Contains(dir, "/workflows/") || strings.HasSuffix(dir, "/workflows")) {
		return FileCategoryWorkflow
	}

	// Briefs - anything named as a brief
	if strings.Contains(baseLower, "brief") {
		return FileCategoryBrief
	}

	return FileCategoryUnknown
}

// ParseFrontmatter extracts YAML frontmatter from content between --- delimiters
// Returns the parsed frontmatter and the remaining content without frontmatter
func ParseFrontmatter(content []byte) (map[string]interface{}, []byte) {
	s := string(content)

	// Must start with ---
	if !strings.HasPrefix(s, "---") {
		return nil, content
	}

	// Find the closing ---
	rest := s[3:]
	endIdx := strings.Index(rest, "\n---")
	if endIdx == -1 {
		return nil, content
	}

	// Extract frontmatter YAML
	frontmatterStr := strings.TrimSpace(rest[:endIdx])

	var frontmatter map[string]interface{}
	if err := yaml.Unmarshal([]byte(frontmatterStr), &frontmatter); err != nil {
		return nil, content
	}

	// Return remaining content after frontmatter
	remaining := rest[endIdx+4:] // +4 for "\n---"
	if strings.HasPrefix(remaining, "\n") {
		remaining = remaining[1:]
	}

	return frontmatter, []byte(remaining)
}
