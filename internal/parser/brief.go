package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Brief is a project description extracted from a document
type Brief struct {
	Path        string
	Name        string
	Description string

	// Stories is the estimated story count, when the document declares one
	Stories *int
}

// ErrNoDescription is returned by ParseBrief for documents without a description
var ErrNoDescription = errors.New("no description found")

// descriptionSections are markdown headings whose body is taken as the description
var descriptionSections = []string{"description", "overview", "summary"}

// storyKeys are the frontmatter/data keys that carry a story estimate
var storyKeys = []string{"estimated_stories", "stories", "story_count"}

// ExtractBrief pulls a description and optional story estimate out of a
// parsed document. Structured fields win: a "description" key in frontmatter
// or top-level YAML/JSON data, then a Description/Overview/Summary markdown
// section, then the first paragraph, then the whole text for plain files.
// It returns false when the document carries no description.
func ExtractBrief(pf *ParsedFile) (*Brief, bool) {
	fields := pf.Data
	if pf.FileType == FileTypeMarkdown {
		fields = pf.Frontmatter
	}

	b := &Brief{
		Path: pf.Path,
		Name: stringField(fields, "name"),
	}
	if b.Name == "" {
		b.Name = defaultBriefName(pf.Path)
	}

	b.Description = stringField(fields, "description")
	for _, key := range storyKeys {
		if n, ok := intField(fields, key); ok {
			b.Stories = &n
			break
		}
	}

	if b.Description == "" {
		switch pf.FileType {
		case FileTypeMarkdown:
			b.Description = sectionBody(pf.Sections)
			if b.Description == "" {
				b.Description = pf.Lead
			}
		case FileTypeUnknown:
			b.Description = pf.Text()
		}
	}

	b.Description = strings.Join(strings.Fields(b.Description), " ")
	if b.Description == "" {
		return nil, false
	}
	return b, true
}

// ParseBrief reads and parses a file, then extracts its brief
func ParseBrief(path string) (*Brief, error) {
	pf, err := Parse(path)
	if err != nil {
		return nil, err
	}
	b, ok := ExtractBrief(pf)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDescription)
	}
	return b, nil
}

// sectionBody returns the body of the first description-like section,
// searching subsections depth first
func sectionBody(sections []Section) string {
	for _, s := range sections {
		title := strings.ToLower(strings.TrimSpace(s.Title))
		for _, want := range descriptionSections {
			if title == want {
				return stripHeading(s.Content)
			}
		}
		if body := sectionBody(s.Subsections); body != "" {
			return body
		}
	}
	return ""
}

// stripHeading drops the heading line that starts a section's content
func stripHeading(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "#") {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func defaultBriefName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.EqualFold(name, "workflow") || strings.EqualFold(name, "brief") {
		// Named after the directory, as workflow folders usually are
		if dir := filepath.Base(filepath.Dir(path)); dir != "." && dir != string(filepath.Separator) {
			return dir
		}
	}
	return name
}

func stringField(fields map[string]interface{}, key string) string {
	if fields == nil {
		return ""
	}
	if s, ok := fields[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func intField(fields map[string]interface{}, key string) (int, bool) {
	if fields == nil {
		return 0, false
	}
	switch v := fields[key].(type) {
	case int:
		return v, v >= 0
	case float64:
		return int(v), v >= 0 && v == float64(int(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil && n >= 0
	default:
		return 0, false
	}
}
