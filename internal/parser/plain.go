package parser

import (
	"strings"
)

// PlainParser parses plain text briefs. Blank lines separate paragraphs;
// each paragraph becomes a section and the first one is the lead.
type PlainParser struct{}

// CanParse returns true (fallback parser)
func (p *PlainParser) CanParse(path string) bool {
	return true
}

// Parse parses a plain text file
func (p *PlainParser) Parse(path string, content []byte) (*ParsedFile, error) {
	pf := &ParsedFile{
		Path:     path,
		Content:  content,
		FileType: FileTypeUnknown,
	}

	var para []string
	start := 0
	flush := func(end int) {
		if len(para) == 0 {
			return
		}
		pf.Sections = append(pf.Sections, Section{
			Title:     "Paragraph",
			Level:     1,
			StartLine: start,
			EndLine:   end,
			Content:   strings.Join(para, "\n"),
		})
		para = nil
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush(i)
			continue
		}
		if len(para) == 0 {
			start = i + 1
		}
		para = append(para, line)
	}
	flush(len(lines))

	if len(pf.Sections) > 0 {
		pf.Lead = strings.Join(strings.Fields(pf.Sections[0].Content), " ")
	}
	return pf, nil
}

// Text returns the top-level section bodies joined by blank lines
func (pf *ParsedFile) Text() string {
	parts := make([]string, 0, len(pf.Sections))
	for _, s := range pf.Sections {
		parts = append(parts, strings.TrimSpace(s.Content))
	}
	return strings.Join(parts, "\n\n")
}
