package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser parses markdown documents
type MarkdownParser struct{}

// CanParse returns true if this parser can handle the file
func (p *MarkdownParser) CanParse(path string) bool {
	return GetFileType(path) == FileTypeMarkdown
}

// Parse parses a markdown file into sections
func (p *MarkdownParser) Parse(path string, content []byte) (*ParsedFile, error) {
	// Extract frontmatter if present
	frontmatter, contentWithoutFrontmatter := ParseFrontmatter(content)

	md := goldmark.New()
	reader := text.NewReader(contentWithoutFrontmatter)
	doc := md.Parser().Parse(reader)

	sections := p.extractSections(doc, contentWithoutFrontmatter)

	return &ParsedFile{
		Path:        path,
		Content:     content, // Keep original content
		FileType:    FileTypeMarkdown,
		Sections:    sections,
		Frontmatter: frontmatter,
		Lead:        p.extractLead(doc, contentWithoutFrontmatter),
	}, nil
}

// extractLead returns the text of the first paragraph in the document
func (p *MarkdownParser) extractLead(doc ast.Node, source []byte) string {
	var lead string

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if para, ok := n.(*ast.Paragraph); ok {
			var lines []string
			for i := 0; i < para.Lines().Len(); i++ {
				seg := para.Lines().At(i)
				lines = append(lines, strings.TrimSpace(string(seg.Value(source))))
			}
			lead = strings.Join(lines, " ")
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return lead
}

// extractSections splits the document at its headings. A section's content
// runs from its heading to the next heading of any level; deeper headings
// become subsections of the nearest shallower one.
func (p *MarkdownParser) extractSections(doc ast.Node, source []byte) []Section {
	lines := strings.Split(string(source), "\n")

	var flat []Section
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		heading, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}

		line := 1
		if heading.Lines().Len() > 0 {
			seg := heading.Lines().At(0)
			line = bytes.Count(source[:seg.Start], []byte("\n")) + 1
		}
		flat = append(flat, Section{
			Title:     string(heading.Text(source)),
			Level:     heading.Level,
			StartLine: line,
		})
		return ast.WalkSkipChildren, nil
	})

	for i := range flat {
		end := len(lines)
		if i+1 < len(flat) {
			end = flat[i+1].StartLine - 1
		}
		if end < flat[i].StartLine {
			end = flat[i].StartLine
		}
		flat[i].EndLine = end
		flat[i].Content = strings.Join(lines[flat[i].StartLine-1:end], "\n")
	}

	return nestSections(flat)
}

// nestSections builds the section tree from headings in document order
func nestSections(flat []Section) []Section {
	var out []Section
	for i := 0; i < len(flat); {
		s := flat[i]
		j := i + 1
		for j < len(flat) && flat[j].Level > s.Level {
			j++
		}
		s.Subsections = nestSections(flat[i+1 : j])
		out = append(out, s)
		i = j
	}
	return out
}
