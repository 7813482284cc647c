package parser

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses YAML documents
type YAMLParser struct{}

// CanParse returns true if this parser can handle the file
func (p *YAMLParser) CanParse(path string) bool {
	ft := GetFileType(path)
	return ft == FileTypeYAML
}

// Parse parses a YAML file
func (p *YAMLParser) Parse(path string, content []byte) (*ParsedFile, error) {
	var data interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	obj, _ := data.(map[string]interface{})

	return &ParsedFile{
		Path:     path,
		Content:  content,
		FileType: FileTypeYAML,
		Sections: topLevelSections(obj),
		Data:     obj,
	}, nil
}

// topLevelSections lists the keys of a decoded object as sections, in key order
func topLevelSections(obj map[string]interface{}) []Section {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sections []Section
	for i, key := range keys {
		sections = append(sections, Section{
			Title:     key,
			Level:     1,
			StartLine: i + 1,
		})
	}
	return sections
}
