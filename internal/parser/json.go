package parser

import (
	"encoding/json"
)

// JSONParser parses JSON documents
type JSONParser struct{}

// CanParse returns true if this parser can handle the file
func (p *JSONParser) CanParse(path string) bool {
	return GetFileType(path) == FileTypeJSON
}

// Parse parses a JSON file
func (p *JSONParser) Parse(path string, content []byte) (*ParsedFile, error) {
	var data interface{}
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	obj, _ := data.(map[string]interface{})

	return &ParsedFile{
		Path:     path,
		Content:  content,
		FileType: FileTypeJSON,
		Sections: topLevelSections(obj),
		Data:     obj,
	}, nil
}
