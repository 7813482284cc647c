package levelconfig

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed configs/*.yaml
var configFS embed.FS

// DefaultModule is the catalog used when none is requested
const DefaultModule = "bmm"

// Load loads a built-in catalog by module name
func Load(name string) (*Catalog, error) {
	data, err := configFS.ReadFile(path.Join("configs", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown module: %s (available: %s)", name, strings.Join(Available(), ", "))
	}
	return Parse(data, name)
}

// Available returns the names of all built-in catalogs
func Available() []string {
	entries, err := configFS.ReadDir("configs")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// LoadFile loads a catalog from a YAML file on disk
func LoadFile(filePath string) (*Catalog, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read level catalog: %w", err)
	}
	return Parse(data, filePath)
}

// Resolve loads the catalog at filePath when it is set, else the built-in
// module
func Resolve(filePath, module string) (*Catalog, error) {
	if filePath != "" {
		return LoadFile(filePath)
	}
	if module == "" {
		module = DefaultModule
	}
	return Load(module)
}
