package catalog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

var envVarPattern = regexp.MustCompile(`\{\{\s*([A-Z0-9_]+)\s*\}\}`)

// Loader reads the catalog file
type Loader struct {
	filePath string
}

// NewLoader creates a loader for filePath
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Path returns the file the loader reads
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads, parses and maps the catalog file
func (l *Loader) Load() ([]Category, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	data = expandVariables(data)

	var config FileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	return MapCategories(config)
}

// expandVariables replaces {{NAME}} with the value of the environment
// variable NAME, or an empty string when unset.
func expandVariables(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envVarPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// MapCategories converts the file structure to categories. Entries without
// an id or title are skipped; an id seen twice is an error.
func MapCategories(config FileConfig) ([]Category, error) {
	var categories []Category
	seen := make(map[string]string)

	for _, group := range config {
		for name, props := range group {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}

			cat := Category{Name: name}
			for _, p := range props {
				id := strings.TrimSpace(p.ID)
				title := strings.TrimSpace(p.Title)
				if id == "" || title == "" {
					continue
				}
				if prev, dup := seen[id]; dup {
					return nil, fmt.Errorf("duplicate catalog id %q in %s and %s", id, prev, name)
				}
				seen[id] = name
				cat.Entries = append(cat.Entries, domain.CatalogEntry{
					ID:    id,
					Title: title,
					Image: strings.TrimSpace(p.Image),
					Link:  strings.TrimSpace(p.Link),
				})
			}
			categories = append(categories, cat)
		}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("no valid entries found in catalog file")
	}
	return categories, nil
}
