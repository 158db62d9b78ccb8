// Package seed loads the initial collection from an optional YAML file,
// falling back to the built-in defaults when no file is configured.
package seed

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the seed groups file
type Loader struct {
	filePath string
}

// NewLoader creates a new seed loader. An empty path means no file is
// configured and Load returns the built-in defaults.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the seed file into a validated collection.
func (l *Loader) Load() (domain.Collection, error) {
	if l.filePath == "" {
		return domain.Default(), nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var groups domain.Collection
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	groups.Normalize()
	if err := groups.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no groups found in seed file")
	}

	return groups, nil
}
