package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/websaver/internal/domain"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "groups.yaml")

	yamlContent := `---
- name: Work
  keywords:
    - jira
    - github.com
- name: Media
  keywords:
    - www.youtube.com
`

	err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644)
	if err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	groups, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("Load() returned %d groups, want 2", len(groups))
	}
	if groups[0].Name != "Work" || len(groups[0].Keywords) != 2 {
		t.Errorf("Load() first group = %+v", groups[0])
	}
}

func TestLoaderLoadNormalizesNilKeywords(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "groups.yaml")

	yamlContent := `---
- name: Empty
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	groups, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if groups[0].Keywords == nil {
		t.Error("Load() must normalize nil keywords to an empty slice")
	}
}

func TestLoaderLoadInvalidGroup(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "groups.yaml")

	yamlContent := `---
- name: ""
  keywords: []
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	if _, err := NewLoader(yamlPath).Load(); err == nil {
		t.Fatal("Load() must reject groups with empty names")
	}
}

func TestLoaderNoFileUsesDefaults(t *testing.T) {
	groups, err := NewLoader("").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !groups.Equal(domain.Default()) {
		t.Error("Load() without a file must return the built-in defaults")
	}
}

func TestLoaderMissingFile(t *testing.T) {
	if _, err := NewLoader("/nonexistent/groups.yaml").Load(); err == nil {
		t.Fatal("Load() must fail when the configured file is missing")
	}
}
