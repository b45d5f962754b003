package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/WallTopo/internal/model"
)

// DefaultTemplatePath returns ~/.walltopo/templates.json, creating the
// directory if needed.
func DefaultTemplatePath() (string, error) {
	dir := DefaultConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "templates.json"), nil
}

// SaveTemplates writes the layout templates as indented JSON. A template
// without walls is stored with an empty list so it reloads as such.
func SaveTemplates(path string, store model.TemplateStore) error {
	out := model.TemplateStore{Templates: make([]model.LayoutTemplate, len(store.Templates))}
	for i, t := range store.Templates {
		if t.Walls == nil {
			t.Walls = []model.WallSegment{}
		}
		out.Templates[i] = t
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal templates: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create template directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write templates: %w", err)
	}
	return nil
}

// LoadTemplates reads layout templates. A missing file yields an empty store.
// Template names must be unique, as must wall ids within one template, since
// the CLI and Instantiate look them up by those keys.
func LoadTemplates(path string) (model.TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewTemplateStore(), nil
		}
		return model.TemplateStore{}, fmt.Errorf("failed to read templates: %w", err)
	}

	var store model.TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.TemplateStore{}, fmt.Errorf("failed to parse templates: %w", err)
	}
	if store.Templates == nil {
		store.Templates = []model.LayoutTemplate{}
	}

	if err := checkTemplates(&store); err != nil {
		return model.TemplateStore{}, fmt.Errorf("%s: %w", path, err)
	}
	return store, nil
}

// checkTemplates rejects duplicate template names and duplicate wall ids
// within a template, and replaces nil wall lists with empty ones.
func checkTemplates(store *model.TemplateStore) error {
	names := make(map[string]bool, len(store.Templates))
	for i := range store.Templates {
		t := &store.Templates[i]
		if names[t.Name] {
			return fmt.Errorf("duplicate template name %q", t.Name)
		}
		names[t.Name] = true
		if id, ok := duplicateWallID(t.Walls); ok {
			return fmt.Errorf("template %q: duplicate wall id %q", t.Name, id)
		}
		if t.Walls == nil {
			t.Walls = []model.WallSegment{}
		}
	}
	return nil
}

// LoadDefaultTemplates loads templates from DefaultTemplatePath.
func LoadDefaultTemplates() (model.TemplateStore, error) {
	path, err := DefaultTemplatePath()
	if err != nil {
		return model.NewTemplateStore(), err
	}
	return LoadTemplates(path)
}
