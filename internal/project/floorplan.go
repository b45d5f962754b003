// Package project persists floor plans, application config, wall profiles,
// layout templates and backups, and watches plan files for changes.
package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/piwi3910/WallTopo/internal/model"
)

//go:embed floorplan.schema.json
var floorplanSchema []byte

const floorplanSchemaURL = "floorplan.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func planSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(floorplanSchemaURL, bytes.NewReader(floorplanSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(floorplanSchemaURL)
	})
	return compiledSchema, schemaErr
}

// ValidateFloorplan checks raw floor plan JSON against the embedded schema.
func ValidateFloorplan(data []byte) error {
	schema, err := planSchema()
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("parse floor plan: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("invalid floor plan: %w", err)
	}
	return nil
}

// SaveFloorplan writes the plan as indented JSON, creating parent
// directories as needed. An empty version is stamped with the current one.
func SaveFloorplan(path string, plan model.Floorplan) error {
	if plan.Version == "" {
		plan.Version = model.FloorplanVersion
	}
	if plan.Walls == nil {
		plan.Walls = []model.WallSegment{}
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal floor plan: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write floor plan: %w", err)
	}
	return nil
}

// LoadFloorplan reads and validates a plan. Wall ids are kept exactly as
// stored and must be unique. A plan without profiles gets the default
// catalog.
func LoadFloorplan(path string) (model.Floorplan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Floorplan{}, fmt.Errorf("failed to read floor plan: %w", err)
	}
	if err := ValidateFloorplan(data); err != nil {
		return model.Floorplan{}, fmt.Errorf("%s: %w", path, err)
	}

	var plan model.Floorplan
	if err := json.Unmarshal(data, &plan); err != nil {
		return model.Floorplan{}, fmt.Errorf("failed to parse floor plan: %w", err)
	}

	if id, ok := duplicateWallID(plan.Walls); ok {
		return model.Floorplan{}, fmt.Errorf("%s: duplicate wall id %q", path, id)
	}
	if plan.Profiles.Profiles == nil {
		plan.Profiles = model.DefaultProfileCatalog()
	}
	return plan, nil
}

// duplicateWallID returns the first wall id that occurs twice.
func duplicateWallID(walls []model.WallSegment) (string, bool) {
	seen := make(map[string]bool, len(walls))
	for _, w := range walls {
		if seen[w.ID] {
			return w.ID, true
		}
		seen[w.ID] = true
	}
	return "", false
}
