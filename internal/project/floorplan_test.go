package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/WallTopo/internal/model"
)

func testPlan() model.Floorplan {
	plan := model.NewFloorplan()
	plan.Name = "Studio"
	plan.Walls = []model.WallSegment{
		{ID: "n", Label: "North", From: model.Point3{X: 0, Y: 0}, To: model.Point3{X: 4000, Y: 0}, Thickness: 240},
		{ID: "e", From: model.Point3{X: 4000, Y: 0}, To: model.Point3{X: 4000, Y: 3000}, ProfileID: "int-100"},
		model.NewArcWall(model.Point3{X: 4000, Y: 3000}, model.Point3{X: 0, Y: 3000}, model.Point3{X: 2000, Y: 3000}, model.ArcClockwise, 120),
		{ID: "w", From: model.Point3{X: 0, Y: 3000, Z: 0}, To: model.Point3{X: 0, Y: 0}, Thickness: 120},
	}
	plan.Walls[2].ID = "bay"
	return plan
}

func TestSaveAndLoadFloorplan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "studio.json")
	plan := testPlan()

	if err := SaveFloorplan(path, plan); err != nil {
		t.Fatalf("SaveFloorplan failed: %v", err)
	}

	loaded, err := LoadFloorplan(path)
	if err != nil {
		t.Fatalf("LoadFloorplan failed: %v", err)
	}

	if loaded.Name != "Studio" || loaded.Version != model.FloorplanVersion {
		t.Errorf("unexpected header %q %q", loaded.Name, loaded.Version)
	}
	if len(loaded.Walls) != 4 {
		t.Fatalf("expected 4 walls, got %d", len(loaded.Walls))
	}
	for i, w := range loaded.Walls {
		if w.ID != plan.Walls[i].ID {
			t.Errorf("wall %d id changed: %q -> %q", i, plan.Walls[i].ID, w.ID)
		}
	}
	arc := loaded.Walls[2].Arc
	if arc == nil || arc.Direction != model.ArcClockwise || arc.Radius != 2000 {
		t.Errorf("arc not preserved: %+v", arc)
	}
	if loaded.Walls[1].ProfileID != "int-100" || loaded.Profiles.ThicknessOf(loaded.Walls[1]) != 100 {
		t.Errorf("profile reference not preserved: %+v", loaded.Walls[1])
	}
}

func TestLoadFloorplan_DefaultsProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	data := `{"version":"1.0.0","walls":[{"id":"a","from":{"x":0,"y":0},"to":{"x":1,"y":0}}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	plan, err := LoadFloorplan(path)
	if err != nil {
		t.Fatalf("LoadFloorplan failed: %v", err)
	}
	if len(plan.Profiles.Profiles) == 0 {
		t.Error("expected the default profile catalog")
	}
}

func TestLoadFloorplan_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing version", `{"walls":[]}`},
		{"missing walls", `{"version":"1.0.0"}`},
		{"wall without id", `{"version":"1.0.0","walls":[{"from":{"x":0,"y":0},"to":{"x":1,"y":0}}]}`},
		{"point without y", `{"version":"1.0.0","walls":[{"id":"a","from":{"x":0},"to":{"x":1,"y":0}}]}`},
		{"negative thickness", `{"version":"1.0.0","walls":[{"id":"a","from":{"x":0,"y":0},"to":{"x":1,"y":0},"thickness":-5}]}`},
		{"zero radius", `{"version":"1.0.0","walls":[{"id":"a","from":{"x":0,"y":0},"to":{"x":1,"y":0},"arc":{"center":{"x":0,"y":0},"radius":0}}]}`},
		{"bad direction", `{"version":"1.0.0","walls":[{"id":"a","from":{"x":0,"y":0},"to":{"x":1,"y":0},"arc":{"center":{"x":0,"y":0},"radius":1,"direction":2}}]}`},
		{"coordinate as string", `{"version":"1.0.0","walls":[{"id":"a","from":{"x":"0","y":0},"to":{"x":1,"y":0}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plan.json")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFloorplan(path); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadFloorplan_DuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	data := `{"version":"1.0.0","walls":[` +
		`{"id":"a","from":{"x":0,"y":0},"to":{"x":1,"y":0}},` +
		`{"id":"a","from":{"x":1,"y":0},"to":{"x":1,"y":1}}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFloorplan(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate wall id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadFloorplan_MissingFile(t *testing.T) {
	if _, err := LoadFloorplan(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFloorplan_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte("{walls"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFloorplan(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestSaveFloorplan_StampsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := SaveFloorplan(path, model.Floorplan{Name: "Bare"}); err != nil {
		t.Fatalf("SaveFloorplan failed: %v", err)
	}
	plan, err := LoadFloorplan(path)
	if err != nil {
		t.Fatalf("LoadFloorplan failed: %v", err)
	}
	if plan.Version != model.FloorplanVersion || plan.Walls == nil {
		t.Errorf("unexpected plan %+v", plan)
	}
}
