package model

import (
	"fmt"
	"math"
	"testing"
)

// ─── Floorplan Tests ───

func TestNewFloorplan(t *testing.T) {
	plan := NewFloorplan()
	if plan.Version != FloorplanVersion {
		t.Errorf("expected version %s, got %s", FloorplanVersion, plan.Version)
	}
	if plan.Walls == nil || len(plan.Walls) != 0 {
		t.Error("expected empty, non-nil walls")
	}
	if len(plan.Profiles.Profiles) == 0 {
		t.Error("expected default profiles")
	}
}

func TestFloorplan_AddFindRemove(t *testing.T) {
	plan := NewFloorplan()
	a := NewWall(Point3{}, Point3{X: 1000}, 120)
	b := NewWall(Point3{X: 1000}, Point3{X: 1000, Y: 1000}, 120)

	if id := plan.AddWall(a); id != a.ID {
		t.Errorf("AddWall returned %q, want %q", id, a.ID)
	}
	plan.AddWall(b)

	found := plan.FindWall(b.ID)
	if found == nil {
		t.Fatal("FindWall returned nil")
	}
	found.Label = "north"
	if plan.Walls[1].Label != "north" {
		t.Error("FindWall should return a pointer into the plan")
	}

	if !plan.RemoveWall(a.ID) {
		t.Fatal("RemoveWall returned false")
	}
	if plan.RemoveWall(a.ID) {
		t.Error("second RemoveWall should report false")
	}
	if len(plan.Walls) != 1 || plan.Walls[0].ID != b.ID {
		t.Errorf("unexpected walls after remove: %+v", plan.Walls)
	}
	if plan.FindWall("missing") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestFloorplan_TotalWallLength(t *testing.T) {
	plan := NewFloorplan()
	plan.AddWall(NewWall(Point3{}, Point3{X: 3000}, 120))
	plan.AddWall(NewWall(Point3{}, Point3{Y: 4000}, 120))
	plan.AddWall(NewArcWall(Point3{X: 1000}, Point3{Y: 1000}, Point3{}, ArcCounterClockwise, 120))

	want := 7000 + 500*math.Pi
	if got := plan.TotalWallLength(); math.Abs(got-want) > 1e-6 {
		t.Errorf("TotalWallLength = %f, want %f", got, want)
	}
}

func TestFloorplan_Bounds(t *testing.T) {
	plan := NewFloorplan()
	if lo, hi := plan.Bounds(); lo != (Point2{}) || hi != (Point2{}) {
		t.Error("empty plan should have zero bounds")
	}

	plan.AddWall(NewWall(Point3{X: -500, Y: 200}, Point3{X: 3000, Y: 200}, 120))
	plan.AddWall(NewWall(Point3{X: 3000, Y: 200}, Point3{X: 3000, Y: -100, Z: 50}, 120))

	lo, hi := plan.Bounds()
	if lo.X != -500 || lo.Y != -100 || hi.X != 3000 || hi.Y != 200 {
		t.Errorf("Bounds = %+v %+v", lo, hi)
	}
}

// ─── Profile Tests ───

func TestProfileCatalog_ThicknessOf(t *testing.T) {
	cat := DefaultProfileCatalog()

	tests := []struct {
		name string
		wall WallSegment
		want float64
	}{
		{"own thickness wins", WallSegment{Thickness: 90, ProfileID: "ext-240"}, 90},
		{"from profile", WallSegment{ProfileID: "ext-240"}, 240},
		{"unknown profile", WallSegment{ProfileID: "nope"}, 0},
		{"nothing set", WallSegment{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.ThicknessOf(tt.wall); got != tt.want {
				t.Errorf("ThicknessOf = %f, want %f", got, tt.want)
			}
		})
	}

	var nilCat *ProfileCatalog
	if got := nilCat.ThicknessOf(WallSegment{ProfileID: "ext-240"}); got != 0 {
		t.Errorf("nil catalog should resolve to 0, got %f", got)
	}
	if got := nilCat.ThicknessOf(WallSegment{Thickness: 50}); got != 50 {
		t.Errorf("nil catalog should still use wall thickness, got %f", got)
	}
}

func TestProfileCatalog_Find(t *testing.T) {
	cat := DefaultProfileCatalog()
	p := NewWallProfile("Timber frame", 140, "Timber")
	if len(p.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", p.ID)
	}
	cat.Profiles = append(cat.Profiles, p)

	if got := cat.FindByID(p.ID); got == nil || got.Name != "Timber frame" {
		t.Errorf("FindByID = %+v", got)
	}
	if got := cat.FindByName("Timber frame"); got == nil || got.Thickness != 140 {
		t.Errorf("FindByName = %+v", got)
	}
	if cat.FindByID("x") != nil || cat.FindByName("x") != nil {
		t.Error("expected nil for unknown profile")
	}

	names := cat.Names()
	if len(names) != len(cat.Profiles) || names[len(names)-1] != "Timber frame" {
		t.Errorf("Names = %v", names)
	}
}

// ─── Template Tests ───

func TestLayoutTemplate_Instantiate(t *testing.T) {
	walls := []WallSegment{
		NewWall(Point3{}, Point3{X: 2000}, 100),
		NewArcWall(Point3{X: 2000}, Point3{X: 2000, Y: 2000}, Point3{X: 2000, Y: 1000}, ArcCounterClockwise, 100),
	}
	tmpl := NewLayoutTemplate("Bay", "Bay window", walls)
	if tmpl.CreatedAt == "" || tmpl.CreatedAt != tmpl.UpdatedAt {
		t.Errorf("unexpected timestamps %q %q", tmpl.CreatedAt, tmpl.UpdatedAt)
	}

	walls[1].Arc.Radius = 1
	if tmpl.Walls[1].Arc.Radius != 1000 {
		t.Error("template should deep-copy arcs")
	}

	offset := Point3{X: 100, Y: 200}
	inst := tmpl.Instantiate(offset)
	if len(inst) != 2 {
		t.Fatalf("expected 2 walls, got %d", len(inst))
	}
	for i, w := range inst {
		if w.ID == tmpl.Walls[i].ID {
			t.Errorf("wall %d kept the template id", i)
		}
	}
	if inst[0].From != (Point3{X: 100, Y: 200}) || inst[0].To != (Point3{X: 2100, Y: 200}) {
		t.Errorf("straight wall not translated: %+v", inst[0])
	}
	if inst[1].Arc.Center != (Point3{X: 2100, Y: 1200}) {
		t.Errorf("arc center not translated: %+v", inst[1].Arc.Center)
	}
	if tmpl.Walls[1].Arc.Center != (Point3{X: 2000, Y: 1000}) {
		t.Error("Instantiate mutated the template")
	}
	if math.Abs(inst[1].Length()-tmpl.Walls[1].Length()) > 1e-9 {
		t.Error("translation should keep arc length")
	}
}

func TestLayoutTemplate_ToFloorplan(t *testing.T) {
	tmpl := NewLayoutTemplate("Core", "", []WallSegment{NewWall(Point3{}, Point3{X: 1}, 1)})
	plan := tmpl.ToFloorplan("Level 2")
	if plan.Name != "Level 2" || len(plan.Walls) != 1 || plan.Version != FloorplanVersion {
		t.Errorf("unexpected plan %+v", plan)
	}

	empty := NewLayoutTemplate("Empty", "", nil)
	if empty.Walls == nil {
		t.Error("nil walls should become an empty slice")
	}
}

func TestTemplateStore(t *testing.T) {
	store := NewTemplateStore()
	var ids []string
	for i := 0; i < 3; i++ {
		tmpl := NewLayoutTemplate(fmt.Sprintf("T%d", i), "", nil)
		store.Add(tmpl)
		ids = append(ids, tmpl.ID)
	}

	if got := store.FindByName("T1"); got == nil || got.ID != ids[1] {
		t.Errorf("FindByName = %+v", got)
	}
	if got := store.FindByID(ids[2]); got == nil || got.Name != "T2" {
		t.Errorf("FindByID = %+v", got)
	}
	if !store.Remove(ids[0]) {
		t.Fatal("Remove returned false")
	}
	if store.Remove(ids[0]) {
		t.Error("second Remove should report false")
	}
	if len(store.Templates) != 2 || store.FindByID(ids[0]) != nil {
		t.Errorf("unexpected store after remove: %+v", store.Templates)
	}
}

// ─── AppConfig Tests ───

func TestAppConfig_Normalize(t *testing.T) {
	cfg := AppConfig{Epsilon: -1, Workers: -3, MiterLimit: 4}
	cfg.Normalize()

	if cfg.Epsilon != DefaultEpsilon {
		t.Errorf("Epsilon = %f", cfg.Epsilon)
	}
	if cfg.AngleEpsilon != DefaultAngleEpsilon {
		t.Errorf("AngleEpsilon = %f", cfg.AngleEpsilon)
	}
	if cfg.MiterLimit != 4 {
		t.Errorf("valid MiterLimit was replaced: %f", cfg.MiterLimit)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.RecentPlans == nil {
		t.Error("RecentPlans should not be nil")
	}
}

func TestAppConfig_AddRecentPlan(t *testing.T) {
	cfg := DefaultAppConfig()
	for i := 0; i < 12; i++ {
		cfg.AddRecentPlan(fmt.Sprintf("plan%d.json", i))
	}
	if len(cfg.RecentPlans) != 10 {
		t.Fatalf("expected 10 recent plans, got %d", len(cfg.RecentPlans))
	}
	if cfg.RecentPlans[0] != "plan11.json" {
		t.Errorf("most recent first, got %q", cfg.RecentPlans[0])
	}

	cfg.AddRecentPlan("plan5.json")
	if cfg.RecentPlans[0] != "plan5.json" || len(cfg.RecentPlans) != 10 {
		t.Errorf("re-adding should move to front: %v", cfg.RecentPlans)
	}
	count := 0
	for _, p := range cfg.RecentPlans {
		if p == "plan5.json" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected plan5.json once, got %d", count)
	}
}
