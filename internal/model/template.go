package model

import (
	"time"

	"github.com/google/uuid"
)

// LayoutTemplate is a reusable wall layout (a standard bathroom, a stair core)
// that can be stamped into a plan. Stamped walls get fresh IDs so they are
// independent of the template.
type LayoutTemplate struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
	Walls       []WallSegment `json:"walls"`
}

// NewLayoutTemplate creates a template from the given walls.
func NewLayoutTemplate(name, description string, walls []WallSegment) LayoutTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return LayoutTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Walls:       copyWalls(walls),
	}
}

// Instantiate returns the template's walls translated by offset, each with a
// new ID.
func (t LayoutTemplate) Instantiate(offset Point3) []WallSegment {
	walls := make([]WallSegment, len(t.Walls))
	for i, w := range t.Walls {
		nw := w
		nw.ID = uuid.New().String()[:8]
		nw.From = w.From.Add(offset)
		nw.To = w.To.Add(offset)
		if w.Arc != nil {
			arc := *w.Arc
			arc.Center = arc.Center.Add(offset)
			nw.Arc = &arc
		}
		walls[i] = nw
	}
	return walls
}

// ToFloorplan creates a new Floorplan holding one instance of the template.
func (t LayoutTemplate) ToFloorplan(name string) Floorplan {
	plan := NewFloorplan()
	plan.Name = name
	plan.Walls = t.Instantiate(Point3{})
	return plan
}

// TemplateStore holds a collection of layout templates.
type TemplateStore struct {
	Templates []LayoutTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []LayoutTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t LayoutTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *LayoutTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *LayoutTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// copyWalls creates a deep copy of a wall slice, arcs included.
func copyWalls(walls []WallSegment) []WallSegment {
	if walls == nil {
		return []WallSegment{}
	}
	cp := make([]WallSegment, len(walls))
	for i, w := range walls {
		cp[i] = w
		if w.Arc != nil {
			arc := *w.Arc
			cp[i].Arc = &arc
		}
	}
	return cp
}
