package model

import "github.com/google/uuid"

// WallProfile is a reusable wall build-up. Walls reference it by ID when they
// carry no thickness of their own.
type WallProfile struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Thickness float64 `json:"thickness"` // mm
	Material  string  `json:"material,omitempty"`
}

// NewWallProfile creates a new WallProfile with a generated ID.
func NewWallProfile(name string, thickness float64, material string) WallProfile {
	return WallProfile{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Thickness: thickness,
		Material:  material,
	}
}

// ProfileCatalog holds the wall profiles available to a plan.
type ProfileCatalog struct {
	Profiles []WallProfile `json:"profiles"`
}

// DefaultProfileCatalog returns a catalog populated with common wall build-ups.
func DefaultProfileCatalog() ProfileCatalog {
	return ProfileCatalog{
		Profiles: []WallProfile{
			{ID: "ext-240", Name: "Exterior masonry 240", Thickness: 240, Material: "Brick"},
			{ID: "ext-200", Name: "Exterior concrete 200", Thickness: 200, Material: "Concrete"},
			{ID: "int-120", Name: "Interior masonry 120", Thickness: 120, Material: "Brick"},
			{ID: "int-100", Name: "Drywall partition 100", Thickness: 100, Material: "Gypsum"},
			{ID: "int-75", Name: "Drywall partition 75", Thickness: 75, Material: "Gypsum"},
		},
	}
}

// FindByID returns a pointer to the profile with the given ID, or nil.
func (c *ProfileCatalog) FindByID(id string) *WallProfile {
	for i := range c.Profiles {
		if c.Profiles[i].ID == id {
			return &c.Profiles[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first profile with the given name, or nil.
func (c *ProfileCatalog) FindByName(name string) *WallProfile {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i]
		}
	}
	return nil
}

// Names returns the profile names in catalog order.
func (c *ProfileCatalog) Names() []string {
	names := make([]string, len(c.Profiles))
	for i, p := range c.Profiles {
		names[i] = p.Name
	}
	return names
}

// ThicknessOf resolves the thickness of a wall: its own value when set,
// otherwise its profile's, otherwise 0 (unknown).
func (c *ProfileCatalog) ThicknessOf(w WallSegment) float64 {
	if w.Thickness > 0 {
		return w.Thickness
	}
	if c == nil || w.ProfileID == "" {
		return 0
	}
	if p := c.FindByID(w.ProfileID); p != nil {
		return p.Thickness
	}
	return 0
}
