package model

// FloorplanVersion is the document format version written by this build.
const FloorplanVersion = "1.0.0"

// Floorplan ties walls and the profiles they reference together for
// save/load. It is the document the engine analyses; the engine only ever
// reads it.
type Floorplan struct {
	Version  string         `json:"version"`
	Name     string         `json:"name"`
	Walls    []WallSegment  `json:"walls"`
	Profiles ProfileCatalog `json:"profiles"`
}

func NewFloorplan() Floorplan {
	return Floorplan{
		Version:  FloorplanVersion,
		Name:     "Untitled",
		Walls:    []WallSegment{},
		Profiles: DefaultProfileCatalog(),
	}
}

// FindWall returns a pointer to the wall with the given ID, or nil.
func (f *Floorplan) FindWall(id string) *WallSegment {
	for i := range f.Walls {
		if f.Walls[i].ID == id {
			return &f.Walls[i]
		}
	}
	return nil
}

// AddWall appends a wall and returns its ID.
func (f *Floorplan) AddWall(w WallSegment) string {
	f.Walls = append(f.Walls, w)
	return w.ID
}

// RemoveWall deletes the wall with the given ID. It reports whether a wall
// was removed.
func (f *Floorplan) RemoveWall(id string) bool {
	for i := range f.Walls {
		if f.Walls[i].ID == id {
			f.Walls = append(f.Walls[:i:i], f.Walls[i+1:]...)
			return true
		}
	}
	return false
}

// TotalWallLength returns the summed length of all walls in mm.
func (f Floorplan) TotalWallLength() float64 {
	var total float64
	for _, w := range f.Walls {
		total += w.Length()
	}
	return total
}

// Bounds returns the min and max corners of all wall endpoints. Arc bulges
// are not included.
func (f Floorplan) Bounds() (min, max Point2) {
	if len(f.Walls) == 0 {
		return Point2{}, Point2{}
	}
	min = f.Walls[0].From.XY()
	max = min
	grow := func(p Point2) {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	for _, w := range f.Walls {
		grow(w.From.XY())
		grow(w.To.XY())
	}
	return min, max
}
