package model

import "math"

// DefaultEpsilon is the distance (in mm) below which two points are the same
// location. All equality and containment tests in the engine use it unless a
// config overrides it.
const DefaultEpsilon = 1.0

// Point2 represents a 2D coordinate in mm.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point2) Add(q Point2) Point2         { return Point2{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point2) Sub(q Point2) Point2         { return Point2{X: p.X - q.X, Y: p.Y - q.Y} }
func (p Point2) Scale(s float64) Point2      { return Point2{X: p.X * s, Y: p.Y * s} }
func (p Point2) DistanceTo(q Point2) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Equal reports whether q lies within eps of p.
func (p Point2) Equal(q Point2, eps float64) bool {
	return p.DistanceTo(q) <= eps
}

// Point3 represents a 3D coordinate in mm. Walls live on a floor plane, so Z
// is usually constant across a plan.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

func (p Point3) Add(q Point3) Point3    { return Point3{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z} }
func (p Point3) Sub(q Point3) Point3    { return Point3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z} }
func (p Point3) Scale(s float64) Point3 { return Point3{X: p.X * s, Y: p.Y * s, Z: p.Z * s} }

// XY drops the Z coordinate.
func (p Point3) XY() Point2 { return Point2{X: p.X, Y: p.Y} }

// DistanceTo returns the euclidean distance between p and q.
func (p Point3) DistanceTo(q Point3) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Equal reports whether q lies within eps of p.
func (p Point3) Equal(q Point3, eps float64) bool {
	return p.DistanceTo(q) <= eps
}

// IsFinite reports whether every coordinate is a real number.
func (p Point3) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// ArcDirection is the rotational sense of an arc wall in the (x, y) plane.
// Counter-clockwise means increasing atan2 angle around the center.
type ArcDirection int

const (
	ArcCounterClockwise ArcDirection = iota
	ArcClockwise
)

func (d ArcDirection) String() string {
	if d == ArcClockwise {
		return "CW"
	}
	return "CCW"
}

// Flip returns the opposite direction.
func (d ArcDirection) Flip() ArcDirection {
	if d == ArcClockwise {
		return ArcCounterClockwise
	}
	return ArcClockwise
}

// Arc describes the circle a curved wall follows between its endpoints.
type Arc struct {
	Center    Point3       `json:"center"`
	Radius    float64      `json:"radius"`
	Direction ArcDirection `json:"direction"`
}

// sweepBetween returns the signed angle swept from a to b around the arc
// center. Positive values are counter-clockwise. A full circle is never
// returned for coincident endpoints; walls reject those earlier.
func (a Arc) sweepBetween(from, to Point3) float64 {
	a0 := math.Atan2(from.Y-a.Center.Y, from.X-a.Center.X)
	a1 := math.Atan2(to.Y-a.Center.Y, to.X-a.Center.X)
	if a.Direction == ArcClockwise {
		d := a0 - a1
		for d <= 0 {
			d += 2 * math.Pi
		}
		return -d
	}
	d := a1 - a0
	for d <= 0 {
		d += 2 * math.Pi
	}
	return d
}
