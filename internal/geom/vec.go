package geom

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"github.com/piwi3910/WallTopo/internal/model"
)

// Vec converts a plan point to a vector.
func Vec(p model.Point2) vec.Vec2 { return vec.Vec2{X: p.X, Y: p.Y} }

// Vec3 converts the (x, y) part of a plan point to a vector.
func Vec3(p model.Point3) vec.Vec2 { return vec.Vec2{X: p.X, Y: p.Y} }

// Lift puts v back on the plane at height z.
func Lift(v vec.Vec2, z float64) model.Point3 { return model.Point3{X: v.X, Y: v.Y, Z: z} }

// Normal returns v rotated by +90 degrees, (-y, x).
func Normal(v vec.Vec2) vec.Vec2 { return vec.Vec2{X: -v.Y, Y: v.X} }

// Cross returns the z component of a x b.
func Cross(a, b vec.Vec2) float64 { return a.X*b.Y - a.Y*b.X }

// Unit returns v scaled to length 1. It reports false for a zero vector.
func Unit(v vec.Vec2) (vec.Vec2, bool) {
	l := v.Length()
	if l == 0 || math.IsNaN(l) {
		return vec.Vec2{}, false
	}
	return v.Mul(1 / l), true
}

// Heading returns the atan2 angle of v in [0, 2*pi).
func Heading(v vec.Vec2) float64 {
	a := math.Atan2(v.Y, v.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// SignedAngle returns the angle from a to b in (-pi, pi]. The magnitude is
// the acos of the clamped dot product of the unit vectors; the sign is the
// sign of a x b.
func SignedAngle(a, b vec.Vec2) float64 {
	ua, okA := Unit(a)
	ub, okB := Unit(b)
	if !okA || !okB {
		return 0
	}
	cos := math.Max(-1, math.Min(1, ua.Dot(ub)))
	angle := math.Acos(cos)
	if Cross(ua, ub) < 0 {
		angle = -angle
	}
	return angle
}

// IntersectLines returns the point where the line through p1 along d1 meets
// the line through p2 along d2. It reports false when the lines are parallel
// within tol (measured as the sine of the angle between unit directions).
func IntersectLines(p1, d1, p2, d2 vec.Vec2, tol float64) (vec.Vec2, bool) {
	den := Cross(d1, d2)
	if math.Abs(den) <= tol*d1.Length()*d2.Length() {
		return vec.Vec2{}, false
	}
	t := Cross(p2.Sub(p1), d2) / den
	return p1.Add(d1.Mul(t)), true
}

// SegmentDistance returns the distance from p to the segment a-b and the
// parameter t in [0, 1] of the closest point.
func SegmentDistance(p, a, b vec.Vec2) (float64, float64) {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Length(), 0
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Mul(t))).Length(), t
}
