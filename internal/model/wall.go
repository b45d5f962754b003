package model

import (
	"math"

	"github.com/google/uuid"
)

// WallSegment is one straight or arc run of wall between two endpoints.
// The engine never mutates walls; callers edit them and resubmit.
type WallSegment struct {
	ID        string  `json:"id"`
	Label     string  `json:"label,omitempty"`
	From      Point3  `json:"from"`
	To        Point3  `json:"to"`
	Arc       *Arc    `json:"arc,omitempty"`        // nil for straight walls
	Thickness float64 `json:"thickness,omitempty"`  // mm; 0 = take it from the profile
	ProfileID string  `json:"profile_id,omitempty"` // WallProfile reference
}

// NewWall creates a straight wall with a generated ID.
func NewWall(from, to Point3, thickness float64) WallSegment {
	return WallSegment{
		ID:        uuid.New().String()[:8],
		From:      from,
		To:        to,
		Thickness: thickness,
	}
}

// NewArcWall creates a curved wall following the circle around center.
func NewArcWall(from, to, center Point3, dir ArcDirection, thickness float64) WallSegment {
	w := NewWall(from, to, thickness)
	w.Arc = &Arc{
		Center:    center,
		Radius:    from.DistanceTo(center),
		Direction: dir,
	}
	return w
}

// IsArc reports whether the wall is curved.
func (w WallSegment) IsArc() bool { return w.Arc != nil }

// Sweep returns the signed angle (radians, positive counter-clockwise) the
// wall covers around its arc center, or 0 for a straight wall.
func (w WallSegment) Sweep() float64 {
	if w.Arc == nil {
		return 0
	}
	return w.Arc.sweepBetween(w.From, w.To)
}

// Length returns the chord length of a straight wall or the arc length of a
// curved one.
func (w WallSegment) Length() float64 {
	if w.Arc == nil {
		return w.From.DistanceTo(w.To)
	}
	return w.Arc.Radius * math.Abs(w.Sweep())
}

// Endpoint returns the wall's point at the given end. EndBetween has no
// single point and yields the zero value.
func (w WallSegment) Endpoint(end WallEndType) Point3 {
	switch end {
	case EndFrom:
		return w.From
	case EndTo:
		return w.To
	default:
		return Point3{}
	}
}

// DirectionAt returns the unit direction pointing into the wall, as seen from
// the given end: To-From at the from end, From-To at the to end. Arc walls use
// the tangent at that end. The result lies in the (x, y) plane.
func (w WallSegment) DirectionAt(end WallEndType) Point2 {
	var d Point2
	if w.Arc == nil {
		if end == EndTo {
			d = w.From.XY().Sub(w.To.XY())
		} else {
			d = w.To.XY().Sub(w.From.XY())
		}
	} else {
		p := w.From
		if end == EndTo {
			p = w.To
		}
		r := p.XY().Sub(w.Arc.Center.XY())
		// tangent of travel from From to To
		t := Point2{X: -r.Y, Y: r.X}
		if w.Arc.Direction == ArcClockwise {
			t = t.Scale(-1)
		}
		if end == EndTo {
			t = t.Scale(-1)
		}
		d = t
	}
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		return Point2{}
	}
	return d.Scale(1 / l)
}

// Reversed returns a copy running To->From. Arc walls flip direction so they
// still follow the same circle.
func (w WallSegment) Reversed() WallSegment {
	r := w
	r.From, r.To = w.To, w.From
	if w.Arc != nil {
		arc := *w.Arc
		arc.Direction = arc.Direction.Flip()
		r.Arc = &arc
	}
	return r
}

// WallEndType says which part of a wall touches a joint.
type WallEndType int

const (
	EndFrom    WallEndType = iota // the wall's From point
	EndTo                         // the wall's To point
	EndBetween                    // somewhere on the wall's interior
)

func (e WallEndType) String() string {
	switch e {
	case EndFrom:
		return "from"
	case EndTo:
		return "to"
	default:
		return "between"
	}
}

func (e WallEndType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *WallEndType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "from":
		*e = EndFrom
	case "to":
		*e = EndTo
	default:
		*e = EndBetween
	}
	return nil
}

// WallEnd pairs a wall with the end of it that touches a joint.
type WallEnd struct {
	Wall WallSegment `json:"wall"`
	End  WallEndType `json:"end"`
}

// Direction returns the unit direction pointing from the joint into the wall.
func (e WallEnd) Direction() Point2 { return e.Wall.DirectionAt(e.End) }
