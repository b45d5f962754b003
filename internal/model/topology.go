package model

import (
	"fmt"
	"math"
	"strings"
)

// JointType classifies how walls meet at a point.
type JointType int

const (
	JointUnknown  JointType = iota // dangling end or unsupported degree
	JointStraight                  // two collinear walls
	JointL                         // two walls at an angle
	JointT                         // three walls
	JointCross                     // four walls
)

var jointTypeNames = []string{"Unknown", "Straight", "L", "T", "Cross"}

func (t JointType) String() string {
	if t < 0 || int(t) >= len(jointTypeNames) {
		return jointTypeNames[0]
	}
	return jointTypeNames[t]
}

func (t JointType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *JointType) UnmarshalText(b []byte) error {
	for i, n := range jointTypeNames {
		if strings.EqualFold(n, string(b)) {
			*t = JointType(i)
			return nil
		}
	}
	*t = JointUnknown
	return nil
}

// WallJoint is a resolved vertex: the walls ending there and how they meet.
type WallJoint struct {
	ID    int       `json:"id"` // vertex id in the owning graph
	Point Point3    `json:"point"`
	Ends  []WallEnd `json:"ends"`
	Hosts []WallEnd `json:"hosts,omitempty"` // walls passing through the point
	Type  JointType `json:"type"`
	Angle float64   `json:"angle"` // signed radians between the first two ends; 0 unless degree 2
}

// Degree returns the number of wall ends meeting at the joint.
func (j WallJoint) Degree() int { return len(j.Ends) }

// Walls returns the walls of the joint in end order.
func (j WallJoint) Walls() []WallSegment {
	walls := make([]WallSegment, len(j.Ends))
	for i, e := range j.Ends {
		walls[i] = e.Wall
	}
	return walls
}

// AngleDegrees returns the absolute joint angle in degrees.
func (j WallJoint) AngleDegrees() float64 {
	return math.Abs(j.Angle) * 180 / math.Pi
}

// Winding is the rotational sense of a loop's point sequence.
type Winding int

const (
	// Clockwise loops have positive signed area. With x to the right and y
	// pointing down the screen, that sequence turns clockwise on screen.
	Clockwise Winding = iota
	CounterClockwise
)

func (w Winding) String() string {
	if w == CounterClockwise {
		return "CounterClockwise"
	}
	return "Clockwise"
}

func (w Winding) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Winding) UnmarshalText(b []byte) error {
	if strings.EqualFold(string(b), "CounterClockwise") {
		*w = CounterClockwise
	} else {
		*w = Clockwise
	}
	return nil
}

// Flip returns the opposite winding.
func (w Winding) Flip() Winding {
	if w == Clockwise {
		return CounterClockwise
	}
	return Clockwise
}

// LoopEdge is a wall as traversed by a loop. Reversed means the loop walks it
// To->From; the wall data itself is untouched.
type LoopEdge struct {
	Wall     WallSegment `json:"wall"`
	Reversed bool        `json:"reversed,omitempty"`
}

// Start returns the point where the loop enters the wall.
func (e LoopEdge) Start() Point3 {
	if e.Reversed {
		return e.Wall.To
	}
	return e.Wall.From
}

// End returns the point where the loop leaves the wall.
func (e LoopEdge) End() Point3 {
	if e.Reversed {
		return e.Wall.From
	}
	return e.Wall.To
}

// Oriented returns the wall as traversed.
func (e LoopEdge) Oriented() WallSegment {
	if e.Reversed {
		return e.Wall.Reversed()
	}
	return e.Wall
}

// Length returns the traversed length of the wall.
func (e LoopEdge) Length() float64 { return e.Wall.Length() }

// WallLoop is an ordered chain of walls, closed when it returns to its start.
type WallLoop struct {
	Edges     []LoopEdge    `json:"edges"`
	Points    []Point3      `json:"points"`             // chained points, len(Edges)+1
	Trailing  []WallSegment `json:"trailing,omitempty"` // walls left over when the chain broke
	Closed    bool          `json:"closed"`
	Area      float64       `json:"area"` // signed mm²; 0 for open chains
	Perimeter float64       `json:"perimeter"`
	Winding   Winding       `json:"winding"`
}

// Valid reports whether the loop is a usable polygon.
func (l WallLoop) Valid() bool { return l.Closed && len(l.Edges) >= 3 }

// AbsArea returns the unsigned area in mm².
func (l WallLoop) AbsArea() float64 { return math.Abs(l.Area) }

// Walls returns the loop's walls in traversal order.
func (l WallLoop) Walls() []WallSegment {
	walls := make([]WallSegment, len(l.Edges))
	for i, e := range l.Edges {
		walls[i] = e.Wall
	}
	return walls
}

// WallIDs returns the loop's wall ids in traversal order.
func (l WallLoop) WallIDs() []string {
	ids := make([]string, len(l.Edges))
	for i, e := range l.Edges {
		ids[i] = e.Wall.ID
	}
	return ids
}

// Reverse returns the loop walked the other way: edges and points in reverse
// order, each edge's direction toggled, winding flipped and area negated.
func (l WallLoop) Reverse() WallLoop {
	r := WallLoop{
		Edges:     make([]LoopEdge, len(l.Edges)),
		Points:    make([]Point3, len(l.Points)),
		Closed:    l.Closed,
		Area:      -l.Area,
		Perimeter: l.Perimeter,
		Winding:   l.Winding.Flip(),
	}
	if l.Area == 0 {
		r.Area = 0
	}
	for i, e := range l.Edges {
		r.Edges[len(l.Edges)-1-i] = LoopEdge{Wall: e.Wall, Reversed: !e.Reversed}
	}
	for i, p := range l.Points {
		r.Points[len(l.Points)-1-i] = p
	}
	if l.Trailing != nil {
		r.Trailing = append([]WallSegment(nil), l.Trailing...)
	}
	return r
}

// TrimType names a corner convention.
type TrimType int

const (
	TrimAuto TrimType = iota // pick by degree
	TrimMiter
	TrimButt
	TrimLap
)

var trimTypeNames = []string{"Auto", "Miter", "Butt", "Lap"}

func (t TrimType) String() string {
	if t < 0 || int(t) >= len(trimTypeNames) {
		return trimTypeNames[0]
	}
	return trimTypeNames[t]
}

func (t TrimType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TrimType) UnmarshalText(b []byte) error {
	v, err := ParseTrimType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTrimType parses a trim name case-insensitively. The empty string is Auto.
func ParseTrimType(s string) (TrimType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TrimAuto, nil
	}
	for i, n := range trimTypeNames {
		if strings.EqualFold(n, s) {
			return TrimType(i), nil
		}
	}
	return TrimAuto, fmt.Errorf("unknown trim type %q", s)
}

// WallCut is the line a wall's end is clipped along at a joint. Points[0] lies
// on the wall's left face (looking from the joint into the wall), Points[1]
// on its right face.
type WallCut struct {
	WallID string      `json:"wall_id"`
	End    WallEndType `json:"end"`
	Points [2]Point3   `json:"points"`
}

// TrimResult is the corner geometry for one joint. When Success is false the
// caller renders an unclipped overlap; Reason says why.
type TrimResult struct {
	JointID int       `json:"joint_id"`
	Point   Point3    `json:"point"`
	Type    TrimType  `json:"type"`
	Cuts    []WallCut `json:"cuts,omitempty"`
	Points  []Point3  `json:"points,omitempty"`
	Success bool      `json:"success"`
	Reason  string    `json:"reason,omitempty"`
}
