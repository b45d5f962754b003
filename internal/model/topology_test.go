package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestJointType_Text(t *testing.T) {
	for _, jt := range []JointType{JointUnknown, JointStraight, JointL, JointT, JointCross} {
		b, err := jt.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText: %v", err)
		}
		var back JointType
		if err := back.UnmarshalText(b); err != nil || back != jt {
			t.Errorf("round trip %v gave %v (%v)", jt, back, err)
		}
	}
	if JointType(42).String() != "Unknown" {
		t.Error("out of range joint types should print as Unknown")
	}
	var jt JointType
	_ = jt.UnmarshalText([]byte("x"))
	if jt != JointUnknown {
		t.Errorf("unknown names should parse as Unknown, got %v", jt)
	}
}

func TestWallJoint_Helpers(t *testing.T) {
	j := WallJoint{
		Ends:  []WallEnd{{Wall: WallSegment{ID: "a"}}, {Wall: WallSegment{ID: "b"}, End: EndTo}},
		Angle: -math.Pi / 2,
	}
	if j.Degree() != 2 {
		t.Errorf("Degree = %d", j.Degree())
	}
	if walls := j.Walls(); walls[1].ID != "b" {
		t.Errorf("Walls = %+v", walls)
	}
	if !near(j.AngleDegrees(), 90) {
		t.Errorf("AngleDegrees = %f", j.AngleDegrees())
	}
}

func TestLoopEdge_Orientation(t *testing.T) {
	w := NewWall(Point3{X: 0}, Point3{X: 10}, 1)
	e := LoopEdge{Wall: w, Reversed: true}
	if e.Start() != w.To || e.End() != w.From {
		t.Error("reversed edge should run To->From")
	}
	if o := e.Oriented(); o.From != w.To || o.ID != w.ID {
		t.Errorf("Oriented = %+v", o)
	}
	if e.Length() != 10 {
		t.Errorf("Length = %f", e.Length())
	}
}

func squareLoop() WallLoop {
	pts := []Point3{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}}
	var edges []LoopEdge
	for i := range pts {
		w := WallSegment{ID: string(rune('a' + i)), From: pts[i], To: pts[(i+1)%4]}
		edges = append(edges, LoopEdge{Wall: w})
	}
	return WallLoop{
		Edges:     edges,
		Points:    append(append([]Point3(nil), pts...), pts[0]),
		Closed:    true,
		Area:      1e6,
		Perimeter: 4000,
		Winding:   Clockwise,
	}
}

func TestWallLoop_Reverse(t *testing.T) {
	l := squareLoop()
	r := l.Reverse()

	if r.Area != -l.Area || r.Winding != CounterClockwise || r.Perimeter != l.Perimeter {
		t.Errorf("unexpected reversed loop %+v", r)
	}
	if ids := r.WallIDs(); ids[0] != "d" || ids[3] != "a" {
		t.Errorf("reversed ids = %v", ids)
	}
	for i, e := range r.Edges {
		if !e.Reversed {
			t.Errorf("edge %d not toggled", i)
		}
		if e.Start() != r.Points[i] {
			t.Errorf("edge %d starts at %+v, point is %+v", i, e.Start(), r.Points[i])
		}
	}
	if l.Edges[0].Reversed {
		t.Error("Reverse mutated its receiver")
	}

	back := r.Reverse()
	if back.Area != l.Area || back.Winding != l.Winding || back.Edges[0].Wall.ID != "a" || back.Edges[0].Reversed {
		t.Error("double reverse should restore the loop")
	}
}

func TestWallLoop_ReverseOpenChainKeepsZeroArea(t *testing.T) {
	l := WallLoop{Edges: []LoopEdge{{Wall: WallSegment{ID: "a"}}}, Points: make([]Point3, 2), Trailing: []WallSegment{{ID: "t"}}}
	r := l.Reverse()
	if r.Area != 0 || math.Signbit(r.Area) {
		t.Errorf("open chain area should stay +0, got %v", r.Area)
	}
	if len(r.Trailing) != 1 {
		t.Error("trailing walls lost")
	}
}

func TestWallLoop_Valid(t *testing.T) {
	l := squareLoop()
	if !l.Valid() || l.AbsArea() != 1e6 {
		t.Error("square should be valid")
	}
	l.Closed = false
	if l.Valid() {
		t.Error("open chain should not be valid")
	}
	two := WallLoop{Closed: true, Edges: make([]LoopEdge, 2)}
	if two.Valid() {
		t.Error("two-edge loop should not be valid")
	}
}

func TestWinding_Text(t *testing.T) {
	data, err := json.Marshal(struct{ W Winding }{CounterClockwise})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"W":"CounterClockwise"}` {
		t.Errorf("unexpected JSON %s", data)
	}
	if Clockwise.Flip() != CounterClockwise {
		t.Error("Flip")
	}
}

func TestParseTrimType(t *testing.T) {
	tests := []struct {
		in   string
		want TrimType
		ok   bool
	}{
		{"", TrimAuto, true},
		{"auto", TrimAuto, true},
		{"MITER", TrimMiter, true},
		{" butt ", TrimButt, true},
		{"Lap", TrimLap, true},
		{"scarf", TrimAuto, false},
	}
	for _, tt := range tests {
		got, err := ParseTrimType(tt.in)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("ParseTrimType(%q) = %v, %v", tt.in, got, err)
		}
	}

	var tt TrimType
	if err := json.Unmarshal([]byte(`"lap"`), &tt); err != nil || tt != TrimLap {
		t.Errorf("unmarshal lap: %v %v", tt, err)
	}
	if err := json.Unmarshal([]byte(`"nope"`), &tt); err == nil {
		t.Error("expected error for unknown trim")
	}
}
