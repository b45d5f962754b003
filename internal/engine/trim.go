package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"seehuhn.de/go/geom/vec"

	"github.com/piwi3910/WallTopo/internal/geom"
	"github.com/piwi3910/WallTopo/internal/model"
)

// Trimmer computes corner geometry for resolved joints. It holds no mutable
// state, so one Trimmer may serve any number of goroutines.
//
// Every wall end is modelled as an arm leaving the joint point P along its
// unit direction d, with left normal n = (-d.y, d.x) and half thickness h.
// Its faces are the lines through P + n*h and P - n*h running along d.
// A cut is the segment where a wall's two faces are clipped; its first point
// lies on the left face.
type Trimmer struct {
	profiles   *model.ProfileCatalog
	angleTol   float64
	miterLimit float64
}

// NewTrimmer creates a Trimmer from the engine config.
func NewTrimmer(cfg Config) *Trimmer {
	cfg = cfg.normalized()
	return &Trimmer{
		profiles:   cfg.Profiles,
		angleTol:   cfg.AngleEpsilon,
		miterLimit: cfg.MiterLimit,
	}
}

// AutoTrim picks the trim used when none is requested: walls passing through
// the point force Butt, two ends Miter, three ends Butt, anything else Miter.
func AutoTrim(degree, hosts int) model.TrimType {
	switch {
	case hosts > 0:
		return model.TrimButt
	case degree == 3:
		return model.TrimButt
	default:
		return model.TrimMiter
	}
}

type arm struct {
	wallID string
	end    model.WallEndType
	d, n   vec.Vec2
	h      float64
}

// corner is a joint prepared for trimming.
type corner struct {
	p     vec.Vec2
	z     float64
	arms  []arm
	hosts []arm
	tol   float64
}

func (c *corner) facePoint(a arm, side float64) vec.Vec2 {
	return c.p.Add(a.n.Mul(side * a.h))
}

// Resolve computes the trim for a joint. Failures are reported in the result,
// never as a panic.
func (t *Trimmer) Resolve(j model.WallJoint, requested model.TrimType) model.TrimResult {
	res := model.TrimResult{JointID: j.ID, Point: j.Point, Type: requested}

	if len(j.Ends) == 0 {
		res.Reason = "joint has no walls"
		return res
	}
	c, err := t.prepare(j)
	if err != nil {
		res.Reason = err.Error()
		return res
	}

	typ := requested
	if typ == model.TrimAuto {
		typ = AutoTrim(len(j.Ends), len(j.Hosts))
	}
	res.Type = typ

	var cuts [][2]vec.Vec2
	switch {
	case len(c.hosts) > 0 && typ != model.TrimButt:
		err = fmt.Errorf("%s trim cannot clip against a wall passing through the joint", typ)
	case len(c.hosts) > 0:
		cuts, err = c.buttHost()
	case typ == model.TrimMiter:
		cuts, res.Points, err = c.miter(t.miterLimit)
	case typ == model.TrimButt:
		cuts, err = c.butt(t.miterLimit)
	case typ == model.TrimLap:
		cuts, err = c.lap()
	default:
		err = fmt.Errorf("unknown trim type %d", typ)
	}
	if err != nil {
		res.Points = nil
		res.Reason = err.Error()
		return res
	}

	res.Cuts = make([]model.WallCut, len(cuts))
	for i, cut := range cuts {
		a := c.arms[i]
		res.Cuts[i] = model.WallCut{
			WallID: a.wallID,
			End:    a.end,
			Points: [2]model.Point3{geom.Lift(cut[0], c.z), geom.Lift(cut[1], c.z)},
		}
	}
	if res.Points == nil {
		for _, cut := range res.Cuts {
			res.Points = append(res.Points, cut.Points[0], cut.Points[1])
		}
	}
	res.Success = true
	return res
}

// prepare turns the joint's ends and hosts into arms, resolving thickness.
func (t *Trimmer) prepare(j model.WallJoint) (*corner, error) {
	c := &corner{p: geom.Vec3(j.Point), z: j.Point.Z, tol: math.Sin(t.angleTol)}
	for _, e := range j.Ends {
		a, err := t.newArm(e.Wall, e.End, geom.Vec(e.Direction()))
		if err != nil {
			return nil, err
		}
		c.arms = append(c.arms, a)
	}
	for _, hw := range j.Hosts {
		a, err := t.newArm(hw.Wall, model.EndBetween, hostDirection(hw.Wall, j.Point))
		if err != nil {
			return nil, err
		}
		c.hosts = append(c.hosts, a)
	}
	return c, nil
}

func (t *Trimmer) newArm(w model.WallSegment, end model.WallEndType, dir vec.Vec2) (arm, error) {
	thick := t.profiles.ThicknessOf(w)
	if thick <= 0 || math.IsNaN(thick) || math.IsInf(thick, 0) {
		return arm{}, fmt.Errorf("wall %q has no thickness", w.ID)
	}
	d, ok := geom.Unit(dir)
	if !ok {
		return arm{}, fmt.Errorf("wall %q has no direction at the joint", w.ID)
	}
	return arm{wallID: w.ID, end: end, d: d, n: geom.Normal(d), h: thick / 2}, nil
}

// hostDirection is the direction of travel of w at p, which lies on its
// interior.
func hostDirection(w model.WallSegment, p model.Point3) vec.Vec2 {
	if w.Arc == nil {
		return geom.Vec3(w.To).Sub(geom.Vec3(w.From))
	}
	r := geom.Vec3(p).Sub(geom.Vec3(w.Arc.Center))
	tangent := geom.Normal(r)
	if w.Arc.Direction == model.ArcClockwise {
		tangent = tangent.Mul(-1)
	}
	return tangent
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// overlapping reports whether two arms leave the joint in the same direction.
func (c *corner) overlapping(a, b arm) bool {
	return a.d.Dot(b.d) > 0 && math.Abs(geom.Cross(a.d, b.d)) <= c.tol
}

var errOverlap = errors.New("walls overlap at the joint (degenerate angle)")

// ─── Miter ────────────────────────────────────

// miter sorts the arms by heading and gives every gap between neighbours one
// corner: the meeting point of the first arm's left face and the second's
// right face. Each wall is cut between the corners on either side of it.
func (c *corner) miter(limit float64) ([][2]vec.Vec2, []model.Point3, error) {
	n := len(c.arms)
	cuts := make([][2]vec.Vec2, n)
	if n == 1 {
		a := c.arms[0]
		cuts[0] = [2]vec.Vec2{c.facePoint(a, 1), c.facePoint(a, -1)}
		return cuts, nil, nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return geom.Heading(c.arms[order[x]].d) < geom.Heading(c.arms[order[y]].d)
	})

	var pts []model.Point3
	for k := range order {
		i, j := order[k], order[(k+1)%n]
		a, b := c.arms[i], c.arms[j]
		if c.overlapping(a, b) {
			return nil, nil, errOverlap
		}
		onA, onB, err := c.pairCorner(a, b, limit)
		if err != nil {
			return nil, nil, err
		}
		cuts[i][0] = onA
		cuts[j][1] = onB
		pts = append(pts, geom.Lift(onA, c.z))
		if onB != onA {
			pts = append(pts, geom.Lift(onB, c.z))
		}
	}
	return cuts, pts, nil
}

// pairCorner intersects a's left face with b's right face. Opposite arms have
// parallel faces and fall back to square cuts through the joint point.
func (c *corner) pairCorner(a, b arm, limit float64) (vec.Vec2, vec.Vec2, error) {
	fa := c.facePoint(a, 1)
	fb := c.facePoint(b, -1)
	x, ok := geom.IntersectLines(fa, a.d, fb, b.d, c.tol)
	if !ok {
		return fa, fb, nil
	}
	if x.Sub(c.p).Length() > limit*math.Max(a.h, b.h) {
		return vec.Vec2{}, vec.Vec2{}, fmt.Errorf("miter between %q and %q exceeds the miter limit", a.wallID, b.wallID)
	}
	return x, x, nil
}

// ─── Butt ────────────────────────────────────

// cutAgainst clips both faces of w on the face of other lying on side.
func (c *corner) cutAgainst(w, other arm, side float64) ([2]vec.Vec2, error) {
	fo := c.facePoint(other, side)
	left, okL := geom.IntersectLines(c.facePoint(w, 1), w.d, fo, other.d, c.tol)
	right, okR := geom.IntersectLines(c.facePoint(w, -1), w.d, fo, other.d, c.tol)
	if !okL || !okR {
		return [2]vec.Vec2{}, fmt.Errorf("faces of %q and %q do not intersect", w.wallID, other.wallID)
	}
	return [2]vec.Vec2{left, right}, nil
}

func (c *corner) squareCuts() [][2]vec.Vec2 {
	cuts := make([][2]vec.Vec2, len(c.arms))
	for i, a := range c.arms {
		cuts[i] = [2]vec.Vec2{c.facePoint(a, 1), c.facePoint(a, -1)}
	}
	return cuts
}

// butt handles two walls (the first runs through, the second stops at it)
// and three walls (a through run plus a stem).
func (c *corner) butt(limit float64) ([][2]vec.Vec2, error) {
	switch len(c.arms) {
	case 1:
		return c.squareCuts(), nil
	case 2:
		return c.butt2(c.arms[0], c.arms[1])
	case 3:
		return c.butt3(limit)
	default:
		return nil, fmt.Errorf("butt trim supports 2 or 3 walls, joint has %d", len(c.arms))
	}
}

func (c *corner) butt2(a, b arm) ([][2]vec.Vec2, error) {
	cr := geom.Cross(a.d, b.d)
	if math.Abs(cr) <= c.tol {
		if a.d.Dot(b.d) > 0 {
			return nil, errOverlap
		}
		return c.squareCuts(), nil
	}
	s := sign(cr)
	// b sits on side s of a; b's face on side s is the one away from a
	through, err := c.cutAgainst(a, b, s)
	if err != nil {
		return nil, err
	}
	stop, err := c.cutAgainst(b, a, s)
	if err != nil {
		return nil, err
	}
	return [][2]vec.Vec2{through, stop}, nil
}

// butt3 mitres the most opposite pair into a through run and butts the
// remaining stem against the face of the run that looks at it.
func (c *corner) butt3(limit float64) ([][2]vec.Vec2, error) {
	bi, bj, best := 0, 1, math.Inf(1)
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if d := c.arms[i].d.Dot(c.arms[j].d); d < best {
				bi, bj, best = i, j, d
			}
		}
	}
	k := 3 - bi - bj

	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if c.overlapping(c.arms[i], c.arms[j]) {
				return nil, errOverlap
			}
		}
	}

	run := &corner{p: c.p, z: c.z, arms: []arm{c.arms[bi], c.arms[bj]}, tol: c.tol}
	runCuts, _, err := run.miter(limit)
	if err != nil {
		return nil, err
	}

	// clip the stem on whichever through arm it crosses most squarely
	stem := c.arms[k]
	t := c.arms[bi]
	if math.Abs(geom.Cross(c.arms[bj].d, stem.d)) > math.Abs(geom.Cross(t.d, stem.d)) {
		t = c.arms[bj]
	}
	stemCut, err := c.cutAgainst(stem, t, sign(geom.Cross(t.d, stem.d)))
	if err != nil {
		return nil, err
	}

	cuts := make([][2]vec.Vec2, 3)
	cuts[bi], cuts[bj], cuts[k] = runCuts[0], runCuts[1], stemCut
	return cuts, nil
}

// buttHost stops every wall end at the face of the first wall passing
// through the joint. Host walls are not cut.
func (c *corner) buttHost() ([][2]vec.Vec2, error) {
	host := c.hosts[0]
	cuts := make([][2]vec.Vec2, len(c.arms))
	for i, a := range c.arms {
		cr := geom.Cross(host.d, a.d)
		if math.Abs(cr) <= c.tol {
			return nil, errOverlap
		}
		cut, err := c.cutAgainst(a, host, sign(cr))
		if err != nil {
			return nil, err
		}
		cuts[i] = cut
	}
	return cuts, nil
}

// ─── Lap ────────────────────────────────────

// lap runs both walls through to the other's far face.
func (c *corner) lap() ([][2]vec.Vec2, error) {
	if len(c.arms) != 2 {
		return nil, fmt.Errorf("lap trim supports 2 walls, joint has %d", len(c.arms))
	}
	a, b := c.arms[0], c.arms[1]
	cr := geom.Cross(a.d, b.d)
	if math.Abs(cr) <= c.tol {
		if a.d.Dot(b.d) > 0 {
			return nil, errOverlap
		}
		return nil, errors.New("lap trim needs an angled joint, walls are collinear")
	}
	s := sign(cr)
	cutA, err := c.cutAgainst(a, b, s)
	if err != nil {
		return nil, err
	}
	cutB, err := c.cutAgainst(b, a, -s)
	if err != nil {
		return nil, err
	}
	return [][2]vec.Vec2{cutA, cutB}, nil
}
