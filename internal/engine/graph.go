package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/WallTopo/internal/geom"
	"github.com/piwi3910/WallTopo/internal/model"
)

// ErrDegenerateWall is matched by every *DegenerateWallError.
var ErrDegenerateWall = errors.New("degenerate wall")

// DegenerateWallError rejects a wall that cannot enter a graph: its endpoints
// coincide, a coordinate is not finite, or its arc has no usable radius.
type DegenerateWallError struct {
	WallID string
	Index  int // position in the input slice
	Reason string
}

func (e *DegenerateWallError) Error() string {
	return fmt.Sprintf("degenerate wall %q at index %d: %s", e.WallID, e.Index, e.Reason)
}

// Is makes errors.Is(err, ErrDegenerateWall) hold.
func (e *DegenerateWallError) Is(target error) bool { return target == ErrDegenerateWall }

// endRef is one wall end attached to a vertex.
type endRef struct {
	wall int
	end  model.WallEndType
}

// WallGraph indexes a wall set by merged endpoint. It is immutable once
// built; callers rebuild it after editing walls.
type WallGraph struct {
	walls     []model.WallSegment
	index     *geom.VertexIndex
	wallVerts [][2]int   // vertex ids of each wall's from and to
	ends      [][]endRef // per vertex, in wall input order, from before to
	hosts     [][]int    // per vertex, walls whose interior passes through it
	eps       float64
}

// BuildGraph validates walls and groups their endpoints into vertices. The
// input slice is copied; later edits to it do not affect the graph.
func BuildGraph(walls []model.WallSegment, cfg Config) (*WallGraph, error) {
	cfg = cfg.normalized()
	eps := cfg.Epsilon

	points := make([]model.Point3, 0, 2*len(walls))
	for i, w := range walls {
		if err := validateWall(i, w, eps); err != nil {
			return nil, err
		}
		points = append(points, w.From, w.To)
	}

	g := &WallGraph{
		walls:     append([]model.WallSegment(nil), walls...),
		index:     geom.NewVertexIndex(points, eps),
		wallVerts: make([][2]int, len(walls)),
		eps:       eps,
	}
	g.ends = make([][]endRef, g.index.Len())
	g.hosts = make([][]int, g.index.Len())

	for i, w := range g.walls {
		from, to := g.index.VertexOf(2*i), g.index.VertexOf(2*i+1)
		if from == to {
			// far apart, but chained together through other endpoints
			return nil, &DegenerateWallError{WallID: w.ID, Index: i, Reason: "endpoints merge into one vertex"}
		}
		g.wallVerts[i] = [2]int{from, to}
		g.ends[from] = append(g.ends[from], endRef{wall: i, end: model.EndFrom})
		g.ends[to] = append(g.ends[to], endRef{wall: i, end: model.EndTo})
	}

	if cfg.DetectMidWall {
		g.detectHosts()
	}

	cfg.Logger.Debug("wall graph built",
		"walls", len(g.walls),
		"vertices", g.index.Len(),
		"epsilon", eps)
	return g, nil
}

func validateWall(i int, w model.WallSegment, eps float64) error {
	fail := func(reason string) error {
		return &DegenerateWallError{WallID: w.ID, Index: i, Reason: reason}
	}
	if !w.From.IsFinite() || !w.To.IsFinite() {
		return fail("non-finite coordinate")
	}
	if w.From.Equal(w.To, eps) {
		return fail(fmt.Sprintf("from and to coincide within %g", eps))
	}
	if w.Arc != nil {
		r := w.Arc.Radius
		if !w.Arc.Center.IsFinite() || math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return fail("arc radius must be positive")
		}
	}
	return nil
}

// detectHosts records, for every vertex, the walls that pass through it
// without ending there.
func (g *WallGraph) detectHosts() {
	for v := 0; v < g.index.Len(); v++ {
		if len(g.ends[v]) == 0 {
			continue
		}
		p := g.index.Vertex(v)
		for i, w := range g.walls {
			if g.wallVerts[i][0] == v || g.wallVerts[i][1] == v {
				continue
			}
			if g.onInterior(w, p) {
				g.hosts[v] = append(g.hosts[v], i)
			}
		}
	}
}

// onInterior reports whether p lies on w within eps but not on its ends.
func (g *WallGraph) onInterior(w model.WallSegment, p model.Point3) bool {
	if math.Abs(p.Z-w.From.Z) > g.eps || w.From.Equal(p, g.eps) || w.To.Equal(p, g.eps) {
		return false
	}
	if w.Arc == nil {
		d, _ := geom.SegmentDistance(geom.Vec3(p), geom.Vec3(w.From), geom.Vec3(w.To))
		return d <= g.eps
	}
	if math.Abs(p.XY().DistanceTo(w.Arc.Center.XY())-w.Arc.Radius) > g.eps {
		return false
	}
	part := model.WallSegment{From: w.From, To: p, Arc: w.Arc}.Sweep()
	full := w.Sweep()
	return math.Abs(part) < math.Abs(full)
}

// Walls returns a copy of the graph's walls in input order.
func (g *WallGraph) Walls() []model.WallSegment {
	return append([]model.WallSegment(nil), g.walls...)
}

// Len returns the number of walls.
func (g *WallGraph) Len() int { return len(g.walls) }

// Epsilon returns the merge tolerance the graph was built with.
func (g *WallGraph) Epsilon() float64 { return g.eps }

// Wall returns the i-th wall.
func (g *WallGraph) Wall(i int) model.WallSegment { return g.walls[i] }

// VertexCount returns the number of distinct endpoints.
func (g *WallGraph) VertexCount() int { return g.index.Len() }

// Vertex returns the position of vertex id.
func (g *WallGraph) Vertex(id int) model.Point3 { return g.index.Vertex(id) }

// Endpoints returns the distinct endpoint positions in vertex id order.
func (g *WallGraph) Endpoints() []model.Point3 { return g.index.Vertices() }

// VertexAt returns the id of the vertex within eps of p.
func (g *WallGraph) VertexAt(p model.Point3) (int, bool) { return g.index.Lookup(p) }

// WallVertices returns the vertex ids of the i-th wall's from and to ends.
func (g *WallGraph) WallVertices(i int) (from, to int) {
	return g.wallVerts[i][0], g.wallVerts[i][1]
}

// WallsAt returns the walls with an end at p, in input order.
func (g *WallGraph) WallsAt(p model.Point3) []model.WallSegment {
	v, ok := g.VertexAt(p)
	if !ok {
		return nil
	}
	walls := make([]model.WallSegment, len(g.ends[v]))
	for i, e := range g.ends[v] {
		walls[i] = g.walls[e.wall]
	}
	return walls
}

// Degree returns the number of wall ends at p. Hosts do not count.
func (g *WallGraph) Degree(p model.Point3) int {
	v, ok := g.VertexAt(p)
	if !ok {
		return 0
	}
	return len(g.ends[v])
}

// EndsAt returns the wall ends at p, in input order with from before to.
func (g *WallGraph) EndsAt(p model.Point3) []model.WallEnd {
	v, ok := g.VertexAt(p)
	if !ok {
		return nil
	}
	return g.endsOf(v)
}

func (g *WallGraph) endsOf(v int) []model.WallEnd {
	ends := make([]model.WallEnd, len(g.ends[v]))
	for i, e := range g.ends[v] {
		ends[i] = model.WallEnd{Wall: g.walls[e.wall], End: e.end}
	}
	return ends
}

func (g *WallGraph) hostsOf(v int) []model.WallEnd {
	if len(g.hosts[v]) == 0 {
		return nil
	}
	hosts := make([]model.WallEnd, len(g.hosts[v]))
	for i, w := range g.hosts[v] {
		hosts[i] = model.WallEnd{Wall: g.walls[w], End: model.EndBetween}
	}
	return hosts
}

// Components partitions the walls into sets connected through shared
// vertices. Each component lists wall indices in input order; components are
// ordered by their first wall.
func (g *WallGraph) Components() [][]int {
	parent := make([]int, g.index.Len())
	for i := range parent {
		parent[i] = i
	}
	find := func(v int) int {
		for parent[v] != v {
			parent[v] = parent[parent[v]]
			v = parent[v]
		}
		return v
	}
	for _, wv := range g.wallVerts {
		a, b := find(wv[0]), find(wv[1])
		if a != b {
			parent[b] = a
		}
	}

	slot := make(map[int]int)
	var comps [][]int
	for i, wv := range g.wallVerts {
		root := find(wv[0])
		k, ok := slot[root]
		if !ok {
			k = len(comps)
			slot[root] = k
			comps = append(comps, nil)
		}
		comps[k] = append(comps[k], i)
	}
	return comps
}
