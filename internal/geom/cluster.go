// Package geom holds the tolerance-aware point identity shared by every part
// of the wall engine, plus the small amount of 2D vector math built on top of
// seehuhn.de/go/geom/vec.
//
// Two points are the same location when they lie within eps of each other
// (distance <= eps). Identity is transitive: if a~b and b~c then a, b and c
// are one vertex even when a and c are further apart than eps. This keeps
// vertex identity independent of input order.
package geom

import (
	"math"

	"github.com/piwi3910/WallTopo/internal/model"
)

// cell addresses one eps-sized box of the spatial grid.
type cell struct {
	x, y, z int64
}

// VertexIndex merges a fixed set of points into vertices. It is built once
// and read-only afterwards, so it is safe for concurrent lookups.
type VertexIndex struct {
	eps      float64
	points   []model.Point3
	cells    map[cell][]int // point indices per grid cell
	vertexOf []int          // vertex id per point
	reps     []model.Point3 // representative position per vertex
}

// NewVertexIndex clusters points into vertices. Vertex ids are assigned in
// order of first appearance and each vertex sits at its first member's
// position. A non-positive eps falls back to model.DefaultEpsilon.
func NewVertexIndex(points []model.Point3, eps float64) *VertexIndex {
	if eps <= 0 || math.IsNaN(eps) {
		eps = model.DefaultEpsilon
	}
	idx := &VertexIndex{
		eps:      eps,
		points:   append([]model.Point3(nil), points...),
		cells:    make(map[cell][]int, len(points)),
		vertexOf: make([]int, len(points)),
	}

	parent := make([]int, len(points))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	// Local merge pass: only points in neighbouring cells can be within eps.
	for i, p := range idx.points {
		c := idx.cellOf(p)
		idx.forNeighbours(c, func(j int) {
			if idx.points[j].DistanceTo(p) <= eps {
				union(i, j)
			}
		})
		idx.cells[c] = append(idx.cells[c], i)
	}

	rootVertex := make(map[int]int)
	for i := range idx.points {
		r := find(i)
		id, ok := rootVertex[r]
		if !ok {
			id = len(idx.reps)
			rootVertex[r] = id
			idx.reps = append(idx.reps, idx.points[i])
		}
		idx.vertexOf[i] = id
	}
	return idx
}

func (idx *VertexIndex) cellOf(p model.Point3) cell {
	return cell{
		x: int64(math.Floor(p.X / idx.eps)),
		y: int64(math.Floor(p.Y / idx.eps)),
		z: int64(math.Floor(p.Z / idx.eps)),
	}
}

func (idx *VertexIndex) forNeighbours(c cell, fn func(int)) {
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, j := range idx.cells[cell{c.x + dx, c.y + dy, c.z + dz}] {
					fn(j)
				}
			}
		}
	}
}

// Epsilon returns the merge tolerance.
func (idx *VertexIndex) Epsilon() float64 { return idx.eps }

// Len returns the number of vertices.
func (idx *VertexIndex) Len() int { return len(idx.reps) }

// Vertex returns the position of vertex id.
func (idx *VertexIndex) Vertex(id int) model.Point3 { return idx.reps[id] }

// Vertices returns all vertex positions in id order.
func (idx *VertexIndex) Vertices() []model.Point3 {
	return append([]model.Point3(nil), idx.reps...)
}

// VertexOf returns the vertex id of the i-th input point.
func (idx *VertexIndex) VertexOf(i int) int { return idx.vertexOf[i] }

// Lookup returns the vertex whose nearest member lies within eps of p.
func (idx *VertexIndex) Lookup(p model.Point3) (int, bool) {
	best, bestDist := -1, math.Inf(1)
	idx.forNeighbours(idx.cellOf(p), func(j int) {
		d := idx.points[j].DistanceTo(p)
		if d <= idx.eps && (d < bestDist || (d == bestDist && idx.vertexOf[j] < best)) {
			best, bestDist = idx.vertexOf[j], d
		}
	})
	return best, best >= 0
}

// Close reports whether a and b are the same location under eps.
func Close(a, b model.Point3, eps float64) bool {
	return a.DistanceTo(b) <= eps
}
