package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"github.com/piwi3910/WallTopo/internal/model"
)

func p(x, y float64) model.Point3 { return model.Point3{X: x, Y: y} }

// ─── Vertex Index Tests ────────────────────────────────────

func TestVertexIndex_MergesWithinEpsilon(t *testing.T) {
	const eps = 1.0
	const delta = 1e-6

	idx := NewVertexIndex([]model.Point3{p(0, 0), p(eps-delta, 0)}, eps)
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, idx.VertexOf(0), idx.VertexOf(1))

	idx = NewVertexIndex([]model.Point3{p(0, 0), p(eps+delta, 0)}, eps)
	assert.Equal(t, 2, idx.Len())
	assert.NotEqual(t, idx.VertexOf(0), idx.VertexOf(1))
}

func TestVertexIndex_AcrossCellBoundary(t *testing.T) {
	// 0.999 and 1.001 land in different grid cells but are still one vertex.
	idx := NewVertexIndex([]model.Point3{p(0.999, 5), p(1.001, 5)}, 1.0)
	assert.Equal(t, 1, idx.Len())
}

func TestVertexIndex_ChainIsTransitive(t *testing.T) {
	// a~b and b~c, a and c are 1.6 apart
	pts := []model.Point3{p(0, 0), p(1.6, 0), p(0.8, 0)}
	idx := NewVertexIndex(pts, 1.0)
	require.Equal(t, 1, idx.Len())
	for i := range pts {
		assert.Equal(t, 0, idx.VertexOf(i))
	}
}

func TestVertexIndex_OrderIndependentPartition(t *testing.T) {
	fwd := []model.Point3{p(0, 0), p(0.8, 0), p(1.6, 0), p(10, 10)}
	rev := []model.Point3{p(10, 10), p(1.6, 0), p(0.8, 0), p(0, 0)}

	a := NewVertexIndex(fwd, 1.0)
	b := NewVertexIndex(rev, 1.0)
	assert.Equal(t, a.Len(), b.Len())
	assert.Equal(t, 2, a.Len())
	// same grouping, ids in first-appearance order
	assert.Equal(t, a.VertexOf(0), a.VertexOf(2))
	assert.Equal(t, b.VertexOf(1), b.VertexOf(3))
}

func TestVertexIndex_FirstMemberIsRepresentative(t *testing.T) {
	idx := NewVertexIndex([]model.Point3{p(5, 5), p(2, 2), p(5.5, 5)}, 1.0)
	require.Equal(t, 2, idx.Len())
	assert.Equal(t, p(5, 5), idx.Vertex(0))
	assert.Equal(t, p(2, 2), idx.Vertex(1))
	assert.Equal(t, []model.Point3{p(5, 5), p(2, 2)}, idx.Vertices())
}

func TestVertexIndex_Lookup(t *testing.T) {
	idx := NewVertexIndex([]model.Point3{p(0, 0), p(100, 0)}, 1.0)

	id, ok := idx.Lookup(p(0.5, 0.5))
	assert.True(t, ok)
	assert.Equal(t, 0, id)

	id, ok = idx.Lookup(p(99.2, 0))
	assert.True(t, ok)
	assert.Equal(t, 1, id)

	_, ok = idx.Lookup(p(50, 0))
	assert.False(t, ok)
}

func TestVertexIndex_ZSeparates(t *testing.T) {
	idx := NewVertexIndex([]model.Point3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 3000}}, 1.0)
	assert.Equal(t, 2, idx.Len())
}

func TestVertexIndex_DefaultEpsilon(t *testing.T) {
	idx := NewVertexIndex(nil, 0)
	assert.Equal(t, model.DefaultEpsilon, idx.Epsilon())
	assert.Equal(t, 0, idx.Len())
}

func TestVertexIndex_NegativeCoordinates(t *testing.T) {
	idx := NewVertexIndex([]model.Point3{p(-0.4, -0.4), p(0.3, 0.3)}, 1.0)
	assert.Equal(t, 1, idx.Len())
}

// ─── Vector Tests ────────────────────────────────────

func TestSignedAngle(t *testing.T) {
	x := vec.Vec2{X: 1}
	y := vec.Vec2{Y: 1}
	assert.InDelta(t, math.Pi/2, SignedAngle(x, y), 1e-12)
	assert.InDelta(t, -math.Pi/2, SignedAngle(y, x), 1e-12)
	assert.InDelta(t, math.Pi, math.Abs(SignedAngle(x, vec.Vec2{X: -1})), 1e-12)
	assert.Equal(t, 0.0, SignedAngle(x, x))
	assert.Equal(t, 0.0, SignedAngle(x, vec.Vec2{}))
}

func TestSignedAngle_ClampsOvershoot(t *testing.T) {
	a := vec.Vec2{X: 1e-9, Y: 1}
	b := vec.Vec2{X: 1e-9, Y: 1}
	got := SignedAngle(a, b)
	assert.False(t, math.IsNaN(got))
	assert.InDelta(t, 0, got, 1e-6)
}

func TestIntersectLines(t *testing.T) {
	got, ok := IntersectLines(vec.Vec2{X: 0, Y: 1}, vec.Vec2{X: 1}, vec.Vec2{X: 3, Y: 0}, vec.Vec2{Y: 1}, 1e-9)
	require.True(t, ok)
	assert.InDelta(t, 3, got.X, 1e-12)
	assert.InDelta(t, 1, got.Y, 1e-12)

	_, ok = IntersectLines(vec.Vec2{}, vec.Vec2{X: 1}, vec.Vec2{Y: 1}, vec.Vec2{X: -2}, 1e-9)
	assert.False(t, ok)
}

func TestSegmentDistance(t *testing.T) {
	d, tt := SegmentDistance(vec.Vec2{X: 5, Y: 3}, vec.Vec2{}, vec.Vec2{X: 10})
	assert.InDelta(t, 3, d, 1e-12)
	assert.InDelta(t, 0.5, tt, 1e-12)

	d, tt = SegmentDistance(vec.Vec2{X: -4, Y: 3}, vec.Vec2{}, vec.Vec2{X: 10})
	assert.InDelta(t, 5, d, 1e-12)
	assert.Equal(t, 0.0, tt)
}

func TestNormalAndHeading(t *testing.T) {
	n := Normal(vec.Vec2{X: 1})
	assert.Equal(t, vec.Vec2{X: 0, Y: 1}, n)
	assert.InDelta(t, 3*math.Pi/2, Heading(vec.Vec2{Y: -1}), 1e-12)
	assert.Equal(t, p(1, 2).XY(), model.Point2{X: 1, Y: 2})
	assert.Equal(t, model.Point3{X: 1, Y: 2, Z: 7}, Lift(Vec3(p(1, 2)), 7))
}
