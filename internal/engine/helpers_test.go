package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/WallTopo/internal/model"
)

func pt(x, y float64) model.Point3 { return model.Point3{X: x, Y: y} }

func wall(id string, x1, y1, x2, y2 float64) model.WallSegment {
	return model.WallSegment{ID: id, From: pt(x1, y1), To: pt(x2, y2), Thickness: 120}
}

// unitSquare is a 1000 mm room walked (0,0) -> (1000,0) -> (1000,1000) ->
// (0,1000).
func unitSquare() []model.WallSegment {
	return []model.WallSegment{
		wall("s1", 0, 0, 1000, 0),
		wall("s2", 1000, 0, 1000, 1000),
		wall("s3", 1000, 1000, 0, 1000),
		wall("s4", 0, 1000, 0, 0),
	}
}

func offsetSquare(prefix string, dx, dy float64) []model.WallSegment {
	walls := unitSquare()
	for i := range walls {
		walls[i].ID = prefix + walls[i].ID
		walls[i].From = walls[i].From.Add(pt(dx, dy))
		walls[i].To = walls[i].To.Add(pt(dx, dy))
	}
	return walls
}

// grid returns an n x n block of 1000 mm rooms built from single-span walls.
func grid(n int) []model.WallSegment {
	var walls []model.WallSegment
	for k := 0; k <= n; k++ {
		for i := 0; i < n; i++ {
			y := float64(k) * 1000
			x := float64(i) * 1000
			walls = append(walls, model.NewWall(pt(x, y), pt(x+1000, y), 120))
			walls = append(walls, model.NewWall(pt(y, x), pt(y, x+1000), 120))
		}
	}
	return walls
}

func testEngine() *Engine {
	return New(DefaultConfig())
}

func assertPoint(t *testing.T, want, got model.Point3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-6, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, 1e-6, msgAndArgs...)
}

func assertCut(t *testing.T, cut model.WallCut, left, right model.Point3) {
	t.Helper()
	assertPoint(t, left, cut.Points[0], "left face of %s", cut.WallID)
	assertPoint(t, right, cut.Points[1], "right face of %s", cut.WallID)
}
