package engine

import (
	"github.com/piwi3910/WallTopo/internal/geom"
	"github.com/piwi3910/WallTopo/internal/model"
)

// chaseComponent walks a component's walls into loops with the greedy chase:
// start at the first remaining wall, then keep taking the first remaining
// wall whose from (as is) or to (flipped) sits on the chain's last vertex.
// A chain that runs out of matches ends the component: whatever is left
// becomes its Trailing list.
func chaseComponent(g *WallGraph, walls []int) []model.WallLoop {
	pool := append([]int(nil), walls...)
	var loops []model.WallLoop

	for len(pool) > 0 {
		first := pool[0]
		pool = pool[1:]

		edges := []model.LoopEdge{{Wall: g.walls[first]}}
		start, last := g.wallVerts[first][0], g.wallVerts[first][1]
		vertices := 2
		closed := false

		for {
			if vertices >= 3 && last == start {
				closed = true
				break
			}
			k, flip := nextWall(g, pool, last)
			if k < 0 {
				break
			}
			w := pool[k]
			pool = removeAt(pool, k)
			edges = append(edges, model.LoopEdge{Wall: g.walls[w], Reversed: flip})
			if flip {
				last = g.wallVerts[w][0]
			} else {
				last = g.wallVerts[w][1]
			}
			vertices++
		}

		loop := buildLoop(edges, closed)
		if !closed && len(pool) > 0 {
			loop.Trailing = make([]model.WallSegment, len(pool))
			for i, w := range pool {
				loop.Trailing[i] = g.walls[w]
			}
			pool = nil
		}
		loops = append(loops, loop)
	}
	return loops
}

// nextWall returns the pool position of the first wall touching vertex v and
// whether it must be walked to->from. It returns -1 when none touches v.
func nextWall(g *WallGraph, pool []int, v int) (int, bool) {
	for k, w := range pool {
		if g.wallVerts[w][0] == v {
			return k, false
		}
		if g.wallVerts[w][1] == v {
			return k, true
		}
	}
	return -1, false
}

// removeAt returns s without element k, leaving s itself untouched.
func removeAt(s []int, k int) []int {
	out := make([]int, 0, len(s)-1)
	out = append(out, s[:k]...)
	return append(out, s[k+1:]...)
}

// buildLoop derives points, area, perimeter and winding from an edge chain.
func buildLoop(edges []model.LoopEdge, closed bool) model.WallLoop {
	loop := model.WallLoop{
		Edges:  edges,
		Points: make([]model.Point3, 0, len(edges)+1),
		Closed: closed,
	}
	for _, e := range edges {
		loop.Points = append(loop.Points, e.Start())
		loop.Perimeter += e.Length()
	}
	loop.Points = append(loop.Points, edges[len(edges)-1].End())

	if closed {
		loop.Area = SignedArea(loop.Points) + arcCorrection(edges)
		loop.Winding = windingOf(loop.Area)
	} else {
		// open chains have no area; the label comes from the implied closure
		loop.Winding = windingOf(SignedArea(loop.Points))
	}
	return loop
}

// SignedArea returns sum(x_i*y_{i+1} - x_{i+1}*y_i)/2 over the polygon
// through pts, closing it back to the first point. Positive is Clockwise with
// x to the right and y pointing down.
func SignedArea(pts []model.Point3) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// arcCorrection adds, for every curved edge, the signed area between its
// chord and its arc.
func arcCorrection(edges []model.LoopEdge) float64 {
	var sum float64
	for _, e := range edges {
		w := e.Oriented()
		if w.Arc == nil {
			continue
		}
		c := geom.Vec3(w.Arc.Center)
		a, b := geom.Vec3(w.From), geom.Vec3(w.To)
		r := w.Arc.Radius
		along := r*r*w.Sweep() + geom.Cross(c, b.Sub(a))
		sum += (along - geom.Cross(a, b)) / 2
	}
	return sum
}

func windingOf(area float64) model.Winding {
	if area < 0 {
		return model.CounterClockwise
	}
	return model.Clockwise
}
