package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/WallTopo/internal/model"
)

// ImportDXF imports walls from a DXF drawing. Every LINE becomes a straight
// wall, every ARC a curved wall, every LWPOLYLINE a run of walls (bulged
// vertices give curved walls) and every CIRCLE two half-circle walls. Walls
// are centerlines and all get the given thickness.
func ImportDXF(path string, thickness float64) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	skipped := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			w, ok := lineWall(e.Start, e.End, thickness)
			if !ok {
				result.Warnings = append(result.Warnings, "Skipped zero-length LINE")
				continue
			}
			result.Walls = append(result.Walls, w)

		case *entity.Arc:
			w, ok := arcWall(e.Circle.Center, e.Circle.Radius, e.Angle[0], e.Angle[1], thickness)
			if !ok {
				result.Warnings = append(result.Warnings, "Skipped degenerate ARC")
				continue
			}
			result.Walls = append(result.Walls, w)

		case *entity.Circle:
			walls, ok := circleWalls(e.Center, e.Radius, thickness)
			if !ok {
				result.Warnings = append(result.Warnings, "Skipped CIRCLE with no radius")
				continue
			}
			result.Walls = append(result.Walls, walls...)

		case *entity.LwPolyline:
			walls, dropped := polylineWalls(e.Vertices, e.Bulges, e.Closed, thickness)
			if dropped > 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Skipped %d zero-length LWPOLYLINE segment(s)", dropped))
			}
			result.Walls = append(result.Walls, walls...)

		default:
			skipped++
		}
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}
	if len(result.Walls) == 0 {
		result.Errors = append(result.Errors, "No walls found in DXF file")
		return result
	}

	for i := range result.Walls {
		result.Walls[i].Label = fmt.Sprintf("DXF Wall %d", i+1)
	}
	return result
}

// point reads a DXF coordinate triple; missing components are 0.
func point(c []float64) model.Point3 {
	var p model.Point3
	if len(c) > 0 {
		p.X = c[0]
	}
	if len(c) > 1 {
		p.Y = c[1]
	}
	if len(c) > 2 {
		p.Z = c[2]
	}
	return p
}

func lineWall(start, end []float64, thickness float64) (model.WallSegment, bool) {
	from, to := point(start), point(end)
	if from.Equal(to, model.DefaultEpsilon) {
		return model.WallSegment{}, false
	}
	return model.NewWall(from, to, thickness), true
}

// arcWall converts a DXF arc (angles in degrees, always counter-clockwise).
func arcWall(center []float64, radius, startDeg, endDeg, thickness float64) (model.WallSegment, bool) {
	if radius <= 0 {
		return model.WallSegment{}, false
	}
	c := point(center)
	a0 := startDeg * math.Pi / 180
	a1 := endDeg * math.Pi / 180
	from := model.Point3{X: c.X + radius*math.Cos(a0), Y: c.Y + radius*math.Sin(a0), Z: c.Z}
	to := model.Point3{X: c.X + radius*math.Cos(a1), Y: c.Y + radius*math.Sin(a1), Z: c.Z}
	if from.Equal(to, model.DefaultEpsilon) {
		// a closed arc is a circle
		return model.WallSegment{}, false
	}
	return model.NewArcWall(from, to, c, model.ArcCounterClockwise, thickness), true
}

// circleWalls splits a circle into two half-circle walls so neither has
// coincident endpoints.
func circleWalls(center []float64, radius, thickness float64) ([]model.WallSegment, bool) {
	if radius <= 0 {
		return nil, false
	}
	upper, ok1 := arcWall(center, radius, 0, 180, thickness)
	lower, ok2 := arcWall(center, radius, 180, 360, thickness)
	if !ok1 || !ok2 {
		return nil, false
	}
	return []model.WallSegment{upper, lower}, true
}

// polylineWalls turns polyline vertices into walls, one per segment. A
// non-zero bulge on vertex i curves the segment from i to i+1. It returns the
// walls and the number of zero-length segments dropped.
func polylineWalls(vertices [][]float64, bulges []float64, closed bool, thickness float64) ([]model.WallSegment, int) {
	n := len(vertices)
	segments := n - 1
	if closed {
		segments = n
	}

	var walls []model.WallSegment
	dropped := 0
	for i := 0; i < segments; i++ {
		from := point(vertices[i])
		to := point(vertices[(i+1)%n])
		if from.Equal(to, model.DefaultEpsilon) {
			dropped++
			continue
		}

		bulge := 0.0
		if i < len(bulges) {
			bulge = bulges[i]
		}
		if math.Abs(bulge) > 1e-9 {
			center, dir := bulgeArc(from, to, bulge)
			walls = append(walls, model.NewArcWall(from, to, center, dir, thickness))
			continue
		}
		walls = append(walls, model.NewWall(from, to, thickness))
	}
	return walls, dropped
}

// bulgeArc returns the center and direction of the arc from p1 to p2 with
// the given DXF bulge, the tangent of a quarter of the included angle.
// Positive bulges run counter-clockwise.
func bulgeArc(p1, p2 model.Point3, bulge float64) (model.Point3, model.ArcDirection) {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	chord := math.Hypot(dx, dy)
	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2

	// signed distance from the chord midpoint to the center, along the
	// chord's left normal
	offset := chord / 2 * (1 - bulge*bulge) / (2 * bulge)
	center := model.Point3{
		X: mx - dy/chord*offset,
		Y: my + dx/chord*offset,
		Z: p1.Z,
	}
	if bulge < 0 {
		return center, model.ArcClockwise
	}
	return center, model.ArcCounterClockwise
}
