package engine

import (
	"math"

	"github.com/piwi3910/WallTopo/internal/geom"
	"github.com/piwi3910/WallTopo/internal/model"
)

// Classify maps a joint's degree, and for degree 2 its angle, to a joint
// type. It is total over all degrees and depends on nothing else.
func Classify(degree int, angle, tol float64) model.JointType {
	switch {
	case degree <= 1:
		return model.JointUnknown
	case degree == 2:
		a := math.Abs(angle)
		if a <= tol || math.Pi-a <= tol {
			return model.JointStraight
		}
		return model.JointL
	case degree == 3:
		return model.JointT
	case degree == 4:
		return model.JointCross
	default:
		return model.JointUnknown
	}
}

// ResolveJoints returns one joint per vertex with at least one wall end,
// ordered by vertex id. Each host (a wall passing through the point) counts
// as two ends for classification, since splitting it there would leave two
// wall ends at the point.
func ResolveJoints(g *WallGraph, angleTol float64) []model.WallJoint {
	if angleTol <= 0 {
		angleTol = model.DefaultAngleEpsilon
	}
	joints := make([]model.WallJoint, 0, g.VertexCount())
	for v := 0; v < g.VertexCount(); v++ {
		if len(g.ends[v]) == 0 {
			continue
		}
		joints = append(joints, resolveVertex(g, v, angleTol))
	}
	return joints
}

func resolveVertex(g *WallGraph, v int, angleTol float64) model.WallJoint {
	j := model.WallJoint{
		ID:    v,
		Point: g.Vertex(v),
		Ends:  g.endsOf(v),
		Hosts: g.hostsOf(v),
	}
	degree := j.Degree() + 2*len(j.Hosts)
	if degree == 2 {
		j.Angle = geom.SignedAngle(geom.Vec(j.Ends[0].Direction()), geom.Vec(j.Ends[1].Direction()))
	}
	j.Type = Classify(degree, j.Angle, angleTol)
	return j
}
