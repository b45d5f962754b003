package engine

import (
	"github.com/piwi3910/WallTopo/internal/model"
)

// TraceGraph partitions the graph into connected components and chases each
// one into loops. Components are traced concurrently; the result lists them
// in component order, each in chase order, so it is deterministic.
func TraceGraph(g *WallGraph, workers int) []model.WallLoop {
	comps := g.Components()
	perComp := make([][]model.WallLoop, len(comps))

	parallel(len(comps), workers, func(i int) {
		perComp[i] = chaseComponent(g, comps[i])
	})

	var loops []model.WallLoop
	for _, ls := range perComp {
		loops = append(loops, ls...)
	}
	return loops
}

// Trace builds a graph from walls and traces it.
func Trace(walls []model.WallSegment, cfg Config) ([]model.WallLoop, error) {
	g, err := BuildGraph(walls, cfg)
	if err != nil {
		return nil, err
	}
	return TraceGraph(g, cfg.Workers), nil
}
