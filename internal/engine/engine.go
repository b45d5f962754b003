package engine

import (
	"log/slog"

	"github.com/piwi3910/WallTopo/internal/model"
)

// Engine runs the wall-topology pipeline: graph, joints, loops and trims.
// Every method is a pure function of its arguments and the engine's config.
type Engine struct {
	cfg     Config
	log     *slog.Logger
	trimmer *Trimmer
}

func New(cfg Config) *Engine {
	cfg = cfg.normalized()
	return &Engine{
		cfg:     cfg,
		log:     cfg.Logger,
		trimmer: NewTrimmer(cfg),
	}
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config { return e.cfg }

// Build indexes walls into a graph.
func (e *Engine) Build(walls []model.WallSegment) (*WallGraph, error) {
	return BuildGraph(walls, e.cfg)
}

// Resolve classifies every vertex of the graph.
func (e *Engine) Resolve(g *WallGraph) []model.WallJoint {
	joints := ResolveJoints(g, e.cfg.AngleEpsilon)
	e.log.Debug("joints resolved", "joints", len(joints))
	return joints
}

// Trace builds a graph from walls and chases it into loops.
func (e *Engine) Trace(walls []model.WallSegment) ([]model.WallLoop, error) {
	g, err := e.Build(walls)
	if err != nil {
		return nil, err
	}
	return e.TraceGraph(g), nil
}

// TraceGraph chases an existing graph into loops.
func (e *Engine) TraceGraph(g *WallGraph) []model.WallLoop {
	loops := TraceGraph(g, e.cfg.Workers)
	e.log.Debug("loops traced", "loops", len(loops))
	return loops
}

// ResolveTrim computes the corner geometry of one joint.
func (e *Engine) ResolveTrim(j model.WallJoint, requested model.TrimType) model.TrimResult {
	return e.trimmer.Resolve(j, requested)
}

// ResolveTrims computes the trims of all joints concurrently. Result i
// belongs to joints[i].
func (e *Engine) ResolveTrims(joints []model.WallJoint, requested model.TrimType) []model.TrimResult {
	results := make([]model.TrimResult, len(joints))
	parallel(len(joints), e.cfg.Workers, func(i int) {
		results[i] = e.trimmer.Resolve(joints[i], requested)
	})
	for _, r := range results {
		if !r.Success {
			e.log.Debug("trim failed", "joint", r.JointID, "type", r.Type.String(), "reason", r.Reason)
		}
	}
	return results
}

// Analysis is the full output of one pipeline run.
type Analysis struct {
	Graph  *WallGraph         `json:"-"`
	Joints []model.WallJoint  `json:"joints"`
	Loops  []model.WallLoop   `json:"loops"`
	Trims  []model.TrimResult `json:"trims"`
}

// Analyze runs the whole pipeline over walls. Dangling ends (degree 1) are
// trimmed too; they get a square cut.
func (e *Engine) Analyze(walls []model.WallSegment, requested model.TrimType) (*Analysis, error) {
	g, err := e.Build(walls)
	if err != nil {
		return nil, err
	}
	a := &Analysis{Graph: g}
	a.Joints = e.Resolve(g)
	a.Loops = e.TraceGraph(g)
	a.Trims = e.ResolveTrims(a.Joints, requested)

	s := a.Summary()
	e.log.Debug("analysis complete",
		"walls", s.Walls,
		"joints", s.Joints,
		"closed_loops", s.ClosedLoops,
		"open_loops", s.OpenLoops,
		"failed_trims", s.FailedTrims)
	return a, nil
}

// Summary holds headline counts of an analysis.
type Summary struct {
	Walls       int                     `json:"walls"`
	Joints      int                     `json:"joints"`
	JointTypes  map[model.JointType]int `json:"joint_types"`
	ClosedLoops int                     `json:"closed_loops"`
	OpenLoops   int                     `json:"open_loops"`
	TotalArea   float64                 `json:"total_area"` // mm², closed loops only
	FailedTrims int                     `json:"failed_trims"`
}

// Summary counts joints by type, loops by state and failed trims.
func (a *Analysis) Summary() Summary {
	s := Summary{JointTypes: make(map[model.JointType]int)}
	if a.Graph != nil {
		s.Walls = a.Graph.Len()
	}
	s.Joints = len(a.Joints)
	for _, j := range a.Joints {
		s.JointTypes[j.Type]++
	}
	for _, l := range a.Loops {
		if l.Closed {
			s.ClosedLoops++
			s.TotalArea += l.AbsArea()
		} else {
			s.OpenLoops++
		}
	}
	for _, t := range a.Trims {
		if !t.Success {
			s.FailedTrims++
		}
	}
	return s
}

// TrimFor returns the trim of the joint with the given vertex id.
func (a *Analysis) TrimFor(jointID int) (model.TrimResult, bool) {
	for _, t := range a.Trims {
		if t.JointID == jointID {
			return t, true
		}
	}
	return model.TrimResult{}, false
}
