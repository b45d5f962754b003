package engine

import (
	"io"
	"log/slog"

	"github.com/piwi3910/WallTopo/internal/model"
)

// Config holds the tolerances and knobs shared by every part of the engine.
type Config struct {
	Epsilon      float64 // mm; endpoints closer than this are one vertex
	AngleEpsilon float64 // radians; straight-joint and parallel-face tolerance
	MiterLimit   float64 // max miter length as a multiple of half the thickness
	Workers      int     // 0 = GOMAXPROCS

	// DetectMidWall records walls whose interior passes through a vertex.
	DetectMidWall bool

	// Profiles resolves thickness for walls that only carry a profile id.
	Profiles *model.ProfileCatalog

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Epsilon:      model.DefaultEpsilon,
		AngleEpsilon: model.DefaultAngleEpsilon,
		MiterLimit:   model.DefaultMiterLimit,
	}
}

// ConfigFromApp copies the engine-relevant settings out of an AppConfig.
func ConfigFromApp(app model.AppConfig) Config {
	app.Normalize()
	return Config{
		Epsilon:       app.Epsilon,
		AngleEpsilon:  app.AngleEpsilon,
		MiterLimit:    app.MiterLimit,
		Workers:       app.Workers,
		DetectMidWall: app.DetectMidWall,
	}
}

func (c Config) normalized() Config {
	if c.Epsilon <= 0 {
		c.Epsilon = model.DefaultEpsilon
	}
	if c.AngleEpsilon <= 0 {
		c.AngleEpsilon = model.DefaultAngleEpsilon
	}
	if c.MiterLimit <= 0 {
		c.MiterLimit = model.DefaultMiterLimit
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}
