package model

// AppConfig holds application-wide tolerances and defaults.
type AppConfig struct {
	// Engine tolerances
	Epsilon      float64 `json:"epsilon" toml:"epsilon" yaml:"epsilon"`                   // mm; points closer than this are one vertex
	AngleEpsilon float64 `json:"angle_epsilon" toml:"angle_epsilon" yaml:"angle_epsilon"` // radians; straight-joint tolerance
	MiterLimit   float64 `json:"miter_limit" toml:"miter_limit" yaml:"miter_limit"`       // max miter length / half thickness

	// Engine defaults
	DefaultTrim      string  `json:"default_trim" toml:"default_trim" yaml:"default_trim"`                // "auto", "miter", "butt", "lap"
	DefaultThickness float64 `json:"default_thickness" toml:"default_thickness" yaml:"default_thickness"` // mm for imported walls
	DetectMidWall    bool    `json:"detect_mid_wall" toml:"detect_mid_wall" yaml:"detect_mid_wall"`
	Workers          int     `json:"workers" toml:"workers" yaml:"workers"` // 0 = GOMAXPROCS

	// Logging
	LogLevel  string `json:"log_level" toml:"log_level" yaml:"log_level"`    // "debug", "info", "warn", "error"
	LogFormat string `json:"log_format" toml:"log_format" yaml:"log_format"` // "text" or "json"

	RecentPlans []string `json:"recent_plans" toml:"recent_plans" yaml:"recent_plans"`
}

// DefaultAngleEpsilon is the default straight-joint tolerance in radians.
const DefaultAngleEpsilon = 1e-3

// DefaultMiterLimit caps miter length at this multiple of the half thickness.
const DefaultMiterLimit = 10.0

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Epsilon:          DefaultEpsilon,
		AngleEpsilon:     DefaultAngleEpsilon,
		MiterLimit:       DefaultMiterLimit,
		DefaultTrim:      "auto",
		DefaultThickness: 120,
		DetectMidWall:    false,
		Workers:          0,
		LogLevel:         "info",
		LogFormat:        "text",
		RecentPlans:      []string{},
	}
}

// Normalize replaces unset or invalid tolerances with their defaults.
func (c *AppConfig) Normalize() {
	if c.Epsilon <= 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.AngleEpsilon <= 0 {
		c.AngleEpsilon = DefaultAngleEpsilon
	}
	if c.MiterLimit <= 0 {
		c.MiterLimit = DefaultMiterLimit
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.RecentPlans == nil {
		c.RecentPlans = []string{}
	}
}

// AddRecentPlan moves path to the front of the recent list, keeping at most
// ten entries.
func (c *AppConfig) AddRecentPlan(path string) {
	list := []string{path}
	for _, p := range c.RecentPlans {
		if p != path && len(list) < 10 {
			list = append(list, p)
		}
	}
	c.RecentPlans = list
}
