// Package logging builds the structured slog loggers used by the CLI and
// handed to the engine.
//
// Features:
//   - JSON and text output formats
//   - Log levels (debug, info, warn, error)
//   - A component attribute on every record
//   - stdout, stderr or append-to-file output
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/WallTopo/internal/model"
)

// Level represents a logging level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format represents the output format for logs.
type Format int

const (
	// FormatText outputs human-readable text logs.
	FormatText Format = iota
	// FormatJSON outputs JSON-structured logs.
	FormatJSON
)

// Config holds the logging configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level Level

	// Format is the output format (text or JSON).
	Format Format

	// Output is "stdout", "stderr" or "file". Ignored when Writer is set.
	Output string

	// FilePath is the log file when Output is "file".
	FilePath string

	// Writer overrides Output.
	Writer io.Writer

	// Component is added as a "component" attribute.
	Component string
}

// DefaultConfig returns a default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:     LevelInfo,
		Format:    FormatText,
		Output:    "stderr",
		Component: "walltopo",
	}
}

// FromAppConfig maps the log settings of an application config. Unknown
// names fall back to info and text.
func FromAppConfig(app model.AppConfig) *Config {
	cfg := DefaultConfig()
	if lvl, err := ParseLevel(app.LogLevel); err == nil {
		cfg.Level = lvl
	}
	if f, err := ParseFormat(app.LogFormat); err == nil {
		cfg.Format = f
	}
	return cfg
}

// New creates a logger from cfg. The returned closer releases the log file
// and is a no-op for the standard streams.
func New(cfg *Config) (*slog.Logger, io.Closer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	w, closer, err := openOutput(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("setup output: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	if cfg.Component != "" {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String("component", cfg.Component),
		})
	}

	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openOutput(cfg *Config) (io.Writer, io.Closer, error) {
	if cfg.Writer != nil {
		return cfg.Writer, nopCloser{}, nil
	}
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("file output needs a path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	default:
		return os.Stderr, nopCloser{}, nil
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel parses a string into a log level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format: %s", s)
	}
}

// LevelString returns the string representation of a log level.
func LevelString(level Level) string {
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}
