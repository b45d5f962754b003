// Command walltopo analyses a wall layout: it merges wall endpoints into
// joints, classifies them, traces rooms and computes corner trims.
//
// Usage:
//
//	walltopo [flags] <plan.json|plan.dxf|walls.csv|walls.xlsx>
//	walltopo [flags] -template <name>
//
// Examples:
//
//	# Summary of a saved floorplan
//	walltopo plan.json
//
//	# Import a DXF, miter every corner and render the plan
//	walltopo -trim miter -pdf plan.pdf walls.dxf
//
//	# Re-run whenever the file changes
//	walltopo -watch -json plan.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/piwi3910/WallTopo/internal/engine"
	"github.com/piwi3910/WallTopo/internal/export"
	"github.com/piwi3910/WallTopo/internal/importer"
	"github.com/piwi3910/WallTopo/internal/logging"
	"github.com/piwi3910/WallTopo/internal/model"
	"github.com/piwi3910/WallTopo/internal/project"
)

var version = "dev"

type options struct {
	trim     model.TrimType
	pdf      string
	labels   string
	save     string
	template string
	json     bool
}

func main() {
	configPath := flag.String("config", project.DefaultConfigPath(), "config file (.json, .toml, .yaml)")
	trimStr := flag.String("trim", "", "corner convention: auto, miter, butt, lap (default: from config)")
	pdfPath := flag.String("pdf", "", "write the plan and summary to this PDF")
	labelsPath := flag.String("labels", "", "write QR room labels to this PDF")
	savePath := flag.String("save", "", "save the walls as a floorplan document")
	templateName := flag.String("template", "", "analyse a saved layout template instead of a file")
	jsonOut := flag.Bool("json", false, "print the full analysis as JSON")
	watch := flag.Bool("watch", false, "re-run when the input changes")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (default: from config)")
	logFormat := flag.String("log-format", "", "log format: text, json (default: from config)")
	versionFlag := flag.Bool("version", false, "print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "walltopo - wall topology, joints and corner trims\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <plan.json|plan.dxf|walls.csv|walls.xlsx>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *versionFlag {
		fmt.Printf("walltopo %s\n", version)
		os.Exit(0)
	}
	if flag.NArg() < 1 && *templateName == "" {
		fmt.Fprintf(os.Stderr, "Error: input file required\n\n")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *trimStr != "" {
		cfg.DefaultTrim = *trimStr
	}
	trim, err := model.ParseTrimType(cfg.DefaultTrim)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger, closer, err := logging.New(logging.FromAppConfig(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	opts := options{
		trim:     trim,
		pdf:      *pdfPath,
		labels:   *labelsPath,
		save:     *savePath,
		template: *templateName,
		json:     *jsonOut,
	}
	input := flag.Arg(0)

	if err := run(os.Stdout, logger, cfg, input, opts); err != nil {
		logger.Error("analysis failed", "input", input, "error", err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}
	if input == "" {
		fmt.Fprintf(os.Stderr, "Error: -watch needs an input file\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching for changes", "path", input)
	err = project.Watch(ctx, input, project.DefaultDebounce, func(string) {
		if err := run(os.Stdout, logger, cfg, input, opts); err != nil {
			logger.Error("analysis failed", "input", input, "error", err)
		}
	})
	if err != nil {
		logger.Error("watch stopped", "error", err)
		os.Exit(1)
	}
}

// run loads the plan, analyses it and writes every requested output.
func run(out io.Writer, logger *slog.Logger, cfg model.AppConfig, input string, opts options) error {
	plan, err := loadPlan(logger, cfg, input, opts.template)
	if err != nil {
		return err
	}

	ecfg := engine.ConfigFromApp(cfg)
	ecfg.Logger = logger
	ecfg.Profiles = &plan.Profiles
	analysis, err := engine.New(ecfg).Analyze(plan.Walls, opts.trim)
	if err != nil {
		return err
	}

	if opts.json {
		if err := writeJSON(out, analysis); err != nil {
			return err
		}
	} else {
		writeSummary(out, plan, analysis)
	}

	if opts.save != "" {
		if err := project.SaveFloorplan(opts.save, plan); err != nil {
			return err
		}
		logger.Info("floorplan saved", "path", opts.save)
	}
	if opts.pdf != "" {
		if err := export.ExportPDF(opts.pdf, plan, analysis); err != nil {
			return err
		}
		logger.Info("plan exported", "path", opts.pdf)
	}
	if opts.labels != "" {
		if err := export.ExportRoomLabels(opts.labels, plan, analysis.Loops); err != nil {
			return err
		}
		logger.Info("room labels exported", "path", opts.labels)
	}
	return nil
}

// loadPlan reads input by extension. Imported wall tables and drawings pick
// up the user's profile catalog so profile ids still resolve.
func loadPlan(logger *slog.Logger, cfg model.AppConfig, input, template string) (model.Floorplan, error) {
	if input == "" {
		store, err := project.LoadDefaultTemplates()
		if err != nil {
			return model.Floorplan{}, err
		}
		t := store.FindByName(template)
		if t == nil {
			return model.Floorplan{}, fmt.Errorf("template %q not found", template)
		}
		return t.ToFloorplan(t.Name), nil
	}

	ext := strings.ToLower(filepath.Ext(input))
	if ext == ".json" {
		return project.LoadFloorplan(input)
	}

	var result importer.ImportResult
	switch ext {
	case ".dxf":
		result = importer.ImportDXF(input, cfg.DefaultThickness)
	case ".csv", ".tsv", ".txt":
		result = importer.ImportCSV(input, cfg.DefaultThickness)
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(input, cfg.DefaultThickness)
	default:
		return model.Floorplan{}, fmt.Errorf("unsupported input type %q", ext)
	}
	for _, w := range result.Warnings {
		logger.Warn("import", "input", input, "warning", w)
	}
	for _, e := range result.Errors {
		logger.Warn("import", "input", input, "error", e)
	}
	if len(result.Walls) == 0 {
		return model.Floorplan{}, errors.New("no walls imported")
	}

	profiles, err := project.LoadProfiles(project.DefaultProfilesPath())
	if err != nil {
		return model.Floorplan{}, err
	}

	plan := model.NewFloorplan()
	plan.Name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	plan.Walls = result.Walls
	plan.Profiles = profiles
	logger.Debug("walls imported", "input", input, "walls", len(plan.Walls))
	return plan, nil
}

func writeJSON(out io.Writer, a *engine.Analysis) error {
	doc := struct {
		Summary engine.Summary `json:"summary"`
		*engine.Analysis
	}{a.Summary(), a}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeSummary(out io.Writer, plan model.Floorplan, a *engine.Analysis) {
	s := a.Summary()
	fmt.Fprintf(out, "%s: %d walls, %d joints\n", plan.Name, s.Walls, s.Joints)

	types := make([]model.JointType, 0, len(s.JointTypes))
	for jt := range s.JointTypes {
		types = append(types, jt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, jt := range types {
		fmt.Fprintf(out, "  %-8s %d\n", jt, s.JointTypes[jt])
	}

	fmt.Fprintf(out, "loops: %d closed, %d open, %.2f m² enclosed\n",
		s.ClosedLoops, s.OpenLoops, s.TotalArea/1e6)
	for i, l := range a.Loops {
		state := "open"
		if l.Closed {
			state = "closed"
		}
		fmt.Fprintf(out, "  #%d %s, %d walls, %.2f m², %.0f mm, %s\n",
			i+1, state, len(l.Edges), l.AbsArea()/1e6, l.Perimeter, l.Winding)
	}

	if s.FailedTrims > 0 {
		fmt.Fprintf(out, "unresolved corners: %d\n", s.FailedTrims)
		for _, t := range a.Trims {
			if !t.Success {
				fmt.Fprintf(out, "  joint %d (%.0f, %.0f): %s\n", t.JointID, t.Point.X, t.Point.Y, t.Reason)
			}
		}
	}
}
