// Package importer reads wall sets from CSV and Excel wall tables and from DXF
// drawings. Tables support automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
//
// Importers never fail hard on bad rows: problems are collected as messages
// in ImportResult so a partly broken drawing still yields its usable walls.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/WallTopo/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Walls    []model.WallSegment
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	ID        int
	Label     int
	FromX     int
	FromY     int
	ToX       int
	ToY       int
	Z         int
	Thickness int
	Profile   int
	CenterX   int
	CenterY   int
	Direction int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":        {"id", "wall id", "wall_id", "wallid"},
	"label":     {"label", "name", "wall", "description", "desc", "room"},
	"from_x":    {"from_x", "from x", "fromx", "x1", "start x", "start_x", "sx"},
	"from_y":    {"from_y", "from y", "fromy", "y1", "start y", "start_y", "sy"},
	"to_x":      {"to_x", "to x", "tox", "x2", "end x", "end_x", "ex"},
	"to_y":      {"to_y", "to y", "toy", "y2", "end y", "end_y", "ey"},
	"z":         {"z", "elevation", "level", "floor"},
	"thickness": {"thickness", "thick", "t", "width", "wall thickness"},
	"profile":   {"profile", "profile id", "profile_id", "build-up", "type"},
	"center_x":  {"center_x", "center x", "centre x", "cx"},
	"center_y":  {"center_y", "center y", "centre y", "cy"},
	"direction": {"direction", "dir", "arc direction", "sense"},
}

func (m *ColumnMapping) slot(role string) *int {
	switch role {
	case "id":
		return &m.ID
	case "label":
		return &m.Label
	case "from_x":
		return &m.FromX
	case "from_y":
		return &m.FromY
	case "to_x":
		return &m.ToX
	case "to_y":
		return &m.ToY
	case "z":
		return &m.Z
	case "thickness":
		return &m.Thickness
	case "profile":
		return &m.Profile
	case "center_x":
		return &m.CenterX
	case "center_y":
		return &m.CenterY
	case "direction":
		return &m.Direction
	}
	return nil
}

// missing names the endpoint columns a header failed to provide.
func (m ColumnMapping) missing() []string {
	var names []string
	for _, req := range []struct {
		name string
		idx  int
	}{{"From X", m.FromX}, {"From Y", m.FromY}, {"To X", m.ToX}, {"To Y", m.ToY}} {
		if req.idx < 0 {
			names = append(names, req.name)
		}
	}
	return names
}

func emptyMapping() ColumnMapping {
	return ColumnMapping{
		ID: -1, Label: -1, FromX: -1, FromY: -1, ToX: -1, ToY: -1, Z: -1,
		Thickness: -1, Profile: -1, CenterX: -1, CenterY: -1, Direction: -1,
	}
}

// positionalMapping is used for tables without a header:
// Label, FromX, FromY, ToX, ToY, Thickness, Profile.
func positionalMapping() ColumnMapping {
	m := emptyMapping()
	m.Label, m.FromX, m.FromY, m.ToX, m.ToY, m.Thickness, m.Profile = 0, 1, 2, 3, 4, 5, 6
	return m
}

// DetectCSVDelimiter picks the most likely delimiter among comma, semicolon,
// tab and pipe. Rows whose width matches the first row count ten times as
// much as the first row's width; a delimiter giving fewer than two columns
// never wins. Comma is the fallback.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		if score := delimiterScore(data, delim); score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

func delimiterScore(data []byte, delim rune) int {
	records, err := newCSVReader(bytes.NewReader(data), delim).ReadAll()
	if err != nil || len(records) == 0 {
		return 0
	}
	width := len(records[0])
	if width < 2 {
		return 0
	}
	consistent := 0
	for _, row := range records {
		if len(row) == width {
			consistent++
		}
	}
	return consistent*10 + width
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no cell matched a known alias.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := emptyMapping()

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if s := mapping.slot(role); *s == -1 {
					*s = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping(), false
	}
	return mapping, true
}

// parseDirection converts an arc direction cell to a model.ArcDirection.
// It reports whether the string was recognized.
func parseDirection(s string) (model.ArcDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ccw", "counterclockwise", "counter-clockwise", "anticlockwise", "left":
		return model.ArcCounterClockwise, true
	case "cw", "clockwise", "right":
		return model.ArcClockwise, true
	default:
		return model.ArcCounterClockwise, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCoord reads a required numeric cell.
func parseCoord(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a wall from a row using the given column mapping.
// Returns the wall, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, thickness float64) (model.WallSegment, string, []string) {
	var coords [4]float64
	names := [4]string{"from x", "from y", "to x", "to y"}
	cols := [4]int{mapping.FromX, mapping.FromY, mapping.ToX, mapping.ToY}
	for k := range coords {
		v, errMsg := parseCoord(row, cols[k], names[k], rowLabel)
		if errMsg != "" {
			return model.WallSegment{}, errMsg, nil
		}
		coords[k] = v
	}

	var warnings []string
	var z float64
	if s := getCell(row, mapping.Z); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid z '%s', using 0", rowLabel, s))
		} else {
			z = v
		}
	}

	from := model.Point3{X: coords[0], Y: coords[1], Z: z}
	to := model.Point3{X: coords[2], Y: coords[3], Z: z}
	if from.Equal(to, model.DefaultEpsilon) {
		return model.WallSegment{}, fmt.Sprintf("%s: Wall has zero length", rowLabel), nil
	}

	profile := getCell(row, mapping.Profile)
	if s := getCell(row, mapping.Thickness); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		switch {
		case err != nil:
			return model.WallSegment{}, fmt.Sprintf("%s: Invalid thickness '%s'", rowLabel, s), nil
		case v <= 0:
			return model.WallSegment{}, fmt.Sprintf("%s: Thickness must be positive", rowLabel), nil
		}
		thickness = v
	} else if profile != "" {
		thickness = 0 // resolved from the profile
	}

	w := model.NewWall(from, to, thickness)
	w.ProfileID = profile
	w.Label = getCell(row, mapping.Label)
	if id := getCell(row, mapping.ID); id != "" {
		w.ID = id
	}

	cxs, cys := getCell(row, mapping.CenterX), getCell(row, mapping.CenterY)
	if cxs != "" || cys != "" {
		cx, errX := strconv.ParseFloat(cxs, 64)
		cy, errY := strconv.ParseFloat(cys, 64)
		if errX != nil || errY != nil {
			return model.WallSegment{}, fmt.Sprintf("%s: Invalid arc center '%s, %s'", rowLabel, cxs, cys), nil
		}
		dirStr := getCell(row, mapping.Direction)
		dir, ok := parseDirection(dirStr)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown arc direction '%s', defaulting to CCW", rowLabel, dirStr))
		}
		center := model.Point3{X: cx, Y: cy, Z: z}
		arc := model.NewArcWall(from, to, center, dir, thickness)
		w.Arc = arc.Arc
		if d := to.DistanceTo(center) - w.Arc.Radius; d > model.DefaultEpsilon || d < -model.DefaultEpsilon {
			warnings = append(warnings, fmt.Sprintf("%s: End point is %.2f mm off the arc", rowLabel, d))
		}
	}

	return w, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// delimiterNames labels the non-comma delimiters in warnings.
var delimiterNames = map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}

// newCSVReader returns a lenient reader: ragged rows and stray quotes are
// accepted and sorted out per row.
func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader
}

// readRecords reads every record. On failure the returned result already
// carries the reason and any warnings collected so far.
func readRecords(r io.Reader, delimiter rune, warnings []string) ([][]string, *ImportResult) {
	records, err := newCSVReader(r, delimiter).ReadAll()
	if err != nil {
		return nil, &ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}, Warnings: warnings}
	}
	if len(records) == 0 {
		return nil, &ImportResult{Errors: []string{"File is empty"}, Warnings: warnings}
	}
	return records, nil
}

// ImportCSV imports walls from a CSV file. Rows without a thickness get
// thickness, unless they name a profile.
func ImportCSV(path string, thickness float64) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if name, ok := delimiterNames[delimiter]; ok {
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	records, failed := readRecords(bytes.NewReader(data), delimiter, warnings)
	if failed != nil {
		return *failed
	}
	return importFromRows(records, "Line", thickness, warnings)
}

// ImportCSVFromReader imports walls from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, thickness float64) ImportResult {
	records, failed := readRecords(reader, delimiter, nil)
	if failed != nil {
		return *failed
	}
	return importFromRows(records, "Line", thickness, nil)
}

// ImportExcel imports walls from the first sheet of an Excel (.xlsx) file.
func ImportExcel(path string, thickness float64) ImportResult {
	rows, errMsg := firstSheetRows(path)
	if errMsg != "" {
		return ImportResult{Errors: []string{errMsg}}
	}
	return importFromRows(rows, "Row", thickness, nil)
}

// firstSheetRows returns the cell text of the workbook's first sheet, or a
// message saying why it has none.
func firstSheetRows(path string) ([][]string, string) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Sprintf("Cannot open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "Excel file has no sheets"
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Sprintf("Cannot read Excel data: %v", err)
	}
	if len(rows) == 0 {
		return nil, "Sheet is empty"
	}
	return rows, ""
}

// headerStart works out how rows[0] should be read. It returns the column
// mapping, the index of the first data row, and whether a header was seen.
// An error message means a header was found but lacks endpoint columns.
func headerStart(first []string) (mapping ColumnMapping, start int, header bool, errMsg string) {
	mapping, header = DetectColumns(first)
	if header {
		if missing := mapping.missing(); len(missing) > 0 {
			return mapping, 1, true, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", "))
		}
		return mapping, 1, true, ""
	}
	// An unrecognized header keeps the positional mapping but is skipped.
	if len(first) >= 5 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(first[1]), 64); err != nil {
			return mapping, 1, true, ""
		}
	}
	return mapping, 0, false, ""
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, thickness float64, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, startRow, header, errMsg := headerStart(rows[0])
	if header {
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}
	if errMsg != "" {
		result.Errors = append(result.Errors, errMsg)
		return result
	}

	seen := make(map[string]string)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		w, errMsg, warnings := parseRow(row, mapping, rowLabel, thickness)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		if prev, dup := seen[w.ID]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate wall id '%s' (first seen on %s)", rowLabel, w.ID, prev))
			continue
		}
		seen[w.ID] = rowLabel
		result.Walls = append(result.Walls, w)
	}

	return result
}
