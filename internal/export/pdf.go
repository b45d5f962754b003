// Package export renders analysed floor plans to PDF: a plan drawing with
// corner cuts and a summary page, and QR-coded room tags.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/WallTopo/internal/engine"
	"github.com/piwi3910/WallTopo/internal/model"
)

// rgb is a fill or stroke color.
type rgb struct {
	R, G, B int
}

// roomColors are the pale fills used for closed loops.
var roomColors = []rgb{
	{R: 200, G: 230, B: 201}, // green
	{R: 187, G: 222, B: 251}, // blue
	{R: 255, G: 224, B: 178}, // orange
	{R: 225, G: 190, B: 231}, // purple
	{R: 178, G: 235, B: 242}, // cyan
	{R: 255, G: 249, B: 196}, // yellow
}

// jointColors index by model.JointType.
var jointColors = []rgb{
	{R: 158, G: 158, B: 158}, // unknown
	{R: 33, G: 150, B: 243},  // straight
	{R: 76, G: 175, B: 80},   // L
	{R: 255, G: 152, B: 0},   // T
	{R: 156, G: 39, B: 176},  // cross
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 14.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// squareMetres is "m²" in the cp1252 encoding of the core PDF fonts.
const squareMetres = "m\xb2"

// ExportPDF writes the plan and its analysis to a PDF: one page with the
// drawing (rooms, walls, corner cuts, joint markers) and one summary page.
func ExportPDF(path string, plan model.Floorplan, analysis *engine.Analysis) error {
	if len(plan.Walls) == 0 {
		return fmt.Errorf("no walls to export")
	}
	if analysis == nil {
		return fmt.Errorf("no analysis to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderPlanPage(pdf, plan, analysis)

	pdf.AddPage()
	renderSummaryPage(pdf, plan, analysis)

	return pdf.OutputFileAndClose(path)
}

// viewport maps plan millimetres onto the page.
type viewport struct {
	minX, minY float64
	scale      float64
	offX, offY float64
}

// fitViewport scales the bounding box of pts into a w x h area at (x, y),
// centered horizontally.
func fitViewport(pts []model.Point2, x, y, w, h float64) viewport {
	if len(pts) == 0 {
		return viewport{scale: 1, offX: x, offY: y}
	}
	minP, maxP := pts[0], pts[0]
	for _, p := range pts[1:] {
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}
	spanX := math.Max(maxP.X-minP.X, 1)
	spanY := math.Max(maxP.Y-minP.Y, 1)
	scale := math.Min(w/spanX, h/spanY)
	return viewport{
		minX:  minP.X,
		minY:  minP.Y,
		scale: scale,
		offX:  x + (w-spanX*scale)/2,
		offY:  y,
	}
}

func (v viewport) pt(p model.Point2) (float64, float64) {
	return v.offX + (p.X-v.minX)*v.scale, v.offY + (p.Y-v.minY)*v.scale
}

// wallPath samples a wall from From to To. Straight walls give their two
// endpoints; arcs are split into chords of at most pi/32.
func wallPath(w model.WallSegment) []model.Point2 {
	if !w.IsArc() {
		return []model.Point2{w.From.XY(), w.To.XY()}
	}
	sweep := w.Sweep()
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 32)))
	if n < 2 {
		n = 2
	}
	c := w.Arc.Center.XY()
	a0 := math.Atan2(w.From.Y-c.Y, w.From.X-c.X)
	pts := make([]model.Point2, 0, n+1)
	pts = append(pts, w.From.XY())
	for i := 1; i < n; i++ {
		a := a0 + sweep*float64(i)/float64(n)
		pts = append(pts, model.Point2{X: c.X + w.Arc.Radius*math.Cos(a), Y: c.Y + w.Arc.Radius*math.Sin(a)})
	}
	return append(pts, w.To.XY())
}

// loopOutline samples a loop in traversal order, without the closing
// duplicate point.
func loopOutline(l model.WallLoop) []model.Point2 {
	var pts []model.Point2
	for _, e := range l.Edges {
		path := wallPath(e.Oriented())
		pts = append(pts, path[:len(path)-1]...)
	}
	if !l.Closed && len(l.Edges) > 0 {
		pts = append(pts, l.Edges[len(l.Edges)-1].End().XY())
	}
	return pts
}

// centroid returns the area centroid of a polygon, or the vertex mean when
// the polygon has no area.
func centroid(pts []model.Point2) model.Point2 {
	var a, cx, cy float64
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		cross := p.X*q.Y - q.X*p.Y
		a += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	if math.Abs(a) < 1e-9 {
		var m model.Point2
		for _, p := range pts {
			m = m.Add(p)
		}
		if len(pts) > 0 {
			m = m.Scale(1 / float64(len(pts)))
		}
		return m
	}
	return model.Point2{X: cx / (3 * a), Y: cy / (3 * a)}
}

// renderPlanPage draws the floor plan on the current PDF page.
func renderPlanPage(pdf *fpdf.Fpdf, plan model.Floorplan, a *engine.Analysis) {
	summary := a.Summary()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, plan.Name, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Walls: %d | Joints: %d | Rooms: %d | Floor area: %.2f "+squareMetres+" | Failed trims: %d",
		summary.Walls, summary.Joints, summary.ClosedLoops, summary.TotalArea/1e6, summary.FailedTrims)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	var extent []model.Point2
	for _, w := range plan.Walls {
		extent = append(extent, wallPath(w)...)
	}
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	vp := fitViewport(extent, marginLeft, drawAreaTop, drawWidth, drawHeight)

	drawRooms(pdf, a.Loops, vp)
	drawWalls(pdf, plan, vp)
	drawCuts(pdf, a.Trims, vp)
	drawJoints(pdf, a.Joints, vp)
	drawJointLegend(pdf, summary, pageHeight-marginBottom-legendHeight+4)
}

// drawRooms fills every valid loop and writes its area at the centroid.
func drawRooms(pdf *fpdf.Fpdf, loops []model.WallLoop, vp viewport) {
	room := 0
	for _, l := range loops {
		if !l.Valid() {
			continue
		}
		outline := loopOutline(l)
		poly := make([]fpdf.PointType, len(outline))
		for i, p := range outline {
			x, y := vp.pt(p)
			poly[i] = fpdf.PointType{X: x, Y: y}
		}
		col := roomColors[room%len(roomColors)]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Polygon(poly, "F")

		room++
		c := centroid(outline)
		x, y := vp.pt(c)
		label := fmt.Sprintf("Room %d  %.2f "+squareMetres, room, l.AbsArea()/1e6)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(60, 60, 60)
		lw := pdf.GetStringWidth(label)
		pdf.SetXY(x-lw/2, y-2)
		pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawWalls strokes each wall along its centerline at its scaled thickness.
func drawWalls(pdf *fpdf.Fpdf, plan model.Floorplan, vp viewport) {
	pdf.SetLineCapStyle("butt")
	pdf.SetDrawColor(90, 90, 90)
	for _, w := range plan.Walls {
		width := plan.Profiles.ThicknessOf(w) * vp.scale
		if width < 0.2 {
			width = 0.2
		}
		pdf.SetLineWidth(width)
		path := wallPath(w)
		for i := 0; i+1 < len(path); i++ {
			x1, y1 := vp.pt(path[i])
			x2, y2 := vp.pt(path[i+1])
			pdf.Line(x1, y1, x2, y2)
		}
	}
	pdf.SetLineCapStyle("round")
}

// drawCuts draws each successful cut line in red.
func drawCuts(pdf *fpdf.Fpdf, trims []model.TrimResult, vp viewport) {
	pdf.SetDrawColor(211, 47, 47)
	pdf.SetLineWidth(0.3)
	for _, tr := range trims {
		if !tr.Success {
			continue
		}
		for _, c := range tr.Cuts {
			x1, y1 := vp.pt(c.Points[0].XY())
			x2, y2 := vp.pt(c.Points[1].XY())
			pdf.Line(x1, y1, x2, y2)
		}
	}
}

// drawJoints marks every joint with a dot colored by type.
func drawJoints(pdf *fpdf.Fpdf, joints []model.WallJoint, vp viewport) {
	for _, j := range joints {
		col := jointColors[int(j.Type)%len(jointColors)]
		x, y := vp.pt(j.Point.XY())
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Circle(x, y, 0.8, "F")
	}
}

// drawJointLegend lists the joint types with their counts.
func drawJointLegend(pdf *fpdf.Fpdf, s engine.Summary, y float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(20, 4, "Joints:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	x := marginLeft + 22
	for t := model.JointUnknown; t <= model.JointCross; t++ {
		col := jointColors[t]
		label := fmt.Sprintf("%s (%d)", t, s.JointTypes[t])
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Circle(x+1.5, y+2, 1.2, "F")
		pdf.SetXY(x+4, y)
		w := pdf.GetStringWidth(label) + 2
		pdf.CellFormat(w, 4, label, "", 0, "L", false, 0, "")
		x += w + 8
	}

	pdf.SetDrawColor(211, 47, 47)
	pdf.SetLineWidth(0.3)
	pdf.Line(x, y+2, x+5, y+2)
	pdf.SetXY(x+6, y)
	pdf.CellFormat(20, 4, "Cut line", "", 0, "L", false, 0, "")
}

// renderSummaryPage draws the analysis tables.
func renderSummaryPage(pdf *fpdf.Fpdf, plan model.Floorplan, a *engine.Analysis) {
	s := a.Summary()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Wall Topology Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Walls", fmt.Sprintf("%d", s.Walls)},
		{"Total Wall Length", fmt.Sprintf("%.2f m", plan.TotalWallLength()/1000)},
		{"Joints", fmt.Sprintf("%d", s.Joints)},
		{"Closed Loops", fmt.Sprintf("%d", s.ClosedLoops)},
		{"Open Chains", fmt.Sprintf("%d", s.OpenLoops)},
		{"Floor Area", fmt.Sprintf("%.2f "+squareMetres, s.TotalArea/1e6)},
		{"Failed Trims", fmt.Sprintf("%d", s.FailedTrims)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Loops", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 25, 30, 45, 45, 40}
	headers := []string{"Loop", "Walls", "Closed", "Area", "Perimeter", "Winding"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, l := range a.Loops {
		if y > pageHeight-marginBottom-30 {
			break
		}
		xPos = marginLeft
		closed := "no"
		if l.Closed {
			closed = "yes"
		}
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(l.Edges)),
			closed,
			fmt.Sprintf("%.2f "+squareMetres, l.AbsArea()/1e6),
			fmt.Sprintf("%.0f mm", l.Perimeter),
			l.Winding.String(),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	failed := failedTrims(a.Trims)
	if len(failed) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unresolved Corners", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, tr := range failed {
			if y > pageHeight-marginBottom-8 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- Joint %d at (%.0f, %.0f), %s: %s", tr.JointID, tr.Point.X, tr.Point.Y, tr.Type, tr.Reason)
			pdf.CellFormat(250, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by WallTopo", "", 0, "C", false, 0, "")
}

// failedTrims returns the trims that could not be resolved.
func failedTrims(trims []model.TrimResult) []model.TrimResult {
	var out []model.TrimResult
	for _, tr := range trims {
		if !tr.Success {
			out = append(out, tr)
		}
	}
	return out
}
