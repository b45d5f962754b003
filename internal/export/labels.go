package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/WallTopo/internal/model"
)

// RoomTag holds the data encoded into each room tag's QR code.
type RoomTag struct {
	Room      string   `json:"room"`
	Plan      string   `json:"plan"`
	WallIDs   []string `json:"walls"`
	Area      float64  `json:"area_m2"`
	Perimeter float64  `json:"perimeter_mm"`
	Winding   string   `json:"winding"`
	X         float64  `json:"x_mm"`
	Y         float64  `json:"y_mm"`
}

// labelSheet describes a sheet of equally sized sticky labels in mm.
type labelSheet struct {
	size         string // fpdf page size
	cols, rows   int
	marginLeft   float64
	marginTop    float64
	width        float64
	height       float64
	pitchX       float64 // left edge to left edge
	pitchY       float64
	qrSize       float64
	padding      float64
	qrResolution int // px
}

// roomSheet is an A4 sheet of 21 labels of 63.5mm x 38.1mm (Avery L7160).
var roomSheet = labelSheet{
	size:         "A4",
	cols:         3,
	rows:         7,
	marginLeft:   7.2,
	marginTop:    15.15,
	width:        63.5,
	height:       38.1,
	pitchX:       66.0,
	pitchY:       38.1,
	qrSize:       30.0,
	padding:      2.5,
	qrResolution: 320,
}

func (s labelSheet) perPage() int { return s.cols * s.rows }

// cell returns the top-left corner of label i on its page and whether it
// starts a new page.
func (s labelSheet) cell(i int) (x, y float64, newPage bool) {
	pos := i % s.perPage()
	x = s.marginLeft + float64(pos%s.cols)*s.pitchX
	y = s.marginTop + float64(pos/s.cols)*s.pitchY
	return x, y, pos == 0
}

// CollectRoomTags builds one tag per closed loop with at least three walls,
// numbered in loop order. The tag position is the room's centroid.
func CollectRoomTags(plan model.Floorplan, loops []model.WallLoop) []RoomTag {
	var tags []RoomTag
	for _, l := range loops {
		if !l.Valid() {
			continue
		}
		c := centroid(loopOutline(l))
		tags = append(tags, RoomTag{
			Room:      fmt.Sprintf("Room %d", len(tags)+1),
			Plan:      plan.Name,
			WallIDs:   l.WallIDs(),
			Area:      l.AbsArea() / 1e6,
			Perimeter: l.Perimeter,
			Winding:   l.Winding.String(),
			X:         c.X,
			Y:         c.Y,
		})
	}
	return tags
}

// ExportRoomLabels writes one QR-coded door tag per room of the plan onto
// A4 label sheets. Scanning a tag yields its RoomTag as JSON.
func ExportRoomLabels(path string, plan model.Floorplan, loops []model.WallLoop) error {
	tags := CollectRoomTags(plan, loops)
	if len(tags) == 0 {
		return fmt.Errorf("no closed rooms to generate labels for")
	}

	sheet := roomSheet
	pdf := fpdf.New("P", "mm", sheet.size, "")
	pdf.SetAutoPageBreak(false, 0)

	for i, tag := range tags {
		x, y, newPage := sheet.cell(i)
		if newPage {
			pdf.AddPage()
		}
		if err := sheet.render(pdf, x, y, i, tag); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", tag.Room, err)
		}
	}
	return pdf.OutputFileAndClose(path)
}

// tagLine is one line of text beside the QR code.
type tagLine struct {
	style string
	size  float64
	gray  int
	text  string
}

func (s labelSheet) render(pdf *fpdf.Fpdf, x, y float64, n int, tag RoomTag) error {
	payload, err := json.Marshal(tag)
	if err != nil {
		return fmt.Errorf("failed to marshal room tag: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, s.qrResolution)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf.SetDrawColor(210, 210, 210)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, s.width, s.height, "D")

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	name := fmt.Sprintf("room_tag_%d", n)
	pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(png))
	pdf.ImageOptions(name, x+s.padding, y+(s.height-s.qrSize)/2, s.qrSize, s.qrSize, false, opt, 0, "")

	lines := []tagLine{
		{"B", 11, 0, tag.Room},
		{"", 8, 0, fmt.Sprintf("%.2f "+squareMetres, tag.Area)},
		{"", 7, 60, fmt.Sprintf("%.0f mm perimeter", tag.Perimeter)},
		{"", 6, 110, fmt.Sprintf("%d walls, %s", len(tag.WallIDs), tag.Winding)},
	}
	if tag.Plan != "" {
		lines = append(lines, tagLine{"I", 6, 110, tag.Plan})
	}

	tx := x + s.qrSize + 2*s.padding
	tw := x + s.width - s.padding - tx
	ty := y + s.padding + 1
	for _, l := range lines {
		pdf.SetFont("Helvetica", l.style, l.size)
		pdf.SetTextColor(l.gray, l.gray, l.gray)
		h := l.size * 0.5
		pdf.SetXY(tx, ty)
		pdf.CellFormat(tw, h, truncate(pdf, l.text, tw), "", 0, "L", false, 0, "")
		ty += h + 1
	}
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits w at the current font.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
