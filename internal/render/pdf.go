package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"SectorRRG/internal/model"
	"SectorRRG/internal/rotation"
)

// Default chart extents; Bounds widens them when a trail runs off the edge.
const (
	DefaultXRange = 3.2
	DefaultYRange = 2.2
)

// page geometry in mm, landscape A4
const (
	plotLeft   = 28.0
	plotTop    = 24.0
	plotWidth  = 245.0
	plotHeight = 128.0
	font       = "Helvetica"
)

var (
	axisColor = RGB{200, 200, 200}
	gridColor = RGB{228, 228, 228}
	textColor = RGB{40, 40, 40}
)

// PDFRenderer draws a rotation graph as a two page PDF: the chart and a summary.
type PDFRenderer struct {
	logger arbor.ILogger
}

// NewPDFRenderer creates a renderer.
func NewPDFRenderer(logger arbor.ILogger) *PDFRenderer {
	return &PDFRenderer{logger: logger}
}

// Bounds returns symmetric axis extents that hold every trail point.
func Bounds(g *model.RotationGraph) (xMax, yMax float64) {
	xMax, yMax = DefaultXRange, DefaultYRange
	for _, t := range g.Trails {
		points := make([]model.RotationPoint, 0, len(t.Trail)+1)
		points = append(append(points, t.Trail...), t.Head)
		for _, p := range points {
			xMax = math.Max(xMax, math.Ceil((math.Abs(p.RS)+0.2)*5)/5)
			yMax = math.Max(yMax, math.Ceil((math.Abs(p.MOM)+0.2)*5)/5)
		}
	}
	return xMax, yMax
}

// Bytes renders g into memory.
func (r *PDFRenderer) Bytes(g *model.RotationGraph) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render writes the PDF to w.
func (r *PDFRenderer) Render(g *model.RotationGraph, w io.Writer) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Relative Rotation Graph", false)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	xMax, yMax := Bounds(g)
	c := chart{pdf: pdf, xMax: xMax, yMax: yMax}

	c.title(g)
	c.quadrants()
	c.grid()
	for _, t := range g.Trails {
		c.trail(t)
	}
	c.legend(g)

	pdf.AddPage()
	summary(pdf, g)

	if err := pdf.Output(w); err != nil {
		r.logger.Error().Err(err).Msg("failed to generate chart")
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

type chart struct {
	pdf        *fpdf.Fpdf
	xMax, yMax float64
}

func (c chart) px(x float64) float64 {
	return plotLeft + (x+c.xMax)/(2*c.xMax)*plotWidth
}

func (c chart) py(y float64) float64 {
	return plotTop + (c.yMax-y)/(2*c.yMax)*plotHeight
}

func setText(pdf *fpdf.Fpdf, col RGB) { pdf.SetTextColor(col.R, col.G, col.B) }
func setDraw(pdf *fpdf.Fpdf, col RGB) { pdf.SetDrawColor(col.R, col.G, col.B) }
func setFill(pdf *fpdf.Fpdf, col RGB) { pdf.SetFillColor(col.R, col.G, col.B) }

func (c chart) title(g *model.RotationGraph) {
	pdf := c.pdf
	setText(pdf, textColor)
	pdf.SetFont(font, "B", 15)
	pdf.SetXY(10, 8)
	pdf.CellFormat(277, 7, "RELATIVE ROTATION GRAPH", "", 1, "C", false, 0, "")
	pdf.SetFont(font, "", 9)
	sub := fmt.Sprintf("vs %s | tail: %s (%s)", g.Benchmark.DisplayName(), g.Lookback, g.Lookback.Description())
	if !g.AsOf.IsZero() {
		sub += " | as of " + g.AsOf.Format("2006-01-02")
	}
	pdf.CellFormat(277, 5, sub, "", 1, "C", false, 0, "")
}

func (c chart) quadrants() {
	pdf := c.pdf
	pdf.SetAlpha(0.3, "Normal")
	for _, q := range rotation.Quadrants {
		setFill(pdf, colorOr(q.Fill, gridColor))
		x0, x1 := c.px(0), c.px(c.xMax)
		if q.LabelX < 0 {
			x0, x1 = c.px(-c.xMax), c.px(0)
		}
		y0, y1 := c.py(c.yMax), c.py(0)
		if q.LabelY < 0 {
			y0, y1 = c.py(0), c.py(-c.yMax)
		}
		pdf.Rect(x0, y0, x1-x0, y1-y0, "F")
	}
	pdf.SetAlpha(1, "Normal")

	pdf.SetFont(font, "B", 11)
	setText(pdf, RGB{90, 90, 90})
	for _, q := range rotation.Quadrants {
		label := string(q.Quadrant)
		w := pdf.GetStringWidth(label)
		pdf.Text(c.px(q.LabelX)-w/2, c.py(q.LabelY), label)
	}
}

func (c chart) grid() {
	pdf := c.pdf
	pdf.SetFont(font, "", 7)
	setText(pdf, textColor)
	pdf.SetLineWidth(0.1)
	setDraw(pdf, gridColor)
	for x := -math.Floor(c.xMax); x <= c.xMax; x++ {
		pdf.Line(c.px(x), c.py(c.yMax), c.px(x), c.py(-c.yMax))
		label := fmt.Sprintf("%g", x)
		pdf.Text(c.px(x)-pdf.GetStringWidth(label)/2, c.py(-c.yMax)+4, label)
	}
	for y := -math.Floor(c.yMax); y <= c.yMax; y++ {
		pdf.Line(c.px(-c.xMax), c.py(y), c.px(c.xMax), c.py(y))
		label := fmt.Sprintf("%g", y)
		pdf.Text(c.px(-c.xMax)-pdf.GetStringWidth(label)-1.5, c.py(y)+1, label)
	}

	pdf.SetLineWidth(0.8)
	setDraw(pdf, axisColor)
	pdf.Line(c.px(0), c.py(c.yMax), c.px(0), c.py(-c.yMax))
	pdf.Line(c.px(-c.xMax), c.py(0), c.px(c.xMax), c.py(0))
	pdf.SetLineWidth(0.2)
	pdf.Rect(plotLeft, plotTop, plotWidth, plotHeight, "D")

	pdf.SetFont(font, "B", 8)
	xTitle := "RELATIVE STRENGTH"
	pdf.Text(plotLeft+plotWidth/2-pdf.GetStringWidth(xTitle)/2, plotTop+plotHeight+9, xTitle)
	yTitle := "RATE OF CHANGE (ROC) - MOMENTUM"
	yx, yy := plotLeft-10, plotTop+plotHeight/2+pdf.GetStringWidth(yTitle)/2
	pdf.TransformBegin()
	pdf.TransformRotate(90, yx, yy)
	pdf.Text(yx, yy, yTitle)
	pdf.TransformEnd()
}

func (c chart) trail(t model.InstrumentTrail) {
	pdf := c.pdf
	col := colorOr(t.Instrument.Color, textColor)
	setDraw(pdf, col)
	setFill(pdf, col)

	pdf.SetLineWidth(0.35)
	for i := 1; i < len(t.Trail); i++ {
		a, b := t.Trail[i-1], t.Trail[i]
		pdf.Line(c.px(a.RS), c.py(a.MOM), c.px(b.RS), c.py(b.MOM))
	}
	for _, p := range t.Trail {
		pdf.Circle(c.px(p.RS), c.py(p.MOM), 0.35, "F")
	}
	pdf.Circle(c.px(t.Head.RS), c.py(t.Head.MOM), 1.4, "F")

	pdf.SetFont(font, "", 6)
	setText(pdf, col)
	pdf.Text(c.px(t.Head.RS)+1.8, c.py(t.Head.MOM)-1.2, t.Instrument.Label)
}

func (c chart) legend(g *model.RotationGraph) {
	pdf := c.pdf
	pdf.SetFont(font, "", 7)
	x, y := plotLeft, plotTop+plotHeight+15
	for _, t := range g.Trails {
		name := t.Instrument.DisplayName()
		w := pdf.GetStringWidth(name) + 8
		if x+w > plotLeft+plotWidth {
			x, y = plotLeft, y+5
		}
		setFill(pdf, colorOr(t.Instrument.Color, textColor))
		pdf.Circle(x+1.5, y-1, 1.2, "F")
		setText(pdf, textColor)
		pdf.Text(x+4, y, name)
		x += w
	}
}

func summary(pdf *fpdf.Fpdf, g *model.RotationGraph) {
	setText(pdf, textColor)
	pdf.SetFont(font, "B", 12)
	pdf.CellFormat(0, 7, "Description", "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 9)
	pdf.MultiCell(0, 4.5, rotation.Description, "", "L", false)
	pdf.Ln(3)

	pdf.SetFont(font, "B", 9)
	widths := []float64{40, 70, 30, 30, 40}
	for i, h := range []string{"Instrument", "Name", "RS", "MOM", "Quadrant"} {
		pdf.CellFormat(widths[i], 6, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(font, "", 9)
	for _, t := range g.Trails {
		cells := []string{
			t.Instrument.DisplayName(),
			t.Instrument.Name,
			fmt.Sprintf("%+.2f", t.Head.RS),
			fmt.Sprintf("%+.2f", t.Head.MOM),
			string(t.Quadrant),
		}
		for i, v := range cells {
			pdf.CellFormat(widths[i], 5, v, "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)

	pdf.SetFont(font, "B", 9)
	pdf.CellFormat(0, 6, "Quadrants", "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 9)
	for _, q := range rotation.Quadrants {
		pdf.MultiCell(0, 4.5, fmt.Sprintf("%s: %s", titleCase(string(q.Quadrant)), q.Meaning), "", "L", false)
	}
	pdf.Ln(3)

	pdf.SetFont(font, "B", 9)
	pdf.CellFormat(0, 6, "Disclaimer", "", 1, "L", false, 0, "")
	pdf.SetFont(font, "I", 8)
	pdf.MultiCell(0, 4, rotation.Disclaimer, "", "L", false)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}
