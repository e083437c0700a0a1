package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/macroscene/engine"
)

// annotations draws each label at its pixel offset from the anchor point,
// with a connector back to the anchor. Positive DY moves the label down.
type annotations struct {
	notes     []engine.Annotation
	line      draw.LineStyle
	textStyle text.Style
}

func newAnnotations(p *plot.Plot, notes []engine.Annotation) *annotations {
	sty := p.X.Tick.Label
	sty.Color = color.Black
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter
	return &annotations{
		notes:     notes,
		line:      draw.LineStyle{Color: color.Gray{Y: 96}, Width: vg.Points(1)},
		textStyle: sty,
	}
}

// Plot implements plot.Plotter.
func (a *annotations) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, n := range a.notes {
		anchor := vg.Point{X: trX(n.X), Y: trY(n.Y)}
		label := vg.Point{X: anchor.X + vg.Points(n.DX), Y: anchor.Y - vg.Points(n.DY)}
		c.StrokeLine2(a.line, anchor.X, anchor.Y, label.X, label.Y)
		c.FillText(a.textStyle, label, n.Label)
	}
}

// swatch is a filled legend thumbnail.
type swatch struct{ color.Color }

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, c.ClipPolygonY(pts))
}

// lineSwatch is a horizontal line legend thumbnail, drawn even when the
// series has no points.
type lineSwatch struct{ color.Color }

func (s lineSwatch) Thumbnail(c *draw.Canvas) {
	y := (c.Min.Y + c.Max.Y) / 2
	c.StrokeLine2(draw.LineStyle{Color: s.Color, Width: vg.Points(2)}, c.Min.X, y, c.Max.X, y)
}

// parseColor reads "#RRGGBB" or "#RGB". Empty means black.
func parseColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if hex == "" {
		return color.Black, nil
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
