package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spektr-org/macroscene/engine"
)

// ============================================================================
// RENDER: ChartConfig → image
// ============================================================================
// The Renderer is the only component that draws. It trusts the config:
// domains, colours and annotation anchors are fixed by the builders, and
// undefined points are gaps, never zeros.
// ============================================================================

var (
	// ErrUnsupportedChart is returned for chart types the renderer cannot draw.
	ErrUnsupportedChart = errors.New("unsupported chart type")
	// ErrUnsupportedFormat is returned for unknown output formats.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Renderer draws a chart config to w.
type Renderer interface {
	Draw(w io.Writer, cfg *engine.ChartConfig) error
}

// Formats the plot renderer can write.
var Formats = []string{"svg", "png", "pdf"}

// Plot renders through gonum/plot.
type Plot struct {
	Format string
	Width  vg.Length
	Height vg.Length
}

// New returns a renderer for format with the given size in points.
func New(format string, width, height float64) (*Plot, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !supported(format) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %gx%g", width, height)
	}
	return &Plot{Format: format, Width: vg.Points(width), Height: vg.Points(height)}, nil
}

// NewSVG returns an SVG renderer at the original dashboard's 800x400 size.
func NewSVG() *Plot {
	return &Plot{Format: "svg", Width: vg.Points(800), Height: vg.Points(400)}
}

// Draw implements Renderer.
func (r *Plot) Draw(w io.Writer, cfg *engine.ChartConfig) error {
	if cfg == nil {
		return errors.New("nil chart config")
	}

	c, err := draw.NewFormattedCanvas(r.Width, r.Height, r.Format)
	if err != nil {
		return fmt.Errorf("failed to create %s canvas: %w", r.Format, err)
	}
	dc := draw.New(c)

	switch cfg.ChartType {
	case engine.ChartLine, engine.ChartMultiLine:
		p, err := lineChart(cfg)
		if err != nil {
			return err
		}
		p.Draw(dc)

	case engine.ChartGroupedBar:
		p, err := groupedBarChart(cfg, r.Width)
		if err != nil {
			return err
		}
		p.Draw(dc)

	case engine.ChartDualAxis:
		top, bottom, err := dualAxisChart(cfg)
		if err != nil {
			return err
		}
		tiles := draw.Tiles{
			Rows:      2,
			Cols:      1,
			PadX:      vg.Millimeter,
			PadY:      vg.Millimeter * 2,
			PadTop:    vg.Millimeter * 2,
			PadBottom: vg.Millimeter * 2,
			PadLeft:   vg.Millimeter * 2,
			PadRight:  vg.Millimeter * 2,
		}
		canvases := plot.Align([][]*plot.Plot{{top}, {bottom}}, tiles, dc)
		top.Draw(canvases[0][0])
		bottom.Draw(canvases[1][0])

	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChart, cfg.ChartType)
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.Format, err)
	}
	return nil
}

func supported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
