package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spektr-org/macroscene/engine"
)

// ============================================================================
// CHART TYPES
// ============================================================================

func lineChart(cfg *engine.ChartConfig) (*plot.Plot, error) {
	p := newPlot(cfg.Title, cfg.XAxis, cfg.YAxis, cfg.ShowGrid)
	p.X.Tick.Marker = yearTicks{}

	for _, s := range cfg.Series {
		if err := addSeries(p, s, cfg.ShowLegend); err != nil {
			return nil, err
		}
	}
	if len(cfg.Annotations) > 0 {
		p.Add(newAnnotations(p, cfg.Annotations))
	}

	setRange(&p.X, cfg.XDomain)
	setRange(&p.Y, cfg.YDomain)
	return p, nil
}

func groupedBarChart(cfg *engine.ChartConfig, width vg.Length) (*plot.Plot, error) {
	p := newPlot(cfg.Title, cfg.XAxis, cfg.YAxis, cfg.ShowGrid)

	n := len(cfg.Categories)
	m := len(cfg.Series)
	if n == 0 || m == 0 {
		// NominalX indexes its first name, so it needs at least one category.
		if n > 0 {
			p.NominalX(cfg.Categories...)
		}
		setRange(&p.X, engine.Domain{Min: -0.5, Max: 0.5})
		setRange(&p.Y, cfg.YDomain)
		return p, nil
	}
	p.NominalX(cfg.Categories...)

	// Each category band is shared by all metrics side by side.
	barWidth := width * 0.6 / vg.Length(n*m)

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Black
	zero.Width = vg.Points(1)
	p.Add(zero)

	for j, s := range cfg.Series {
		c, err := parseColor(s.Color)
		if err != nil {
			return nil, err
		}
		offset := (vg.Length(j) - vg.Length(m-1)/2) * barWidth
		for _, pt := range s.Data {
			if !pt.Defined {
				continue
			}
			bar, err := plotter.NewBarChart(plotter.Values{pt.Value}, barWidth)
			if err != nil {
				return nil, fmt.Errorf("bar %s/%s: %w", s.Name, pt.Label, err)
			}
			bar.XMin = pt.X
			bar.Offset = offset
			bar.Color = c
			bar.LineStyle.Width = 0
			p.Add(bar)
		}
		if cfg.ShowLegend {
			p.Legend.Add(s.Name, swatch{c})
		}
	}

	setRange(&p.X, engine.Domain{Min: -0.5, Max: float64(n) - 0.5})
	setRange(&p.Y, cfg.YDomain)
	return p, nil
}

// dualAxisChart splits left and right axis series into two aligned panels
// sharing the year axis.
func dualAxisChart(cfg *engine.ChartConfig) (top, bottom *plot.Plot, err error) {
	top = newPlot(cfg.Title, "", cfg.YAxis, cfg.ShowGrid)
	bottom = newPlot("", cfg.XAxis, cfg.Y2Axis, cfg.ShowGrid)
	top.X.Tick.Marker = yearTicks{}
	bottom.X.Tick.Marker = yearTicks{}
	bottom.Y.Tick.Marker = plot.TickerFunc(dollarTicks)

	for _, s := range cfg.Series {
		target := top
		if s.Axis == "right" {
			target = bottom
		}
		if err := addSeries(target, s, cfg.ShowLegend); err != nil {
			return nil, nil, err
		}
	}
	if len(cfg.Annotations) > 0 {
		top.Add(newAnnotations(top, cfg.Annotations))
	}

	right := engine.Domain{Min: 0, Max: 0}
	if cfg.Y2Domain != nil {
		right = *cfg.Y2Domain
	}
	for _, p := range []*plot.Plot{top, bottom} {
		setRange(&p.X, cfg.XDomain)
	}
	setRange(&top.Y, cfg.YDomain)
	setRange(&bottom.Y, right)
	return top, bottom, nil
}

// ============================================================================
// SERIES
// ============================================================================

// addSeries draws s as line segments between undefined points, plus a dot
// on every defined point.
func addSeries(p *plot.Plot, s engine.ChartSeries, legend bool) error {
	c, err := parseColor(s.Color)
	if err != nil {
		return err
	}

	var dots plotter.XYs
	for _, seg := range segments(s.Data) {
		dots = append(dots, seg...)
		if len(seg) < 2 {
			continue
		}
		line, err := plotter.NewLine(seg)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		line.Color = c
		line.Width = vg.Points(2)
		p.Add(line)
	}

	if len(dots) > 0 {
		scatter, err := plotter.NewScatter(dots)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
	}

	if legend {
		p.Legend.Add(s.Name, lineSwatch{c})
	}
	return nil
}

// segments splits points into runs of consecutive defined points.
func segments(points []engine.ChartPoint) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for _, pt := range points {
		if !pt.Defined || math.IsNaN(pt.Value) || math.IsInf(pt.Value, 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: pt.X, Y: pt.Value})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// ============================================================================
// AXES
// ============================================================================

func newPlot(title, xLabel, yLabel string, grid bool) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	if grid {
		p.Add(plotter.NewGrid())
	}
	return p
}

// setRange pins an axis to d. A flat domain is widened so the axis can
// still be drawn.
func setRange(a *plot.Axis, d engine.Domain) {
	lo, hi := d.Min, d.Max
	if hi <= lo {
		hi = lo + 1
	}
	a.Min, a.Max = lo, hi
}

// yearTicks labels whole years, thinning out on long ranges.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	step := 1.0
	switch span := max - min; {
	case span > 30:
		step = 5
	case span > 12:
		step = 2
	}
	var ticks []plot.Tick
	for y := math.Ceil(min); y <= max; y++ {
		label := ""
		if math.Mod(y, step) == 0 {
			label = strconv.Itoa(int(y))
		}
		ticks = append(ticks, plot.Tick{Value: y, Label: label})
	}
	return ticks
}

// dollarTicks reuses the default tick positions with dollar labels.
func dollarTicks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = engine.FormatDollars(ticks[i].Value)
		}
	}
	return ticks
}
