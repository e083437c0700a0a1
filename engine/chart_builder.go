package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// CHART BUILDER: Produces ChartConfig from aggregated or joined rows
// ============================================================================
// Builders never render. They fix series, domains, colours, tooltips and
// annotation anchors so any renderer can draw the same picture.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

const notAvailable = "N/A"

// BuildLineChart produces a single-series line chart over years.
// Points are sorted by year; the y domain always includes zero.
func BuildLineChart(title, seriesName, yAxis string, points []AggregatedPoint, years YearRange) *ChartConfig {
	sorted := append([]AggregatedPoint(nil), points...)
	SortPoints(sorted)

	series := ChartSeries{Name: seriesName, Key: seriesKey(seriesName)}
	for _, p := range sorted {
		series.Data = append(series.Data, ChartPoint{
			X:       p.Key.Order,
			Label:   lastPart(p.Key),
			Value:   p.Value,
			Defined: true,
			Tooltip: fmt.Sprintf("%s: %s", lastPart(p.Key), FormatPercent(p.Value)),
		})
	}

	config := &ChartConfig{
		ChartType:  ChartLine,
		Title:      title,
		XAxis:      "Year",
		YAxis:      yAxis,
		XDomain:    yearDomain(years),
		YDomain:    zeroBasedDomain(series.DefinedValues()),
		Series:     []ChartSeries{series},
		ShowLegend: false,
		ShowGrid:   true,
	}
	config.Colors = assignColors(config.Series)
	return config
}

// BuildMultiLineChart produces one line per top-level group, with the
// sub-groups as yearly points. Groups keep their order; points are sorted
// by year.
func BuildMultiLineChart(title, yAxis string, groups []Group, years YearRange) *ChartConfig {
	config := &ChartConfig{
		ChartType:  ChartMultiLine,
		Title:      title,
		XAxis:      "Year",
		YAxis:      yAxis,
		XDomain:    yearDomain(years),
		ShowLegend: true,
		ShowGrid:   true,
	}

	var all []float64
	for _, g := range groups {
		subs := append([]Group(nil), g.SubGroups...)
		SortGroups(subs, "key_asc")

		series := ChartSeries{Name: g.Label, Key: g.Key}
		for _, sg := range subs {
			x, err := strconv.ParseFloat(sg.Key, 64)
			if err != nil {
				continue
			}
			series.Data = append(series.Data, ChartPoint{
				X:       x,
				Label:   sg.Label,
				Value:   sg.Value,
				Defined: sg.Defined,
				Tooltip: fmt.Sprintf("%s %s: %s", g.Label, sg.Label, FormatPercent(sg.Value)),
			})
		}
		if len(series.Data) == 0 {
			continue
		}
		all = append(all, series.DefinedValues()...)
		config.Series = append(config.Series, series)
	}

	config.YDomain = zeroBasedDomain(all)
	config.Colors = assignColors(config.Series)
	return config
}

// BarMetric is one bar per category in a grouped bar chart.
type BarMetric struct {
	Name   string
	Key    string
	Color  string
	Values map[string]Value // category → value
}

// BuildGroupedBarChart produces one series per metric over fixed categories.
// Categories without a value get an undefined point (no bar).
// The y domain always includes zero.
func BuildGroupedBarChart(title, yAxis string, categories []string, metrics []BarMetric) *ChartConfig {
	config := &ChartConfig{
		ChartType:  ChartGroupedBar,
		Title:      title,
		YAxis:      yAxis,
		Categories: append([]string(nil), categories...),
		XDomain:    Domain{Min: 0, Max: float64(len(categories))},
		ShowLegend: true,
		ShowGrid:   false,
	}

	var all []float64
	for _, m := range metrics {
		series := ChartSeries{Name: m.Name, Key: m.Key, Color: m.Color}
		for i, c := range categories {
			v, ok := m.Values[c].Get()
			pt := ChartPoint{X: float64(i), Label: c, Defined: ok, Tooltip: c + ": " + notAvailable}
			if ok {
				pt.Value = v
				pt.Tooltip = fmt.Sprintf("%s: %s", c, FormatPercent(v))
				all = append(all, v)
			}
			series.Data = append(series.Data, pt)
		}
		config.Series = append(config.Series, series)
	}

	config.YDomain = zeroBasedDomain(all)
	config.Colors = assignColors(config.Series)
	return config
}

// DualAxisColors are the explorer's fixed series colours.
var DualAxisColors = map[string]string{
	MeasureInflation:    "#FF0000",
	MeasureUnemployment: "#FFA500",
	MeasureGdp:          "#008000",
}

// BuildDualAxisChart produces inflation and unemployment on the left axis and
// GDP per capita on the right axis for one country's rows. Missing values
// become undefined points so lines break instead of dropping to zero.
func BuildDualAxisChart(title string, rows []JoinedObservation, years YearRange) *ChartConfig {
	inflation := ChartSeries{Name: "Inflation", Key: MeasureInflation, Color: DualAxisColors[MeasureInflation], Axis: "left"}
	unemployment := ChartSeries{Name: "Unemployment", Key: MeasureUnemployment, Color: DualAxisColors[MeasureUnemployment], Axis: "left"}
	gdp := ChartSeries{Name: "GDP per Capita", Key: MeasureGdp, Color: DualAxisColors[MeasureGdp], Axis: "right"}

	leftLo, leftHi := math.Inf(1), math.Inf(-1)
	gdpHi := 0.0

	for _, r := range rows {
		tip := ExplorerTooltip(r)
		label := strconv.Itoa(r.Year)
		x := float64(r.Year)

		inflation.Data = append(inflation.Data, valuePoint(x, label, r.Inflation, tip))
		unemployment.Data = append(unemployment.Data, valuePoint(x, label, r.Unemployment, tip))
		gdp.Data = append(gdp.Data, valuePoint(x, label, r.Gdp, tip))

		// Missing values count as zero for the domain only.
		inf, un := r.Inflation.Or(0), r.Unemployment.Or(0)
		leftLo = math.Min(leftLo, math.Min(inf, un))
		leftHi = math.Max(leftHi, math.Max(inf, un))
		gdpHi = math.Max(gdpHi, r.Gdp.Or(0))
	}

	if len(rows) == 0 {
		leftLo, leftHi = 0, 0
	}
	right := Domain{Min: 0, Max: gdpHi}

	config := &ChartConfig{
		ChartType:  ChartDualAxis,
		Title:      title,
		XAxis:      "Year",
		YAxis:      "Inflation & Unemployment (%)",
		Y2Axis:     "GDP per Capita ($)",
		XDomain:    yearDomain(years),
		YDomain:    Domain{Min: math.Min(0, leftLo), Max: math.Max(10, leftHi)},
		Y2Domain:   &right,
		Series:     []ChartSeries{inflation, unemployment, gdp},
		ShowLegend: true,
		ShowGrid:   false,
	}
	config.Colors = assignColors(config.Series)
	return config
}

// ExplorerTooltip renders the per-year tooltip of the country explorer.
func ExplorerTooltip(r JoinedObservation) string {
	parts := []string{
		strconv.Itoa(r.Year),
		"Inflation: " + formatOr(r.Inflation, FormatPercent),
		"Unemployment: " + formatOr(r.Unemployment, FormatPercent),
		"GDP per capita: " + formatOr(r.Gdp, FormatDollars),
	}
	return strings.Join(parts, " | ")
}

// ============================================================================
// ANNOTATIONS
// ============================================================================

// AnnotateAt anchors a label on the defined point of series at x.
// ok is false when the series has no defined point there.
func AnnotateAt(series ChartSeries, x float64, label string, dx, dy float64) (Annotation, bool) {
	for _, p := range series.Data {
		if p.X == x && p.Defined {
			return Annotation{Label: label, X: p.X, Y: p.Value, DX: dx, DY: dy}, true
		}
	}
	return Annotation{}, false
}

// PointAt returns the defined point of series at x.
func PointAt(series ChartSeries, x float64) (ChartPoint, bool) {
	for _, p := range series.Data {
		if p.X == x && p.Defined {
			return p, true
		}
	}
	return ChartPoint{}, false
}

// MaxPoint returns the defined point with the largest value; ties keep the first.
func MaxPoint(series ChartSeries) (ChartPoint, bool) {
	var best ChartPoint
	found := false
	for _, p := range series.Data {
		if !p.Defined {
			continue
		}
		if !found || p.Value > best.Value {
			best = p
			found = true
		}
	}
	return best, found
}

// ============================================================================
// HELPERS
// ============================================================================

func valuePoint(x float64, label string, v Value, tooltip string) ChartPoint {
	f, ok := v.Get()
	return ChartPoint{X: x, Label: label, Value: f, Defined: ok, Tooltip: tooltip}
}

func formatOr(v Value, format func(float64) string) string {
	f, ok := v.Get()
	if !ok {
		return notAvailable
	}
	return format(f)
}

func yearDomain(r YearRange) Domain {
	return Domain{Min: float64(r.From), Max: float64(r.To)}
}

// zeroBasedDomain spans [min(0, lo), max(0, hi)], so zero is always on the
// axis. Empty input gives [0, 0].
func zeroBasedDomain(values []float64) Domain {
	lo, hi := bounds(values)
	return Domain{Min: math.Min(0, lo), Max: math.Max(0, hi)}
}

func bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func lastPart(k Key) string {
	if len(k.Parts) == 0 {
		return ""
	}
	return k.Parts[len(k.Parts)-1]
}

func seriesKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// assignColors keeps explicit series colours and fills the rest from the palette.
func assignColors(series []ChartSeries) []string {
	colors := make([]string, len(series))
	for i := range series {
		if series[i].Color == "" {
			series[i].Color = defaultColors[i%len(defaultColors)]
		}
		colors[i] = series[i].Color
	}
	return colors
}
