package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER: One-line summaries of a chart's series
// ============================================================================

// GrowthData contains change-over-time metrics for one series.
type GrowthData struct {
	Series         string  `json:"series"`
	EarliestValue  float64 `json:"earliestValue"`
	LatestValue    float64 `json:"latestValue"`
	EarliestPeriod string  `json:"earliestPeriod"`
	LatestPeriod   string  `json:"latestPeriod"`
	ChangeAmount   float64 `json:"changeAmount"`
	Direction      string  `json:"direction"` // "increased", "decreased", "unchanged", "insufficient data"
	PeakValue      float64 `json:"peakValue"`
	PeakPeriod     string  `json:"peakPeriod"`
}

// TextData is a structured chart summary.
type TextData struct {
	Title  string       `json:"title"`
	Points int          `json:"points"`
	Growth []GrowthData `json:"growth"`
}

// BuildText summarises every series of a chart.
func BuildText(config *ChartConfig) *TextData {
	if config == nil {
		return &TextData{}
	}
	out := &TextData{Title: config.Title}
	for _, s := range config.Series {
		g := BuildGrowth(s)
		out.Growth = append(out.Growth, g)
		out.Points += len(s.DefinedValues())
	}
	return out
}

// BuildGrowth compares the first and last defined points of a series.
func BuildGrowth(s ChartSeries) GrowthData {
	g := GrowthData{Series: s.Name, Direction: "insufficient data"}

	var defined []ChartPoint
	for _, p := range s.Data {
		if p.Defined {
			defined = append(defined, p)
		}
	}
	if len(defined) == 0 {
		return g
	}

	first, last := defined[0], defined[len(defined)-1]
	g.EarliestValue, g.EarliestPeriod = first.Value, first.Label
	g.LatestValue, g.LatestPeriod = last.Value, last.Label
	if peak, ok := MaxPoint(s); ok {
		g.PeakValue, g.PeakPeriod = peak.Value, peak.Label
	}
	if len(defined) < 2 {
		return g
	}

	g.ChangeAmount = last.Value - first.Value
	switch {
	case RoundTo2(g.ChangeAmount) > 0:
		g.Direction = "increased"
	case RoundTo2(g.ChangeAmount) < 0:
		g.Direction = "decreased"
	default:
		g.Direction = "unchanged"
	}
	return g
}

// String renders the summary as human-readable lines.
func (t *TextData) String() string {
	if t == nil || len(t.Growth) == 0 {
		return "No data."
	}
	lines := []string{t.Title}
	for _, g := range t.Growth {
		if g.Direction == "insufficient data" {
			lines = append(lines, fmt.Sprintf("  %s: insufficient data", g.Series))
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s %s from %s (%s) to %s (%s), peak %s in %s",
			g.Series, g.Direction,
			FormatNumber(g.EarliestValue), g.EarliestPeriod,
			FormatNumber(g.LatestValue), g.LatestPeriod,
			FormatNumber(g.PeakValue), g.PeakPeriod))
	}
	return strings.Join(lines, "\n")
}
