package scenes

import (
	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
)

// marker is a static annotation placed on a year when that year has a point.
type marker struct {
	year   float64
	label  string
	dx, dy float64
}

const steelBlue = "#4682B4"

var trendMarkers = []marker{
	{year: 2008, label: "Financial Crisis", dx: -50, dy: -50},
	{year: 2020, label: "Pandemic Shock", dx: 50, dy: -50},
	{year: 2022, label: "Post-COVID Spike", dx: -50, dy: -30},
}

// Trend is the global mean inflation per year.
type Trend struct{}

func (Trend) Name() string { return "trend" }

func (Trend) Build(d *dataset.Dataset) (*engine.ChartConfig, error) {
	if err := checkDataset(d); err != nil {
		return nil, err
	}
	years := d.Settings().Years

	view := engine.Filter(d.Observations(), engine.YearBetween(years.From, years.To))
	points := engine.Aggregate(view, engine.ByYear(), engine.MeasureInflation)

	cfg := engine.BuildLineChart(
		yearTitle("Global Average Inflation", years),
		"Inflation",
		"Average Inflation Rate (%)",
		points, years,
	)
	cfg.Series[0].Color = steelBlue
	cfg.Colors[0] = steelBlue

	for _, m := range trendMarkers {
		if a, ok := engine.AnnotateAt(cfg.Series[0], m.year, m.label, m.dx, m.dy); ok {
			cfg.Annotations = append(cfg.Annotations, a)
		}
	}
	return cfg, nil
}
