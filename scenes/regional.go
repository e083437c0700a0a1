package scenes

import (
	"strings"

	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
)

// Region names the annotations look for.
const (
	RegionSubSaharanAfrica  = "Sub-Saharan Africa"
	RegionEuropeCentralAsia = "Europe & Central Asia"
	RegionLatinAmerica      = "Latin America & Caribbean"
)

// Regional is mean inflation per (region, year), one line per region.
// Rows without a region are left out.
type Regional struct{}

func (Regional) Name() string { return "regional" }

func (Regional) Build(d *dataset.Dataset) (*engine.ChartConfig, error) {
	if err := checkDataset(d); err != nil {
		return nil, err
	}
	years := d.Settings().Years

	view := engine.Filter(d.Observations(), engine.And(
		engine.YearBetween(years.From, years.To),
		engine.NonEmpty(engine.DimensionRegion),
	))
	groups := engine.GroupAndAggregate(view,
		[]string{engine.DimensionRegion, engine.DimensionYear},
		engine.MeasureInflation, "avg", "", 0)

	cfg := engine.BuildMultiLineChart(
		yearTitle("Average Inflation by Region", years),
		"Average Inflation Rate (%)",
		groups, years,
	)
	cfg.Annotations = regionalAnnotations(cfg.Series)
	return cfg, nil
}

func regionalAnnotations(series []engine.ChartSeries) []engine.Annotation {
	var out []engine.Annotation

	if s, ok := findRegion(series, RegionSubSaharanAfrica); ok {
		_, has2008 := engine.PointAt(s, 2008)
		if a, ok := engine.AnnotateAt(s, 2009, "2008 Financial Crisis impact on Africa", -80, -50); ok && has2008 {
			out = append(out, a)
		}
	}

	if s, ok := findRegion(series, RegionEuropeCentralAsia); ok {
		if p, ok := engine.PointAt(s, 2022); ok && p.Value > 10 {
			a, _ := engine.AnnotateAt(s, 2022, "2022 inflation spike in Europe", -100, -30)
			out = append(out, a)
		}
	}

	if s, ok := findRegion(series, RegionLatinAmerica); ok {
		if p, ok := engine.MaxPoint(s); ok && p.X >= 2020 {
			a, _ := engine.AnnotateAt(s, p.X, "Latin America inflation surge", 50, -50)
			out = append(out, a)
		}
	}
	return out
}

// findRegion matches a region by name, also accepting the qualified form
// the World Bank uses, e.g. "Sub-Saharan Africa (excluding high income)".
func findRegion(series []engine.ChartSeries, name string) (engine.ChartSeries, bool) {
	for _, s := range series {
		if s.Name == name || strings.HasPrefix(s.Name, name+" (") {
			return s, true
		}
	}
	return engine.ChartSeries{}, false
}
