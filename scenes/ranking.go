package scenes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
)

// ErrInvalidRanking is returned for a ranking with an unknown measure,
// dimension, aggregation or sort mode.
var ErrInvalidRanking = errors.New("invalid ranking")

var measureLabels = map[string]string{
	engine.MeasureInflation:    "Inflation Rate (%)",
	engine.MeasureUnemployment: "Unemployment Rate (%)",
	engine.MeasureInterestRate: "Real Interest Rate (%)",
	engine.MeasureGdp:          "GDP per Capita (US$)",
}

var rankDimensions = []string{
	engine.DimensionCountry,
	engine.DimensionRegion,
	engine.DimensionIncomeLevel,
	engine.DimensionYear,
}

// Ranking aggregates one measure of the joined table per dimension value
// and draws the groups as bars, sorted and cut to Limit.
type Ranking struct {
	Measure     string
	By          string
	Aggregation string
	SortBy      string
	Limit       int
}

// NewRanking returns the top ten countries by average inflation.
func NewRanking() Ranking {
	return Ranking{
		Measure:     engine.MeasureInflation,
		By:          engine.DimensionCountry,
		Aggregation: "avg",
		SortBy:      "value_desc",
		Limit:       10,
	}
}

func (Ranking) Name() string { return "ranking" }

// Validate checks every field against what the aggregator understands.
func (r Ranking) Validate() error {
	var problems []string
	if _, ok := measureLabels[r.Measure]; !ok {
		problems = append(problems, fmt.Sprintf("measure %q", r.Measure))
	}
	if !oneOf(rankDimensions, r.By) {
		problems = append(problems, fmt.Sprintf("dimension %q", r.By))
	}
	if !engine.ValidAggregation(r.Aggregation) {
		problems = append(problems, fmt.Sprintf("aggregation %q (want %s)", r.Aggregation, strings.Join(engine.Aggregations, ", ")))
	}
	if !engine.ValidSort(r.SortBy) {
		problems = append(problems, fmt.Sprintf("sort %q", r.SortBy))
	}
	if r.Limit < 0 {
		problems = append(problems, fmt.Sprintf("limit %d", r.Limit))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRanking, strings.Join(problems, "; "))
	}
	return nil
}

func (r Ranking) Build(d *dataset.Dataset) (*engine.ChartConfig, error) {
	if err := checkDataset(d); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	years := d.Settings().Years

	groups := engine.GroupAndAggregate(d.Joined(), []string{r.By}, r.Measure, r.Aggregation, r.SortBy, r.Limit)

	metric := engine.BarMetric{
		Name:   engine.LabelForAggregation(r.Aggregation),
		Key:    r.Aggregation + "_" + r.Measure,
		Color:  steelBlue,
		Values: make(map[string]engine.Value, len(groups)),
	}
	categories := make([]string, 0, len(groups))
	for _, g := range groups {
		categories = append(categories, g.Label)
		metric.Values[g.Label] = engine.Some(g.Value)
	}

	yAxis := measureLabels[r.Measure]
	if r.Aggregation == "count" {
		yAxis = "Rows with a value"
	}
	title := fmt.Sprintf("%s %s by %s",
		engine.LabelForAggregation(r.Aggregation),
		strings.TrimSpace(strings.SplitN(measureLabels[r.Measure], "(", 2)[0]),
		engine.LabelForDimension(r.By))

	cfg := engine.BuildGroupedBarChart(yearTitle(title, years), yAxis, categories, []engine.BarMetric{metric})
	cfg.XAxis = engine.LabelForDimension(r.By)
	cfg.ShowLegend = false
	return cfg, nil
}

func oneOf(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
