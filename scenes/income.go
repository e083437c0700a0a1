package scenes

import (
	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
)

// Income compares mean inflation with mean real interest per income group
// over the recent years. Groups keep their configured order; a group with
// no value for a metric gets no bar for it.
type Income struct{}

func (Income) Name() string { return "income" }

func (Income) Build(d *dataset.Dataset) (*engine.ChartConfig, error) {
	if err := checkDataset(d); err != nil {
		return nil, err
	}
	s := d.Settings()

	recent := engine.Filter(d.Observations(), engine.YearBetween(s.RecentYears.From, s.RecentYears.To))

	inflation := engine.BarMetric{
		Name:   "Average Inflation",
		Key:    "avgInflation",
		Color:  "#e74c3c",
		Values: make(map[string]engine.Value, len(s.IncomeGroups)),
	}
	interest := engine.BarMetric{
		Name:   "Average Real Interest Rate",
		Key:    "avgRealInterest",
		Color:  "#3498db",
		Values: make(map[string]engine.Value, len(s.IncomeGroups)),
	}

	for _, group := range s.IncomeGroups {
		rows := engine.Filter(recent, engine.DimensionEquals(engine.DimensionIncomeLevel, group))
		if v, _, ok := engine.AvgMeasure(rows, engine.MeasureInflation); ok {
			inflation.Values[group] = engine.Some(v)
		}
		if v, _, ok := engine.AvgMeasure(rows, engine.MeasureInterestRate); ok {
			interest.Values[group] = engine.Some(v)
		}
	}

	return engine.BuildGroupedBarChart(
		yearTitle("Inflation vs Real Interest Rate by Income Level", s.RecentYears),
		"Rate (%)",
		s.IncomeGroups,
		[]engine.BarMetric{inflation, interest},
	), nil
}
