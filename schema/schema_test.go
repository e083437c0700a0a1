package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/macroscene/engine"
)

func TestPrimaryCheckHeaders(t *testing.T) {
	cfg := Primary()

	headers := []string{
		"incomeLevel", " country ", "year", "adminregion",
		"Real interest rate (%)",
		"Unemployment, total (% of total labor force) (modeled ILO estimate)",
		"Inflation, consumer prices (annual %)",
	}
	assert.Nil(t, cfg.CheckHeaders(headers), "order and surrounding spaces are irrelevant")

	missing := cfg.CheckHeaders([]string{"country", "year", "Inflation, consumer prices (annual %)"})
	assert.Equal(t, []string{
		ColumnRegion, ColumnIncomeLevel,
		ColumnUnemployment, ColumnInterestRate,
	}, missing)
}

func TestGdpCheckHeadersNeedsYearColumns(t *testing.T) {
	cfg := Gdp()

	assert.Nil(t, cfg.CheckHeaders([]string{"Country Name", "Country Code", "2000", "2001"}))
	assert.Equal(t, []string{"<year columns>"}, cfg.CheckHeaders([]string{"Country Name", "Country Code"}))
	assert.Contains(t, cfg.CheckHeaders([]string{"2000"}), ColumnCountryName)
}

func TestColumnLookup(t *testing.T) {
	cfg := Primary()

	col, ok := cfg.Column(engine.MeasureInflation)
	require.True(t, ok)
	assert.Equal(t, ColumnInflation, col)

	_, ok = Gdp().Column(engine.MeasureGdp)
	assert.False(t, ok, "wide measures have no single column")

	assert.Equal(t, engine.MeasureInflation, cfg.GetDefaultMeasure())
	assert.Equal(t, []string{"country", "year", "region", "income_level"}, cfg.DimensionKeys())
}

func TestYearColumns(t *testing.T) {
	cols := YearColumns([]string{"Country Name", "Country Code", "2001", "1999", "Indicator Code", "20000", ""})

	require.Len(t, cols, 2)
	assert.Equal(t, YearColumn{Year: 1999, Column: "1999"}, cols[0])
	assert.Equal(t, YearColumn{Year: 2001, Column: "2001"}, cols[1])
}

func TestDescribe(t *testing.T) {
	view := engine.ObservationAdapter().Bind([]engine.Observation{
		{Country: "Kenya", Year: 2009, Inflation: engine.Some(9), Region: "Sub-Saharan Africa"},
		{Country: "Kenya", Year: 2008, Inflation: engine.Missing()},
		{Country: "Chile", Year: 2008, Inflation: engine.Some(8)},
	})
	src := Primary()

	got := Describe(src, view)

	assert.Equal(t, 3, got.Rows)
	assert.Equal(t, []int{2008, 2009}, got.YearsPresent)
	assert.Equal(t, []string{"Chile", "Kenya"}, got.Dimensions[0].SampleValues)
	assert.Equal(t, "low", got.Dimensions[0].CardinalityHint)
	assert.Equal(t, []string{"Sub-Saharan Africa"}, got.Dimensions[2].SampleValues)
	assert.Equal(t, 2, got.Measures[0].Present)
	assert.Equal(t, 1, got.Measures[0].Missing)

	assert.Empty(t, src.Dimensions[0].SampleValues, "input config is not mutated")
	assert.Zero(t, src.Measures[0].Present)
}
