package scenes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
)

// ── Fixtures ──────────────────────────────────────────────────────────────────

func o(country string, year int, region, income string, inflation, interest engine.Value) engine.Observation {
	return engine.Observation{
		Country: country, Year: year, Region: region, IncomeLevel: income,
		Inflation: inflation, InterestRate: interest,
	}
}

var (
	some = engine.Some
	na   = engine.Missing()
)

func fixture() *dataset.Dataset {
	obs := []engine.Observation{
		o("Kenya", 2008, "Sub-Saharan Africa", "Lower middle income", some(26), some(-5)),
		o("Kenya", 2009, "Sub-Saharan Africa", "Lower middle income", some(9), na),
		o("Ghana", 2008, "Sub-Saharan Africa", "Lower middle income", na, some(3)),
		o("Poland", 2022, "Europe & Central Asia", "High income", some(14), some(-6)),
		o("Chile", 2021, "Latin America & Caribbean", "High income", some(4), some(1)),
		o("Chile", 2022, "Latin America & Caribbean", "High income", some(11), some(2)),
		o("France", 2020, "", "High income", some(0.5), na),
		o("France", 1999, "", "High income", some(0.6), na),
		o("United States", 2019, "", "High income", some(1.8), some(1)),
		o("United States", 2020, "", "High income", some(1.2), some(1.2)),
	}
	gdp := []engine.GdpRecord{
		{Country: "United States", Values: map[int]engine.Value{2019: some(65000)}},
	}
	return dataset.New(obs, gdp)
}

// ============================================================================
// TREND
// ============================================================================

func TestTrend(t *testing.T) {
	cfg, err := Trend{}.Build(fixture())
	require.NoError(t, err)

	require.Len(t, cfg.Series, 1)
	data := cfg.Series[0].Data
	xs := make([]float64, len(data))
	for i, p := range data {
		xs[i] = p.X
	}
	assert.Equal(t, []float64{2008, 2009, 2019, 2020, 2021, 2022}, xs, "1999 is outside the range")

	assert.Equal(t, 26.0, data[0].Value, "Ghana's missing 2008 value is excluded")
	assert.InDelta(t, 12.5, data[5].Value, 1e-9)

	labels := []string{}
	for _, a := range cfg.Annotations {
		labels = append(labels, a.Label)
	}
	assert.Equal(t, []string{"Financial Crisis", "Pandemic Shock", "Post-COVID Spike"}, labels)
	assert.Equal(t, engine.Annotation{Label: "Financial Crisis", X: 2008, Y: 26, DX: -50, DY: -50}, cfg.Annotations[0])
}

func TestTrendSkipsAnnotationsWithoutPoints(t *testing.T) {
	d := dataset.New([]engine.Observation{o("X", 2010, "", "", some(1), na)}, nil)

	cfg, err := Trend{}.Build(d)
	require.NoError(t, err)
	assert.Empty(t, cfg.Annotations)
}

// ============================================================================
// REGIONAL
// ============================================================================

func TestRegional(t *testing.T) {
	cfg, err := Regional{}.Build(fixture())
	require.NoError(t, err)

	names := []string{}
	for _, s := range cfg.Series {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Sub-Saharan Africa", "Europe & Central Asia", "Latin America & Caribbean"}, names,
		"first-seen order, blank region dropped")

	labels := []string{}
	for _, a := range cfg.Annotations {
		labels = append(labels, a.Label)
	}
	assert.Equal(t, []string{
		"2008 Financial Crisis impact on Africa",
		"2022 inflation spike in Europe",
		"Latin America inflation surge",
	}, labels)
	assert.Equal(t, 9.0, cfg.Annotations[0].Y)
	assert.Equal(t, 2022.0, cfg.Annotations[2].X)
}

func TestRegionalAnnotationConditions(t *testing.T) {
	d := dataset.New([]engine.Observation{
		o("Kenya", 2009, "Sub-Saharan Africa (excluding high income)", "", some(9), na),
		o("Poland", 2022, "Europe & Central Asia", "", some(10), na),
		o("Chile", 2015, "Latin America & Caribbean", "", some(20), na),
		o("Chile", 2021, "Latin America & Caribbean", "", some(5), na),
	}, nil)

	cfg, err := Regional{}.Build(d)
	require.NoError(t, err)
	assert.Empty(t, cfg.Annotations, "no 2008 point, not above 10, peak before 2020")
}

func TestFindRegionAcceptsQualifiedNames(t *testing.T) {
	series := []engine.ChartSeries{{Name: "Sub-Saharan Africa (excluding high income)"}}
	_, ok := findRegion(series, RegionSubSaharanAfrica)
	assert.True(t, ok)
	_, ok = findRegion(series, "Sub")
	assert.False(t, ok)
}

// ============================================================================
// INCOME
// ============================================================================

func TestIncome(t *testing.T) {
	cfg, err := Income{}.Build(fixture())
	require.NoError(t, err)

	assert.Equal(t, engine.DefaultIncomeGroups, cfg.Categories)
	require.Len(t, cfg.Series, 2)

	inflation, interest := cfg.Series[0], cfg.Series[1]
	assert.Equal(t, "Average Inflation", inflation.Name)
	assert.Equal(t, "#e74c3c", inflation.Color)

	assert.False(t, inflation.Data[0].Defined, "no low income rows")
	assert.False(t, inflation.Data[1].Defined, "lower middle income rows predate 2018")
	assert.False(t, inflation.Data[2].Defined)

	high := inflation.Data[3]
	assert.True(t, high.Defined)
	assert.InDelta(t, (14+4+11+0.5+1.8+1.2)/6.0, high.Value, 1e-9)
	assert.InDelta(t, (-6+1+2+1+1.2)/5.0, interest.Data[3].Value, 1e-9)
}

// ============================================================================
// EXPLORER
// ============================================================================

func TestExplorerDefaultsToUnitedStates(t *testing.T) {
	d := fixture()
	e := NewExplorer("")

	cfg, err := e.Build(d)
	require.NoError(t, err)

	assert.Equal(t, "United States", e.Selected(d))
	assert.Equal(t, engine.ChartDualAxis, cfg.ChartType)
	require.Len(t, cfg.Series, 3)
	gdp := cfg.Series[2]
	require.Len(t, gdp.Data, 2)
	assert.True(t, gdp.Data[0].Defined)
	assert.False(t, gdp.Data[1].Defined, "2020 has no GDP figure")
}

func TestExplorerSelect(t *testing.T) {
	d := fixture()
	e := NewExplorer("")

	cfg, err := e.Select(d, "Chile")
	require.NoError(t, err)
	assert.Equal(t, "Chile", e.Selected(d))
	assert.Len(t, cfg.Series[0].Data, 2)

	again, err := e.Build(d)
	require.NoError(t, err)
	assert.Equal(t, cfg, again, "same selection, same chart")
}

func TestExplorerEmptySelection(t *testing.T) {
	cfg, err := NewExplorer("").Select(fixture(), "Atlantis")
	require.NoError(t, err)

	for _, s := range cfg.Series {
		assert.Empty(t, s.Data)
	}
	assert.Equal(t, engine.Domain{Min: 0, Max: 10}, cfg.YDomain)
}

func TestExplorerCountries(t *testing.T) {
	countries := NewExplorer("").Countries(fixture())
	assert.Equal(t, []string{"Chile", "France", "Ghana", "Kenya", "Poland", "United States"}, countries)
}

// ============================================================================
// RANKING
// ============================================================================

func TestRankingTopCountries(t *testing.T) {
	r := NewRanking()
	r.Limit = 3

	cfg, err := r.Build(fixture())
	require.NoError(t, err)

	assert.Equal(t, engine.ChartGroupedBar, cfg.ChartType)
	assert.Equal(t, "Average Inflation Rate by Country (2000-2022)", cfg.Title)
	assert.Equal(t, []string{"Kenya", "Poland", "Chile"}, cfg.Categories, "Ghana has no inflation value")
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, "Average", cfg.Series[0].Name)
	assert.Equal(t, []float64{17.5, 14, 7.5}, cfg.Series[0].DefinedValues())
	assert.Equal(t, engine.Domain{Min: 0, Max: 17.5}, cfg.YDomain)
}

func TestRankingCountByRegion(t *testing.T) {
	r := Ranking{
		Measure:     engine.MeasureInflation,
		By:          engine.DimensionRegion,
		Aggregation: "count",
		SortBy:      "label_asc",
	}

	cfg, err := r.Build(fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"Europe & Central Asia", "Latin America & Caribbean", "Sub-Saharan Africa"}, cfg.Categories)
	assert.Equal(t, []float64{1, 2, 2}, cfg.Series[0].DefinedValues(), "missing values are not counted")
	assert.Equal(t, "Region", cfg.XAxis)
}

func TestRankingGdpUsesJoinedTable(t *testing.T) {
	r := Ranking{Measure: engine.MeasureGdp, By: engine.DimensionCountry, Aggregation: "max"}

	cfg, err := r.Build(fixture())
	require.NoError(t, err)
	assert.Equal(t, []string{"United States"}, cfg.Categories)
	assert.Equal(t, []float64{65000}, cfg.Series[0].DefinedValues())
}

func TestRankingValidate(t *testing.T) {
	assert.NoError(t, NewRanking().Validate())

	bad := Ranking{Measure: "cpi", By: "continent", Aggregation: "median", SortBy: "random", Limit: -1}
	err := bad.Validate()
	require.ErrorIs(t, err, ErrInvalidRanking)
	for _, want := range []string{`"cpi"`, `"continent"`, `"median"`, `"random"`, "-1"} {
		assert.Contains(t, err.Error(), want)
	}

	_, err = bad.Build(fixture())
	assert.ErrorIs(t, err, ErrInvalidRanking)
	_, err = NewRanking().Build(nil)
	assert.ErrorIs(t, err, ErrNoDataset)
}

// ============================================================================
// REGISTRY
// ============================================================================

func TestRegistry(t *testing.T) {
	r := Default(nil)

	assert.Equal(t, []string{"trend", "regional", "income", "explorer"}, r.Names())

	s, err := r.Get("Income")
	require.NoError(t, err)
	assert.Equal(t, "income", s.Name())

	_, err = r.Get("pie")
	assert.ErrorIs(t, err, ErrUnknownScene)

	all, err := r.Resolve(nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = r.Resolve([]string{"trend", "nope"})
	assert.ErrorIs(t, err, ErrUnknownScene)
}

func TestBuildWithoutDataset(t *testing.T) {
	for _, s := range Default(nil).All() {
		_, err := s.Build(nil)
		assert.ErrorIs(t, err, ErrNoDataset, s.Name())
	}
}
