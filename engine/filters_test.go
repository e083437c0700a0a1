package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var filterRows = []Observation{
	{Country: "Kenya", Year: 1999, Region: "Sub-Saharan Africa", IncomeLevel: "Lower middle income"},
	{Country: "Kenya", Year: 2000, Region: "Sub-Saharan Africa", IncomeLevel: "Lower middle income"},
	{Country: "France", Year: 2010, IncomeLevel: "High income"},
	{Country: "Chile", Year: 2022, Region: "Latin America & Caribbean", IncomeLevel: "High income"},
	{Country: "Chile", Year: 2023, Region: "Latin America & Caribbean", IncomeLevel: "High income"},
}

func countries(view RecordView) []string {
	out := make([]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		out = append(out, view.Dimension(i, DimensionCountry)+"/"+view.Dimension(i, DimensionYear))
	}
	return out
}

func TestYearBetweenIsInclusive(t *testing.T) {
	view := ObservationAdapter().Bind(filterRows)
	got := Filter(view, YearBetween(2000, 2022))
	assert.Equal(t, []string{"Kenya/2000", "France/2010", "Chile/2022"}, countries(got))
}

func TestFilterComposition(t *testing.T) {
	view := ObservationAdapter().Bind(filterRows)

	got := Filter(view, And(
		YearBetween(2000, 2023),
		DimensionEquals(DimensionIncomeLevel, "High income"),
		NonEmpty(DimensionRegion),
	))

	assert.Equal(t, []string{"Chile/2022", "Chile/2023"}, countries(got))
}

func TestFilterDoesNotMutateAndKeepsOrder(t *testing.T) {
	rows := append([]Observation(nil), filterRows...)
	view := ObservationAdapter().Bind(rows)

	got := Filter(view, DimensionIn(DimensionCountry, "Chile", "Kenya"))

	assert.Equal(t, filterRows, rows)
	assert.Equal(t, []string{"Kenya/1999", "Kenya/2000", "Chile/2022", "Chile/2023"}, countries(got))
}

func TestFilterChainAndCollect(t *testing.T) {
	root := ObservationAdapter().Bind(filterRows)

	first := Filter(root, DimensionEquals(DimensionCountry, "Chile"))
	second := Filter(first, YearBetween(2023, 2023))

	rows := Collect(second, root)
	require.Len(t, rows, 1)
	assert.Equal(t, filterRows[4], rows[0])
}

func TestFilterNoMatches(t *testing.T) {
	got := Filter(ObservationAdapter().Bind(filterRows), DimensionEquals(DimensionCountry, "Narnia"))
	assert.Equal(t, 0, got.Len())
}

func TestFilterRowsGeneric(t *testing.T) {
	got := FilterRows(filterRows, func(o Observation) bool { return o.Year >= 2022 })
	assert.Len(t, got, 2)
}

func TestApplyFilters(t *testing.T) {
	view := ObservationAdapter().Bind(filterRows)

	got := ApplyFilters(view, Filters{
		Dimensions: map[string][]string{DimensionCountry: {"kenya", "FRANCE"}},
		Years:      &YearRange{From: 2000, To: 2022},
	})
	assert.Equal(t, []string{"Kenya/2000", "France/2010"}, countries(got))

	assert.Same(t, view, ApplyFilters(view, Filters{}), "empty filters return the input view")
}

func TestYearRange(t *testing.T) {
	r := YearRange{From: 2018, To: 2020}
	assert.Equal(t, []int{2018, 2019, 2020}, r.Years())
	assert.True(t, r.Contains(2018))
	assert.True(t, r.Contains(2020))
	assert.False(t, r.Contains(2021))
	assert.Nil(t, YearRange{From: 3, To: 1}.Years())
}
