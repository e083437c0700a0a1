package schema

import "github.com/spektr-org/macroscene/engine"

// Source column headers.
const (
	ColumnCountry      = "country"
	ColumnYear         = "year"
	ColumnRegion       = "adminregion"
	ColumnIncomeLevel  = "incomeLevel"
	ColumnInflation    = "Inflation, consumer prices (annual %)"
	ColumnUnemployment = "Unemployment, total (% of total labor force) (modeled ILO estimate)"
	ColumnInterestRate = "Real interest rate (%)"

	ColumnCountryName = "Country Name"
)

// Primary describes the country-year macro indicators table.
func Primary() Config {
	region := DefaultDimension(engine.DimensionRegion, ColumnRegion, "Region")
	region.Description = "World Bank administrative region; blank for high-income countries"
	income := DefaultDimension(engine.DimensionIncomeLevel, ColumnIncomeLevel, "Income Level")

	year := DefaultDimension(engine.DimensionYear, ColumnYear, "Year")
	year.IsTemporal = true

	inflation := DefaultMeasure(engine.MeasureInflation, ColumnInflation, "Inflation")
	inflation.Unit, inflation.Format = "percent", "0.00%"
	unemployment := DefaultMeasure(engine.MeasureUnemployment, ColumnUnemployment, "Unemployment")
	unemployment.Unit, unemployment.Format = "percent", "0.00%"
	interest := DefaultMeasure(engine.MeasureInterestRate, ColumnInterestRate, "Real Interest Rate")
	interest.Unit, interest.Format = "percent", "0.00%"

	return Config{
		Name:        "Inflation, interest and unemployment",
		Version:     "1.0",
		Description: "One row per country and year",
		Layout:      LayoutLong,
		Dimensions: []DimensionMeta{
			DefaultDimension(engine.DimensionCountry, ColumnCountry, "Country"),
			year,
			region,
			income,
		},
		Measures: []MeasureMeta{inflation, unemployment, interest},
	}
}

// Gdp describes the World Bank GDP-per-capita export: one row per country,
// one column per year, preceded by a metadata preamble.
func Gdp() Config {
	gdp := DefaultMeasure(engine.MeasureGdp, "", "GDP per Capita")
	gdp.Unit, gdp.IsCurrency, gdp.Format = "currency", true, "$#,##0"

	return Config{
		Name:         "GDP per capita (current US$)",
		Version:      "1.0",
		Description:  "NY.GDP.PCAP.CD, wide by year",
		Layout:       LayoutWide,
		HeaderMarker: ColumnCountryName,
		Dimensions: []DimensionMeta{
			DefaultDimension(engine.DimensionCountry, ColumnCountryName, "Country"),
		},
		Measures: []MeasureMeta{gdp},
	}
}
