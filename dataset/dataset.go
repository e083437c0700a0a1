package dataset

import (
	"github.com/spektr-org/macroscene/engine"
)

// Dataset is the loaded, joined and read-only input of every scene.
// It is built once per process and passed to scenes explicitly.
type Dataset struct {
	settings     engine.Settings
	observations []engine.Observation
	gdp          []engine.GdpRecord
	index        *engine.GdpIndex
	joined       []engine.JoinedObservation

	primaryReport Report
	gdpReport     Report
}

// New joins observations with GDP records under the given options.
// The joined table covers the configured year range only; the raw
// observations are kept whole for scenes with their own ranges.
func New(observations []engine.Observation, gdp []engine.GdpRecord, opts ...engine.Option) *Dataset {
	settings := engine.Apply(opts...)

	inRange := engine.FilterRows(observations, func(o engine.Observation) bool {
		return settings.Years.Contains(o.Year)
	})
	index := engine.BuildIndex(gdp, settings.Years, settings.DuplicatePolicy)

	return &Dataset{
		settings:     settings,
		observations: observations,
		gdp:          gdp,
		index:        index,
		joined:       engine.Join(inRange, index),
	}
}

// Restrict returns a dataset holding only the observations that match f,
// re-joined against the same GDP index. Parse reports carry over.
// Empty filters return d itself.
func (d *Dataset) Restrict(f engine.Filters) *Dataset {
	if f.IsEmpty() {
		return d
	}
	all := d.Observations()
	kept := engine.Collect(engine.ApplyFilters(all, f), all)

	inRange := engine.FilterRows(kept, func(o engine.Observation) bool {
		return d.settings.Years.Contains(o.Year)
	})
	return &Dataset{
		settings:      d.settings,
		observations:  kept,
		gdp:           d.gdp,
		index:         d.index,
		joined:        engine.Join(inRange, d.index),
		primaryReport: d.primaryReport,
		gdpReport:     d.gdpReport,
	}
}

// Settings returns the options the dataset was built with.
func (d *Dataset) Settings() engine.Settings { return d.settings }

// Observations returns a view over every parsed primary row.
func (d *Dataset) Observations() *engine.DomainView[engine.Observation] {
	return engine.ObservationAdapter().Bind(d.observations)
}

// Joined returns a view over the joined table.
func (d *Dataset) Joined() *engine.DomainView[engine.JoinedObservation] {
	return engine.JoinedAdapter().Bind(d.joined)
}

// Select returns one country's joined rows in year order.
// Unknown countries yield an empty slice.
func (d *Dataset) Select(country string) []engine.JoinedObservation {
	return engine.SelectCategory(d.joined, country)
}

// Countries lists the distinct countries of the joined table, sorted.
func (d *Dataset) Countries() []string {
	return engine.Categories(d.Joined(), engine.DimensionCountry)
}

// HasCountry reports whether country appears in the joined table.
func (d *Dataset) HasCountry(country string) bool {
	for i := range d.joined {
		if d.joined[i].Country == country {
			return true
		}
	}
	return false
}

// GdpCountries is the number of distinct countries in the GDP index.
func (d *Dataset) GdpCountries() int {
	seen := make(map[string]bool, len(d.gdp))
	for _, r := range d.gdp {
		seen[r.Country] = true
	}
	return len(seen)
}

// GdpPoints is the number of (country, year) GDP figures in the index.
func (d *Dataset) GdpPoints() int { return d.index.Len() }

// Collisions is the number of GDP cells overwritten or ignored because a
// country appeared more than once.
func (d *Dataset) Collisions() int { return d.index.Collisions() }

// Reports returns the parse reports of the primary and GDP files.
// Both are zero for datasets built with New.
func (d *Dataset) Reports() (primary, gdp Report) {
	return d.primaryReport, d.gdpReport
}
