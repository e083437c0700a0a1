package engine

import (
	"sort"
	"strconv"
)

// ============================================================================
// JOIN: GDP per capita merged onto observations by (country, year)
// ============================================================================
// The GDP table is wide (one column per year). It is flattened to long form
// once, indexed by JoinKey, then looked up per observation. Sources are
// never mutated; a lookup miss is a missing value, not an error.
// ============================================================================

// DuplicatePolicy decides which row wins when a country appears more than
// once in the GDP table.
type DuplicatePolicy string

const (
	LastWins  DuplicatePolicy = "last"
	FirstWins DuplicatePolicy = "first"
)

// JoinKey is the composite lookup key "<country>_<year>".
func JoinKey(country string, year int) string {
	return country + "_" + strconv.Itoa(year)
}

// GdpIndex maps JoinKey → GDP per capita.
type GdpIndex struct {
	values     map[string]float64
	collisions int
}

// Get returns the GDP for a country-year, or Missing.
func (idx *GdpIndex) Get(country string, year int) Value {
	if idx == nil {
		return Missing()
	}
	if v, ok := idx.values[JoinKey(country, year)]; ok {
		return Some(v)
	}
	return Missing()
}

// Len returns the number of indexed country-years.
func (idx *GdpIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.values)
}

// Collisions returns how many cells were contested by duplicate countries.
func (idx *GdpIndex) Collisions() int {
	if idx == nil {
		return 0
	}
	return idx.collisions
}

// FlattenGdp turns wide GDP records into long (country, year, value) points
// for the years in r. Blank countries and missing cells are skipped.
// Points come out in record order, then year order.
func FlattenGdp(records []GdpRecord, r YearRange) []GdpPoint {
	years := r.Years()
	out := make([]GdpPoint, 0, len(records)*len(years))
	for _, rec := range records {
		if rec.Country == "" {
			continue
		}
		for _, y := range years {
			v, ok := rec.Values[y].Get()
			if !ok {
				continue
			}
			out = append(out, GdpPoint{Country: rec.Country, Year: y, Value: v})
		}
	}
	return out
}

// BuildIndex flattens records over r and indexes them by JoinKey.
// Duplicate countries resolve per policy; an empty policy means LastWins.
func BuildIndex(records []GdpRecord, r YearRange, policy DuplicatePolicy) *GdpIndex {
	points := FlattenGdp(records, r)
	idx := &GdpIndex{values: make(map[string]float64, len(points))}
	for _, p := range points {
		key := JoinKey(p.Country, p.Year)
		if _, exists := idx.values[key]; exists {
			idx.collisions++
			if policy == FirstWins {
				continue
			}
		}
		idx.values[key] = p.Value
	}
	return idx
}

// Join returns one JoinedObservation per observation, in input order.
func Join(observations []Observation, idx *GdpIndex) []JoinedObservation {
	out := make([]JoinedObservation, len(observations))
	for i, o := range observations {
		out[i] = JoinedObservation{
			Observation: o,
			Gdp:         idx.Get(o.Country, o.Year),
		}
	}
	return out
}

// ============================================================================
// SELECTION
// ============================================================================

// SelectCategory returns the rows of one country sorted by year ascending.
// An unknown country yields an empty, non-nil slice.
func SelectCategory(joined []JoinedObservation, country string) []JoinedObservation {
	out := FilterRows(joined, func(o JoinedObservation) bool { return o.Country == country })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Categories returns the distinct non-empty values of a dimension, sorted.
func Categories(view RecordView, dimension string) []string {
	values := UniqueValues(view, dimension)
	sort.Strings(values)
	return values
}
