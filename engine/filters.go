package engine

import (
	"strconv"
	"strings"
)

// ============================================================================
// FILTERS: Row predicates and dimension filtering via RecordView
// ============================================================================
// Every filter returns a SubView (index list into parent): zero data copy,
// input never mutated, relative order preserved.
// ============================================================================

// Row is one record of a view, handed to predicates.
type Row struct {
	view  RecordView
	index int
}

// Dimension returns a dimension value of the row.
func (r Row) Dimension(key string) string { return r.view.Dimension(r.index, key) }

// Measure returns a measure value of the row and whether it is present.
func (r Row) Measure(key string) (float64, bool) { return r.view.Measure(r.index, key) }

// Year parses the year dimension. ok is false when the row has no valid year.
func (r Row) Year() (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(r.Dimension(DimensionYear)))
	return y, err == nil
}

// Predicate is a pure function of a single row.
type Predicate func(Row) bool

// Filter returns a view of the rows matching pred.
func Filter(view RecordView, pred Predicate) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if pred(Row{view: view, index: i}) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// FilterRows is Filter for plain typed slices.
func FilterRows[T any](rows []T, pred func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// ============================================================================
// PREDICATE BUILDERS
// ============================================================================

// YearRange is an inclusive range of years.
type YearRange struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// Contains reports whether year lies within the range, bounds included.
func (r YearRange) Contains(year int) bool { return year >= r.From && year <= r.To }

// Years lists every year of the range in ascending order.
func (r YearRange) Years() []int {
	if r.To < r.From {
		return nil
	}
	out := make([]int, 0, r.To-r.From+1)
	for y := r.From; y <= r.To; y++ {
		out = append(out, y)
	}
	return out
}

// YearBetween matches rows whose year lies in [from, to].
func YearBetween(from, to int) Predicate {
	r := YearRange{From: from, To: to}
	return func(row Row) bool {
		y, ok := row.Year()
		return ok && r.Contains(y)
	}
}

// DimensionEquals matches rows whose dimension equals value exactly.
func DimensionEquals(dimension, value string) Predicate {
	return func(row Row) bool { return row.Dimension(dimension) == value }
}

// DimensionIn matches rows whose dimension is one of values.
func DimensionIn(dimension string, values ...string) Predicate {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return func(row Row) bool { return set[row.Dimension(dimension)] }
}

// NonEmpty matches rows with a non-blank dimension.
func NonEmpty(dimension string) Predicate {
	return func(row Row) bool { return strings.TrimSpace(row.Dimension(dimension)) != "" }
}

// And matches rows accepted by every predicate. No predicates matches all.
func And(preds ...Predicate) Predicate {
	return func(row Row) bool {
		for _, p := range preds {
			if !p(row) {
				return false
			}
		}
		return true
	}
}

// ============================================================================
// DIMENSION FILTERS
// ============================================================================

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
	Years      *YearRange          `json:"years,omitempty"`
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if f.Years != nil {
		return false
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns a view of records matching all filters.
// Dimension matching is case-insensitive.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	// Pre-build lowercase lookup sets for each dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	preds := make([]Predicate, 0, len(sets)+1)
	if filters.Years != nil {
		preds = append(preds, YearBetween(filters.Years.From, filters.Years.To))
	}
	for dim, set := range sets {
		dim, set := dim, set
		preds = append(preds, func(row Row) bool {
			return set[strings.ToLower(row.Dimension(dim))]
		})
	}

	return Filter(view, And(preds...))
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
