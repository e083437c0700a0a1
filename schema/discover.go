package schema

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/macroscene/engine"
)

// ============================================================================
// DISCOVERY: Year columns of wide tables, and data profiles
// ============================================================================
// YearColumns finds the per-year columns of a wide export by header.
// Describe profiles loaded rows against a Config: sample values and
// cardinality per dimension, present / missing counts per measure.
// The input Config is never mutated.
// ============================================================================

// YearColumn maps a wide-layout header to the year it holds.
type YearColumn struct {
	Year   int
	Column string
}

// YearColumns returns the headers that are four-digit years, sorted by year.
// Other headers (names, codes, trailing blanks) are ignored.
func YearColumns(headers []string) []YearColumn {
	var cols []YearColumn
	for _, h := range headers {
		trimmed := strings.TrimSpace(h)
		if !isYear(trimmed) {
			continue
		}
		y, _ := strconv.Atoi(trimmed)
		cols = append(cols, YearColumn{Year: y, Column: h})
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Year < cols[j].Year })
	return cols
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ============================================================================
// PROFILE
// ============================================================================

// Describe returns a copy of c profiled against view.
// Keys the view does not expose are left untouched.
func Describe(c Config, view engine.RecordView) Config {
	out := copyConfig(c)
	out.Rows = view.Len()
	out.DescribedAt = time.Now().Format(time.RFC3339)

	known := make(map[string]bool)
	for _, k := range view.DimensionKeys() {
		known[k] = true
	}
	for i := range out.Dimensions {
		d := &out.Dimensions[i]
		if !known[d.Key] {
			continue
		}
		unique := make(map[string]bool)
		for r := 0; r < view.Len(); r++ {
			if v := strings.TrimSpace(view.Dimension(r, d.Key)); v != "" {
				unique[v] = true
			}
		}
		d.SampleValues = collectSamples(unique, 10)
		d.CardinalityHint = cardinality(len(unique))
		if d.IsTemporal {
			out.YearsPresent = sortedYears(unique)
		}
	}

	measures := make(map[string]bool)
	for _, k := range view.MeasureKeys() {
		measures[k] = true
	}
	for i := range out.Measures {
		m := &out.Measures[i]
		if !measures[m.Key] {
			continue
		}
		m.Present, m.Missing = 0, 0
		for r := 0; r < view.Len(); r++ {
			if _, ok := view.Measure(r, m.Key); ok {
				m.Present++
			} else {
				m.Missing++
			}
		}
	}
	return out
}

func cardinality(unique int) string {
	switch {
	case unique <= 10:
		return "low"
	case unique <= 100:
		return "medium"
	default:
		return "high"
	}
}

// collectSamples picks up to maxSamples representative values.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}

	// Sort for deterministic output
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}

func sortedYears(values map[string]bool) []int {
	years := make([]int, 0, len(values))
	for v := range values {
		if y, err := strconv.Atoi(v); err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

func copyConfig(src Config) Config {
	dst := src
	dst.Dimensions = make([]DimensionMeta, len(src.Dimensions))
	for i, d := range src.Dimensions {
		dst.Dimensions[i] = d
		dst.Dimensions[i].SampleValues = append([]string(nil), d.SampleValues...)
	}
	dst.Measures = make([]MeasureMeta, len(src.Measures))
	for i, m := range src.Measures {
		dst.Measures[i] = m
		dst.Measures[i].Aggregations = append([]string(nil), m.Aggregations...)
	}
	dst.YearsPresent = append([]int(nil), src.YearsPresent...)
	return dst
}
