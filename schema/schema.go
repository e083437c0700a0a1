package schema

import "strings"

// ============================================================================
// SCHEMA: Describes the shape of the two input tables
// ============================================================================
// Each dimension and measure maps a shared engine key to the column header
// it is read from. The loader resolves columns by header name, so column
// order in the file is irrelevant. Headers are opaque keys: punctuation and
// spaces are matched exactly (after trimming).
// ============================================================================

// Table layouts.
const (
	// LayoutLong has one row per (country, year) with a year column.
	LayoutLong = "long"
	// LayoutWide has one row per country and one column per year.
	LayoutWide = "wide"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Layout      string `json:"layout"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// HeaderMarker is the first cell of the header row for files that carry
	// a metadata preamble. Empty means the first line is the header.
	HeaderMarker string `json:"headerMarker,omitempty"`

	// Filled in by Describe.
	Rows         int    `json:"rows,omitempty"`
	DescribedAt  string `json:"describedAt,omitempty"`
	YearsPresent []int  `json:"yearsPresent,omitempty"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key             string   `json:"key"`
	Column          string   `json:"column"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description,omitempty"`
	SampleValues    []string `json:"sampleValues,omitempty"`
	Groupable       bool     `json:"groupable"`
	Filterable      bool     `json:"filterable"`
	IsTemporal      bool     `json:"isTemporal,omitempty"`
	Optional        bool     `json:"optional,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// MeasureMeta describes a numeric field used for aggregation.
// Column is empty for wide layouts, where the values live in year columns.
type MeasureMeta struct {
	Key                string   `json:"key"`
	Column             string   `json:"column,omitempty"`
	DisplayName        string   `json:"displayName"`
	Description        string   `json:"description,omitempty"`
	Unit               string   `json:"unit,omitempty"` // "percent", "currency"
	IsCurrency         bool     `json:"isCurrency,omitempty"`
	Aggregations       []string `json:"aggregations,omitempty"`
	DefaultAggregation string   `json:"defaultAggregation,omitempty"`
	Format             string   `json:"format,omitempty"`
	Present            int      `json:"present,omitempty"`
	Missing            int      `json:"missing,omitempty"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, column, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		Column:      column,
		DisplayName: displayName,
		Groupable:   true,
		Filterable:  true,
	}
}

// DefaultMeasure creates a MeasureMeta averaged by default.
func DefaultMeasure(key, column, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		Column:             column,
		DisplayName:        displayName,
		Aggregations:       []string{"avg", "min", "max", "count"},
		DefaultAggregation: "avg",
	}
}

// GetDefaultMeasure returns the first measure's key, or "" when there is none.
func (c Config) GetDefaultMeasure() string {
	if len(c.Measures) > 0 {
		return c.Measures[0].Key
	}
	return ""
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Column returns the header a key is read from.
func (c Config) Column(key string) (string, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.Column, d.Column != ""
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.Column, m.Column != ""
		}
	}
	return "", false
}

// RequiredColumns lists the headers a file must carry, in schema order.
func (c Config) RequiredColumns() []string {
	var cols []string
	for _, d := range c.Dimensions {
		if d.Column != "" && !d.Optional {
			cols = append(cols, d.Column)
		}
	}
	for _, m := range c.Measures {
		if m.Column != "" {
			cols = append(cols, m.Column)
		}
	}
	return cols
}

// CheckHeaders reports every required column absent from headers.
// A nil result means the headers are complete.
func (c Config) CheckHeaders(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, col := range c.RequiredColumns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if c.Layout == LayoutWide && len(YearColumns(headers)) == 0 {
		missing = append(missing, "<year columns>")
	}
	return missing
}
