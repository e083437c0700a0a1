package engine

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ============================================================================
// MACROSCENE ENGINE TYPES
// ============================================================================
// Observation / GdpRecord are the two input tables after parsing.
// JoinedObservation is the primary table with GDP merged on (country, year).
// AggregatedPoint and Group are intermediate results; ChartConfig is the
// render-ready output handed to a renderer.
// ============================================================================

// Measure keys shared by the views, schema and scenes.
const (
	MeasureInflation    = "inflation"
	MeasureUnemployment = "unemployment"
	MeasureInterestRate = "interest_rate"
	MeasureGdp          = "gdp"
)

// Dimension keys shared by the views, schema and scenes.
const (
	DimensionCountry     = "country"
	DimensionYear        = "year"
	DimensionRegion      = "region"
	DimensionIncomeLevel = "income_level"
)

// ============================================================================
// VALUE: float or missing
// ============================================================================

// Value is a float that may be missing. Missing values marshal as null.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a present value.
func Some(f float64) Value { return Value{Float: f, Valid: true} }

// Missing returns an absent value.
func Missing() Value { return Value{} }

// Get returns the float and whether it is present.
func (v Value) Get() (float64, bool) { return v.Float, v.Valid }

// Or returns the float, or def when missing.
func (v Value) Or(def float64) float64 {
	if !v.Valid {
		return def
	}
	return v.Float
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.Float, 'f', -1, 64)), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// ============================================================================
// INPUT RECORDS
// ============================================================================

// Observation is one country-year row from the primary dataset.
type Observation struct {
	Country      string `json:"country"`
	Year         int    `json:"year"`
	Inflation    Value  `json:"inflation"`
	Unemployment Value  `json:"unemployment"`
	InterestRate Value  `json:"interestRate"`
	IncomeLevel  string `json:"incomeLevel"`
	Region       string `json:"region"`
}

// GdpRecord is one country's GDP-per-capita series in wide form.
type GdpRecord struct {
	Country string        `json:"country"`
	Values  map[int]Value `json:"values"`
}

// GdpPoint is one flattened (country, year, value) cell of a GdpRecord.
type GdpPoint struct {
	Country string
	Year    int
	Value   float64
}

// JoinedObservation is an Observation with GDP per capita merged in.
// GDP is missing when the secondary dataset has no figure for the country-year.
type JoinedObservation struct {
	Observation
	Gdp Value `json:"gdp"`
}

// Record is a generic data row with string dimensions and numeric measures.
// A measure absent from the map is missing.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// AGGREGATION RESULTS
// ============================================================================

// Key identifies an aggregation group. Order gives a numeric sort position
// (the year for year keys) so keys never sort lexically by accident.
type Key struct {
	Parts []string `json:"parts"`
	Order float64  `json:"order"`
}

// String joins the key parts with "|".
func (k Key) String() string {
	return strings.Join(k.Parts, "|")
}

// AggregatedPoint is the mean of a measure over all rows sharing a key.
type AggregatedPoint struct {
	Key   Key     `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"` // rows that contributed a value
}

// Group represents a grouped/aggregated result.
// Builders convert these into ChartConfig.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	Defined   bool       `json:"defined"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// Chart types understood by renderers.
const (
	ChartLine       = "line"
	ChartMultiLine  = "multi_line"
	ChartGroupedBar = "grouped_bar"
	ChartDualAxis   = "dual_axis"
)

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType   string        `json:"chartType"`
	Title       string        `json:"title"`
	XAxis       string        `json:"xAxis,omitempty"`
	YAxis       string        `json:"yAxis,omitempty"`
	Y2Axis      string        `json:"y2Axis,omitempty"`
	XDomain     Domain        `json:"xDomain"`
	YDomain     Domain        `json:"yDomain"`
	Y2Domain    *Domain       `json:"y2Domain,omitempty"`
	Categories  []string      `json:"categories,omitempty"` // band axis for grouped bars
	Series      []ChartSeries `json:"series"`
	Colors      []string      `json:"colors,omitempty"`
	Annotations []Annotation  `json:"annotations,omitempty"`
	ShowLegend  bool          `json:"showLegend"`
	ShowGrid    bool          `json:"showGrid"`
}

// Domain is an inclusive axis range.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ChartSeries represents a data series in a chart.
// Axis is "left" (default) or "right" for dual-axis charts.
type ChartSeries struct {
	Name  string       `json:"name"`
	Key   string       `json:"key,omitempty"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
	Axis  string       `json:"axis,omitempty"`
}

// ChartPoint represents a single data point.
// Undefined points break the line instead of dropping to zero.
type ChartPoint struct {
	X       float64 `json:"x"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
	Tooltip string  `json:"tooltip,omitempty"`
}

// Annotation is a static label anchored at a data coordinate and drawn at
// an offset in pixels.
type Annotation struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
}

// DefinedValues returns the values of all defined points in a series.
func (s ChartSeries) DefinedValues() []float64 {
	out := make([]float64, 0, len(s.Data))
	for _, p := range s.Data {
		if p.Defined {
			out = append(out, p.Value)
		}
	}
	return out
}
