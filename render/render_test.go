package render

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/macroscene/engine"
)

func years() engine.YearRange { return engine.YearRange{From: 2000, To: 2022} }

func point(x, v float64) engine.AggregatedPoint {
	return engine.AggregatedPoint{
		Key:   engine.Key{Parts: []string{"y"}, Order: x},
		Value: v,
		Count: 1,
	}
}

func drawSVG(t *testing.T, cfg *engine.ChartConfig) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewSVG().Draw(&buf, cfg))
	return buf.String()
}

func TestDrawLine(t *testing.T) {
	cfg := engine.BuildLineChart("Inflation", "Inflation", "%",
		[]engine.AggregatedPoint{point(2008, 6), point(2009, 3), point(2010, 4)}, years())
	cfg.Annotations = []engine.Annotation{{Label: "Financial Crisis", X: 2008, Y: 6, DX: -50, DY: -50}}

	out := drawSVG(t, cfg)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Financial Crisis")
}

func TestDrawEmptyCharts(t *testing.T) {
	charts := []*engine.ChartConfig{
		engine.BuildLineChart("Empty", "Inflation", "%", nil, years()),
		engine.BuildMultiLineChart("Empty", "%", nil, years()),
		engine.BuildGroupedBarChart("Empty", "%", nil, nil),
		engine.BuildGroupedBarChart("No metrics", "%", []string{"Low income"}, nil),
		engine.BuildGroupedBarChart("No groups", "%", nil, []engine.BarMetric{{Name: "Average", Key: "avg"}}),
		engine.BuildDualAxisChart("Empty", nil, years()),
	}
	for _, cfg := range charts {
		assert.Contains(t, drawSVG(t, cfg), "<svg", cfg.ChartType)
	}
}

func TestDrawGroupedBarSkipsUndefined(t *testing.T) {
	cfg := engine.BuildGroupedBarChart("Income", "Rate (%)", []string{"Low", "High"}, []engine.BarMetric{
		{Name: "Inflation", Key: "inflation", Color: "#e74c3c", Values: map[string]engine.Value{"High": engine.Some(4)}},
		{Name: "Interest", Key: "interest", Color: "#3498db", Values: map[string]engine.Value{
			"Low": engine.Some(-3), "High": engine.Some(2),
		}},
	})
	out := drawSVG(t, cfg)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Inflation")
}

func TestDrawDualAxisWithGaps(t *testing.T) {
	rows := []engine.JoinedObservation{
		{Observation: engine.Observation{Country: "Kenya", Year: 2008, Inflation: engine.Some(26)}, Gdp: engine.Some(1000)},
		{Observation: engine.Observation{Country: "Kenya", Year: 2009, Unemployment: engine.Some(3)}},
		{Observation: engine.Observation{Country: "Kenya", Year: 2010, Inflation: engine.Some(4), Unemployment: engine.Some(3)}},
	}
	cfg := engine.BuildDualAxisChart("Kenya", rows, years())
	assert.Contains(t, drawSVG(t, cfg), "GDP per Capita")
}

func TestDrawFormats(t *testing.T) {
	cfg := engine.BuildLineChart("Inflation", "Inflation", "%", []engine.AggregatedPoint{point(2008, 6)}, years())

	r, err := New("PNG", 320, 200)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Draw(&buf, cfg))
	assert.Equal(t, "\x89PNG", buf.String()[:4])

	_, err = New("bmp", 320, 200)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New("svg", 0, 200)
	assert.Error(t, err)
}

func TestDrawRejectsUnknownChart(t *testing.T) {
	err := NewSVG().Draw(&bytes.Buffer{}, &engine.ChartConfig{ChartType: "pie"})
	assert.ErrorIs(t, err, ErrUnsupportedChart)

	assert.Error(t, NewSVG().Draw(&bytes.Buffer{}, nil))
}

func TestSegments(t *testing.T) {
	pts := []engine.ChartPoint{
		{X: 1, Value: 1, Defined: true},
		{X: 2, Value: 2, Defined: true},
		{X: 3, Defined: false},
		{X: 4, Value: 4, Defined: true},
	}
	segs := segments(pts)
	require.Len(t, segs, 2)
	assert.Len(t, segs[0], 2)
	assert.Equal(t, 4.0, segs[1][0].X)

	assert.Empty(t, segments(nil))
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#4682B4")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x46, G: 0x82, B: 0xb4, A: 0xff}, c)

	c, err = parseColor("#f00")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, c)

	c, err = parseColor("")
	require.NoError(t, err)
	assert.Equal(t, color.Black, c)

	_, err = parseColor("steelblue")
	assert.Error(t, err)
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks{}.Ticks(2000, 2022)
	assert.Len(t, ticks, 23)
	assert.Equal(t, "2000", ticks[0].Label)
	assert.Equal(t, "", ticks[1].Label)
	assert.Equal(t, "2022", ticks[22].Label)
}
