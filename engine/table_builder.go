package engine

import (
	"strconv"
)

// ============================================================================
// TABLE BUILDER: Flattens a ChartConfig into rows for CSV / XLSX export
// ============================================================================
// One row per x position (year or category), one column per series.
// Undefined points become blank cells.
// ============================================================================

// TableData defines a tabular rendition of a chart.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Summary provides per-column aggregates for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// BuildTable produces a TableData from a chart.
func BuildTable(config *ChartConfig) *TableData {
	if config == nil || len(config.Series) == 0 {
		return &TableData{Columns: []Column{}, Rows: [][]string{}}
	}

	xLabel := config.XAxis
	if xLabel == "" {
		xLabel = "Category"
	}

	columns := make([]Column, 0, len(config.Series)+1)
	columns = append(columns, Column{Key: "x", Label: xLabel, Type: "text", Align: "left"})
	for _, s := range config.Series {
		columns = append(columns, Column{
			Key:   s.Key,
			Label: s.Name,
			Type:  "number",
			Align: "right",
		})
	}

	// Collect x positions in first-seen order across all series.
	type slot struct {
		x     float64
		label string
	}
	var slots []slot
	seen := make(map[float64]bool)
	for _, s := range config.Series {
		for _, p := range s.Data {
			if !seen[p.X] {
				seen[p.X] = true
				slots = append(slots, slot{x: p.X, label: p.Label})
			}
		}
	}

	rows := make([][]string, 0, len(slots))
	for _, sl := range slots {
		row := make([]string, 0, len(columns))
		row = append(row, sl.label)
		for _, s := range config.Series {
			row = append(row, cellAt(s, sl.x))
		}
		rows = append(rows, row)
	}

	summary := &Summary{Label: "Average", Values: make(map[string]string)}
	for _, s := range config.Series {
		vals := s.DefinedValues()
		if len(vals) == 0 {
			summary.Values[s.Key] = ""
			continue
		}
		var total float64
		for _, v := range vals {
			total += v
		}
		summary.Values[s.Key] = FormatNumber(total / float64(len(vals)))
	}

	return &TableData{
		Title:   config.Title,
		Columns: columns,
		Rows:    rows,
		Summary: summary,
	}
}

func cellAt(s ChartSeries, x float64) string {
	for _, p := range s.Data {
		if p.X == x {
			if !p.Defined {
				return ""
			}
			return FormatNumber(p.Value)
		}
	}
	return ""
}

// FormatNumber prints whole numbers without decimals and others with two.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(RoundTo2(v), 'f', 2, 64)
}
