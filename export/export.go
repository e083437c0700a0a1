package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/macroscene/engine"
)

// ============================================================================
// EXPORT: Chart configs as CSV, XLSX, JSON and text
// ============================================================================
// The tabular formats go through engine.BuildTable so a chart exports the
// same rows everywhere: one row per x position, one column per series, blank
// cells for undefined points. Text is the engine.BuildText summary.
// ============================================================================

// ErrUnsupportedFormat is returned by Write for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists the export formats.
var Formats = []string{"csv", "xlsx", "json", "text"}

// Sheet is one named chart in an export.
type Sheet struct {
	Name  string
	Chart *engine.ChartConfig
}

// Write exports sheets in format. CSV and text write the sheets one after
// another, separated by a blank line.
func Write(w io.Writer, format string, sheets []Sheet, pretty bool) error {
	switch strings.ToLower(format) {
	case "csv":
		for i, s := range sheets {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := WriteCSV(w, s.Chart); err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
		}
		return nil
	case "xlsx":
		return WriteXLSX(w, sheets)
	case "json":
		return WriteJSON(w, NewDocument(sheets), pretty)
	case "text", "txt":
		for i, s := range sheets {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if err := WriteText(w, s.Chart); err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ============================================================================
// CSV
// ============================================================================

// WriteCSV writes a chart as CSV. A single series gets two columns (x label,
// y axis label); multiple series get one column each.
func WriteCSV(w io.Writer, cfg *engine.ChartConfig) error {
	cw := csv.NewWriter(w)

	table := engine.BuildTable(cfg)
	if len(table.Columns) == 0 {
		cw.Write([]string{"Result", "No data"})
		cw.Flush()
		return cw.Error()
	}

	cw.Write(headers(cfg, table))
	for _, row := range table.Rows {
		cw.Write(row)
	}
	cw.Flush()
	return cw.Error()
}

func headers(cfg *engine.ChartConfig, table *engine.TableData) []string {
	out := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		out[i] = c.Label
	}
	if len(cfg.Series) == 1 && cfg.YAxis != "" {
		out[1] = cfg.YAxis
	}
	return out
}

// ============================================================================
// TEXT
// ============================================================================

// WriteText writes the growth summary of a chart, one line per series.
func WriteText(w io.Writer, cfg *engine.ChartConfig) error {
	_, err := fmt.Fprintln(w, engine.BuildText(cfg).String())
	return err
}

// ============================================================================
// XLSX
// ============================================================================

const maxSheetName = 31

// WriteXLSX writes a workbook with one sheet per chart. Numeric cells are
// stored as numbers; the last row holds the per-series average.
func WriteXLSX(w io.Writer, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range sheets {
		name := SheetName(s.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, s.Chart, bold); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, cfg *engine.ChartConfig, bold int) error {
	table := engine.BuildTable(cfg)
	if len(table.Columns) == 0 {
		return f.SetCellValue(sheet, "A1", "No data")
	}

	for i, h := range headers(cfg, table) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(table.Columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}

	for r, row := range table.Rows {
		for c, val := range row {
			if val == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, cellValue(table.Columns[c], val)); err != nil {
				return err
			}
		}
	}

	if table.Summary != nil {
		row := len(table.Rows) + 2
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, start, table.Summary.Label); err != nil {
			return err
		}
		for c, col := range table.Columns[1:] {
			val := table.Summary.Values[col.Key]
			if val == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, row)
			if err := f.SetCellValue(sheet, cell, cellValue(col, val)); err != nil {
				return err
			}
		}
		end, _ := excelize.CoordinatesToCellName(len(table.Columns), row)
		if err := f.SetCellStyle(sheet, start, end, bold); err != nil {
			return err
		}
	}
	return nil
}

// cellValue stores number columns as floats so spreadsheets can chart them.
func cellValue(col engine.Column, val string) interface{} {
	if col.Type != "number" {
		return val
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return val
}

// SheetName makes name a valid worksheet name.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Sheet"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

// ============================================================================
// JSON
// ============================================================================

// Document is the JSON export of a set of charts.
type Document struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Scenes      []SceneOutput `json:"scenes"`
}

// SceneOutput carries a chart with its table and text renditions.
type SceneOutput struct {
	Name  string              `json:"name"`
	Chart *engine.ChartConfig `json:"chart"`
	Table *engine.TableData   `json:"table"`
	Text  *engine.TextData    `json:"text"`
}

// NewDocument builds the JSON export of sheets.
func NewDocument(sheets []Sheet) Document {
	doc := Document{GeneratedAt: time.Now().UTC(), Scenes: make([]SceneOutput, 0, len(sheets))}
	for _, s := range sheets {
		doc.Scenes = append(doc.Scenes, SceneOutput{
			Name:  s.Name,
			Chart: s.Chart,
			Table: engine.BuildTable(s.Chart),
			Text:  engine.BuildText(s.Chart),
		})
	}
	return doc
}

// WriteJSON marshals v, indented when pretty.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}
