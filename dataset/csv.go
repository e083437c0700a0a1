package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/spektr-org/macroscene/engine"
	"github.com/spektr-org/macroscene/schema"
)

// ============================================================================
// CSV LOADING: Text tables into typed rows
// ============================================================================
// Files are read into gota dataframes with every column kept as text, then
// an explicit parse step types each cell. Columns are resolved by header
// name through the schema. Blank and "NA" cells are missing values.
// ============================================================================

var (
	// ErrMissingColumns is returned when a file lacks a column its schema requires.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrNoHeader is returned when a preamble-prefixed file has no header row.
	ErrNoHeader = errors.New("header row not found")
)

var nanValues = []string{"", "NA", "NaN", "<nil>"}

var utf8BOM = []byte("\xef\xbb\xbf")

// Report counts what a parse kept and rejected.
type Report struct {
	Rows     int            `json:"rows"`
	Kept     int            `json:"kept"`
	Rejected int            `json:"rejected"`
	Missing  map[string]int `json:"missing"` // measure key -> missing cells in kept rows
}

// ParsePrimary reads the country-year indicators table.
// Rows without a country or an integral year are rejected and counted.
func ParsePrimary(r io.Reader, sch schema.Config) ([]engine.Observation, Report, error) {
	rep := Report{Missing: make(map[string]int)}

	df, cols, err := readFrame(r, sch)
	if err != nil {
		return nil, rep, err
	}

	country := cols.cells(df, sch, engine.DimensionCountry)
	year := cols.cells(df, sch, engine.DimensionYear)
	region := cols.cells(df, sch, engine.DimensionRegion)
	income := cols.cells(df, sch, engine.DimensionIncomeLevel)
	inflation := cols.cells(df, sch, engine.MeasureInflation)
	unemployment := cols.cells(df, sch, engine.MeasureUnemployment)
	interest := cols.cells(df, sch, engine.MeasureInterestRate)

	rep.Rows = df.Nrow()
	out := make([]engine.Observation, 0, rep.Rows)
	for i := 0; i < rep.Rows; i++ {
		name := strings.TrimSpace(country[i])
		y, ok := ParseYear(year[i])
		if name == "" || !ok {
			rep.Rejected++
			continue
		}
		o := engine.Observation{
			Country:      name,
			Year:         y,
			Region:       strings.TrimSpace(region[i]),
			IncomeLevel:  strings.TrimSpace(income[i]),
			Inflation:    ParseNumber(inflation[i]),
			Unemployment: ParseNumber(unemployment[i]),
			InterestRate: ParseNumber(interest[i]),
		}
		countMissing(rep.Missing, engine.MeasureInflation, o.Inflation)
		countMissing(rep.Missing, engine.MeasureUnemployment, o.Unemployment)
		countMissing(rep.Missing, engine.MeasureInterestRate, o.InterestRate)
		out = append(out, o)
	}
	rep.Kept = len(out)
	return out, rep, nil
}

// ParseGdp reads the wide GDP-per-capita table. Every four-digit header is
// a year column. Rows without a country name are rejected; blank cells are
// left out of the record's values.
func ParseGdp(r io.Reader, sch schema.Config) ([]engine.GdpRecord, Report, error) {
	rep := Report{Missing: make(map[string]int)}

	df, cols, err := readFrame(r, sch)
	if err != nil {
		return nil, rep, err
	}

	country := cols.cells(df, sch, engine.DimensionCountry)
	years := schema.YearColumns(df.Names())
	values := make([][]string, len(years))
	for j, yc := range years {
		values[j] = columnCells(df, yc.Column)
	}

	rep.Rows = df.Nrow()
	out := make([]engine.GdpRecord, 0, rep.Rows)
	for i := 0; i < rep.Rows; i++ {
		name := strings.TrimSpace(country[i])
		if name == "" {
			rep.Rejected++
			continue
		}
		rec := engine.GdpRecord{Country: name, Values: make(map[int]engine.Value, len(years))}
		for j, yc := range years {
			v := ParseNumber(values[j][i])
			if !v.Valid {
				rep.Missing[engine.MeasureGdp]++
				continue
			}
			rec.Values[yc.Year] = v
		}
		out = append(out, rec)
	}
	rep.Kept = len(out)
	return out, rep, nil
}

// ============================================================================
// FRAME HELPERS
// ============================================================================

// columnMap resolves trimmed header names to the frame's column names.
type columnMap map[string]string

func (m columnMap) cells(df dataframe.DataFrame, sch schema.Config, key string) []string {
	header, ok := sch.Column(key)
	if !ok {
		return make([]string, df.Nrow())
	}
	name, ok := m[header]
	if !ok {
		return make([]string, df.Nrow())
	}
	return columnCells(df, name)
}

func readFrame(r io.Reader, sch schema.Config) (dataframe.DataFrame, columnMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("failed to read input: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if sch.HeaderMarker != "" {
		if data, err = skipPreamble(data, sch.HeaderMarker); err != nil {
			return dataframe.DataFrame{}, nil, err
		}
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		// gota refuses a frame with no records; a bare header is an empty table.
		header, ok := headerOnly(data)
		if !ok {
			return df, nil, fmt.Errorf("failed to parse CSV: %w", df.Err)
		}
		if df = emptyFrame(header); df.Err != nil {
			return df, nil, fmt.Errorf("failed to parse CSV: %w", df.Err)
		}
	}

	names := df.Names()
	if missing := sch.CheckHeaders(names); len(missing) > 0 {
		return df, nil, fmt.Errorf("%s: %w: %s", sch.Name, ErrMissingColumns, strings.Join(missing, ", "))
	}

	cols := make(columnMap, len(names))
	for _, n := range names {
		cols[strings.TrimSpace(n)] = n
	}
	return df, cols, nil
}

// headerOnly returns the header of data when it is the only record.
func headerOnly(data []byte) ([]string, bool) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		return nil, false
	}
	if _, err := cr.Read(); err != io.EOF {
		return nil, false
	}
	return header, true
}

// emptyFrame builds a zero-row frame with one text column per header name.
func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

// columnCells returns a column as text with missing cells blanked.
func columnCells(df dataframe.DataFrame, name string) []string {
	s := df.Col(name)
	cells := s.Records()
	for i, nan := range s.IsNaN() {
		if nan {
			cells[i] = ""
		}
	}
	return cells
}

// skipPreamble drops every line before the one whose first cell is marker.
func skipPreamble(data []byte, marker string) ([]byte, error) {
	offset := 0
	for offset < len(data) {
		end := bytes.IndexByte(data[offset:], '\n')
		line := data[offset:]
		if end >= 0 {
			line = data[offset : offset+end]
		}
		if firstCell(line) == marker {
			return data[offset:], nil
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, fmt.Errorf("%w: no line starting with %q", ErrNoHeader, marker)
}

func firstCell(line []byte) string {
	s := strings.TrimSpace(string(bytes.TrimPrefix(line, utf8BOM)))
	if strings.HasPrefix(s, `"`) {
		if end := strings.Index(s[1:], `"`); end >= 0 {
			return s[1 : end+1]
		}
		return strings.Trim(s, `"`)
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func countMissing(m map[string]int, key string, v engine.Value) {
	if !v.Valid {
		m[key]++
	}
}
