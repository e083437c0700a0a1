package scenes

import (
	"strings"
	"sync"

	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
)

// Explorer plots one country's inflation, unemployment and GDP per capita.
// The selected country is its only state. Selecting re-filters the already
// joined table; nothing is reloaded or re-joined.
type Explorer struct {
	mu       sync.Mutex
	selected string
}

// NewExplorer starts with country selected. Empty means the dataset's
// default country.
func NewExplorer(country string) *Explorer {
	return &Explorer{selected: strings.TrimSpace(country)}
}

func (e *Explorer) Name() string { return "explorer" }

// Selected returns the current country, resolving the default against d.
func (e *Explorer) Selected(d *dataset.Dataset) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolve(d)
}

// Build charts the currently selected country.
func (e *Explorer) Build(d *dataset.Dataset) (*engine.ChartConfig, error) {
	if err := checkDataset(d); err != nil {
		return nil, err
	}
	e.mu.Lock()
	country := e.resolve(d)
	e.mu.Unlock()
	return buildExplorer(d, country), nil
}

// Select makes country current and returns its chart. A country with no
// rows yields an empty chart, not an error.
func (e *Explorer) Select(d *dataset.Dataset, country string) (*engine.ChartConfig, error) {
	if err := checkDataset(d); err != nil {
		return nil, err
	}
	country = strings.TrimSpace(country)

	e.mu.Lock()
	e.selected = country
	e.mu.Unlock()
	return buildExplorer(d, country), nil
}

// Countries lists the selectable countries, sorted.
func (e *Explorer) Countries(d *dataset.Dataset) []string {
	if d == nil {
		return nil
	}
	return d.Countries()
}

func (e *Explorer) resolve(d *dataset.Dataset) string {
	if e.selected == "" && d != nil {
		e.selected = d.Settings().DefaultCountry
	}
	return e.selected
}

func buildExplorer(d *dataset.Dataset, country string) *engine.ChartConfig {
	rows := d.Select(country)
	title := country + ": Inflation, Unemployment and GDP per Capita"
	if country == "" {
		title = "No country selected"
	}
	return engine.BuildDualAxisChart(title, rows, d.Settings().Years)
}
