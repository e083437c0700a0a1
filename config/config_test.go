package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/macroscene/engine"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "macroscene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Range{From: 2000, To: 2022}, cfg.Years)
	assert.Equal(t, Range{From: 2018, To: 2022}, cfg.RecentYears)
	assert.Equal(t, "last", cfg.DuplicatePolicy)
	assert.Equal(t, "United States", cfg.DefaultCountry)
	assert.Equal(t, "svg", cfg.Output.Format)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, `
data:
  primary: obs.csv
  gdp: gdp.csv
years:
  from: 2005
  to: 2015
default_country: Kenya
output:
  format: png
`)
	t.Setenv("MACROSCENE_DEFAULT_COUNTRY", "Chile")
	t.Setenv("MACROSCENE_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "obs.csv", cfg.Data.Primary)
	assert.Equal(t, Range{From: 2005, To: 2015}, cfg.Years)
	assert.Equal(t, "Chile", cfg.DefaultCountry, "env wins over file")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, 800.0, cfg.Output.Width, "untouched fields keep defaults")
}

func TestLoadValidation(t *testing.T) {
	path := writeFile(t, `
years:
  from: 2022
  to: 2000
duplicate_policy: random
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Years.To")
	assert.Contains(t, err.Error(), "Config.DuplicatePolicy")
}

func TestLoadBadInputs(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "years: [1, 2"))
	assert.Error(t, err)

	t.Setenv("MACROSCENE_OUTPUT_WIDTH", "wide")
	_, err = Load("")
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.DuplicatePolicy = "first"
	cfg.IncomeGroups = []string{"High income"}

	s := engine.Apply(cfg.Options()...)
	assert.Equal(t, engine.FirstWins, s.DuplicatePolicy)
	assert.Equal(t, []string{"High income"}, s.IncomeGroups)
	assert.Equal(t, engine.YearRange{From: 2000, To: 2022}, s.Years)
}

func TestFilters(t *testing.T) {
	path := writeFile(t, `
filter:
  regions: [Sub-Saharan Africa]
`)
	t.Setenv("MACROSCENE_FILTER_INCOME_LEVELS", "Low income,Lower middle income")

	cfg, err := Load(path)
	require.NoError(t, err)

	f := cfg.Filters()
	assert.True(t, f.HasFilter(engine.DimensionRegion))
	assert.Equal(t, []string{"Sub-Saharan Africa"}, f.Dimensions[engine.DimensionRegion])
	assert.Equal(t, []string{"Low income", "Lower middle income"}, f.Dimensions[engine.DimensionIncomeLevel])

	def := Default()
	assert.True(t, def.Filters().IsEmpty())
}
