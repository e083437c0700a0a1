package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const primaryCSV = `country,year,adminregion,incomeLevel,"Inflation, consumer prices (annual %)","Unemployment, total (% of total labor force) (modeled ILO estimate)",Real interest rate (%)
Kenya,2008,Sub-Saharan Africa,Lower middle income,26,2.8,-5
Kenya,2009,Sub-Saharan Africa,Lower middle income,9,2.9,
France,2020,Europe & Central Asia,High income,0.5,8,
United States,2019,,High income,1.8,3.7,1
United States,2020,,High income,1.2,8.1,1.2
`

const gdpCSV = `"Country Name","Country Code","Indicator Name","Indicator Code","2008","2019","2020"
"Kenya","KEN","GDP per capita (current US$)","NY.GDP.PCAP.CD","1000","",""
"United States","USA","GDP per capita (current US$)","NY.GDP.PCAP.CD","48000","65000",""
`

// run executes the CLI against fixture files and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	primary := filepath.Join(dir, "primary.csv")
	gdp := filepath.Join(dir, "gdp.csv")
	require.NoError(t, os.WriteFile(primary, []byte(primaryCSV), 0o644))
	require.NoError(t, os.WriteFile(gdp, []byte(gdpCSV), 0o644))
	out := filepath.Join(dir, "out")

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--primary", primary, "--gdp", gdp, "--out", out, "--log-level", "error"))
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return stdout.String(), out
}

func TestRenderAllScenes(t *testing.T) {
	stdout, out := run(t, "", "render")

	for _, name := range []string{"trend", "regional", "income", "explorer"} {
		path := filepath.Join(out, name+".svg")
		assert.Contains(t, stdout, path)
		data, err := os.ReadFile(path)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "<svg", name)
	}
}

func TestRenderUnknownScene(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"render", "pie", "--log-level", "error"})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scene")
}

func TestCountries(t *testing.T) {
	stdout, _ := run(t, "", "countries")
	assert.Equal(t, "France\nKenya\nUnited States\n", stdout)
}

func TestExploreInteractive(t *testing.T) {
	stdout, out := run(t, "Kenya\n\nlist\nAtlantis\nquit\nChile\n", "explore", "--interactive")

	path := filepath.Join(out, "explorer.svg")
	assert.Equal(t, 3, strings.Count(stdout, path), "default, Kenya and Atlantis; nothing after quit")
	assert.Contains(t, stdout, "France\nKenya\nUnited States\n")
	assert.Contains(t, stdout, `no data for "Atlantis", chart is empty`)
	assert.NotContains(t, stdout, "Chile")
}

func TestExportCSV(t *testing.T) {
	stdout, _ := run(t, "", "export", "trend", "explorer", "--country", "Kenya")

	assert.Contains(t, stdout, "Year,Average Inflation Rate (%)\n2008,26\n2009,9\n2019,1.80\n2020,0.85\n")
	assert.Contains(t, stdout, "Year,Inflation,Unemployment,GDP per Capita\n2008,26,2.80,1000\n2009,9,2.90,\n")
}

func TestExportXLSXFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "book", "scenes.xlsx")
	run(t, "", "export", "--format", "xlsx", "--file", file)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestDescribe(t *testing.T) {
	stdout, _ := run(t, "", "describe")
	assert.Contains(t, stdout, `"yearsPresent"`)
	assert.Contains(t, stdout, `"joinedRows": 5`)
}

func TestExportText(t *testing.T) {
	stdout, _ := run(t, "", "export", "trend", "--format", "text")

	assert.True(t, strings.HasPrefix(stdout, "Global Average Inflation (2000-2022)\n"))
	assert.Contains(t, stdout, "Inflation decreased from 26 (2008) to 0.85 (2020), peak 26 in 2008")
}

func TestFilterFlags(t *testing.T) {
	stdout, _ := run(t, "", "export", "trend", "--income", "high income")
	assert.Equal(t, "Year,Average Inflation Rate (%)\n2019,1.80\n2020,0.85\n", stdout)

	stdout, _ = run(t, "", "countries", "--region", "Sub-Saharan Africa", "--region", "Europe & Central Asia")
	assert.Equal(t, "France\nKenya\n", stdout)
}

func TestRank(t *testing.T) {
	stdout, out := run(t, "", "rank", "--limit", "2")

	assert.Contains(t, stdout, " 1. Kenya\t17.50\n 2. United States\t1.50\n")
	assert.NotContains(t, stdout, "France")
	path := filepath.Join(out, "ranking.svg")
	assert.Contains(t, stdout, path)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRankCountByIncome(t *testing.T) {
	stdout, _ := run(t, "", "rank", "--measure", "interest_rate", "--by", "income_level", "--agg", "count", "--sort", "label_asc")
	assert.Contains(t, stdout, " 1. High income\t2\n 2. Lower middle income\t1\n")
}

func TestRankRejectsUnknownAggregation(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"rank", "--agg", "median", "--log-level", "error"})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ranking")
}
