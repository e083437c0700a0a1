package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spektr-org/macroscene/config"
	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
	"github.com/spektr-org/macroscene/logger"
	"github.com/spektr-org/macroscene/render"
	"github.com/spektr-org/macroscene/scenes"
)

// ============================================================================
// MACROSCENE CLI: Inflation, unemployment and GDP scenes from two CSVs
// ============================================================================

const version = "0.3.0"

// flags shared by every command.
type rootFlags struct {
	configPath string
	primary    string
	gdp        string
	outDir     string
	logLevel   string
	regions    []string
	incomes    []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fatalf("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:   "macroscene",
		Short: "Macroscene: inflation, interest, unemployment and GDP scenes",
		Long: `Macroscene loads a country-year indicator table and a World Bank GDP per
capita table, joins them on country and year, and renders four scenes:

  trend      global average inflation per year
  regional   average inflation per region and year
  income     average inflation and real interest rate per income group
  explorer   one country's inflation, unemployment and GDP per capita

The rank command draws an extra bar chart of any measure aggregated per
country, region, income level or year.

--region and --income keep only matching rows before any scene is built.

Configuration is read from --config (YAML), then MACROSCENE_* environment
variables, then flags.`,
		Example: `  macroscene render
  macroscene render trend regional --out charts
  macroscene explore --country Kenya
  macroscene explore --interactive
  macroscene export --format xlsx --file scenes.xlsx
  macroscene export --format text --income "High income"
  macroscene rank --measure unemployment --by region --agg max`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Path to YAML config file")
	pf.StringVar(&f.primary, "primary", "", "Path to the inflation / interest / unemployment CSV")
	pf.StringVar(&f.gdp, "gdp", "", "Path to the World Bank GDP per capita CSV")
	pf.StringVar(&f.outDir, "out", "", "Output directory for rendered charts")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringArrayVar(&f.regions, "region", nil, "Keep only rows in this region (repeatable)")
	pf.StringArrayVar(&f.incomes, "income", nil, "Keep only rows in this income group (repeatable)")

	root.AddCommand(
		newRenderCmd(f),
		newCountriesCmd(f),
		newExploreCmd(f),
		newExportCmd(f),
		newRankCmd(f),
		newDescribeCmd(f),
	)
	return root
}

// ============================================================================
// SHARED SETUP
// ============================================================================

// app is what every command needs after flags are parsed.
type app struct {
	cfg *config.Config
	log *logrus.Entry
}

// setup loads config, applies flag overrides and initialises logging.
func setup(cmd *cobra.Command, f *rootFlags) (*app, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.primary != "" {
		cfg.Data.Primary = f.primary
	}
	if f.gdp != "" {
		cfg.Data.Gdp = f.gdp
	}
	if f.outDir != "" {
		cfg.Output.Dir = f.outDir
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if len(f.regions) > 0 {
		cfg.Filter.Regions = f.regions
	}
	if len(f.incomes) > 0 {
		cfg.Filter.IncomeLevels = f.incomes
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: logger.Run(cmd.Name())}, nil
}

// load reads both files and applies the configured row filters.
func (a *app) load(ctx context.Context) (*dataset.Dataset, error) {
	d, err := dataset.Load(ctx, a.cfg.Data, a.cfg.Options()...)
	if err != nil {
		return nil, err
	}

	filters := a.cfg.Filters()
	if filters.IsEmpty() {
		return d, nil
	}
	fields := logrus.Fields{}
	for _, dim := range []string{engine.DimensionRegion, engine.DimensionIncomeLevel} {
		if filters.HasFilter(dim) {
			fields[dim] = strings.Join(filters.Dimensions[dim], "|")
		}
	}
	restricted := d.Restrict(filters)
	fields["rows"] = restricted.Observations().Len()
	fields["countries"] = len(restricted.Countries())
	a.log.WithFields(fields).Info("dataset filtered")
	return restricted, nil
}

func (a *app) renderer() (*render.Plot, error) {
	return render.New(a.cfg.Output.Format, a.cfg.Output.Width, a.cfg.Output.Height)
}

// draw renders one scene into the output directory and returns the file path.
func (a *app) draw(r render.Renderer, name string, cfg *engine.ChartConfig) (string, error) {
	if err := os.MkdirAll(a.cfg.Output.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(a.cfg.Output.Dir, name+"."+a.cfg.Output.Format)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	if err := r.Draw(out, cfg); err != nil {
		out.Close()
		return "", fmt.Errorf("scene %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// openOutput returns stdout when path is empty.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func registry(country string) *scenes.Registry {
	return scenes.Default(scenes.NewExplorer(country))
}

// ============================================================================
// HELPERS
// ============================================================================

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
