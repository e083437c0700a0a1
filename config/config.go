package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
)

// EnvPrefix prefixes every environment override, e.g. MACROSCENE_DATA_PRIMARY.
const EnvPrefix = "MACROSCENE"

// Config represents the complete application configuration.
type Config struct {
	Data            dataset.Sources `yaml:"data" envconfig:"DATA"`
	Years           Range           `yaml:"years" envconfig:"YEARS"`
	RecentYears     Range           `yaml:"recent_years" envconfig:"RECENT_YEARS"`
	DuplicatePolicy string          `yaml:"duplicate_policy" envconfig:"DUPLICATE_POLICY" validate:"oneof=first last"`
	DefaultCountry  string          `yaml:"default_country" envconfig:"DEFAULT_COUNTRY" validate:"required"`
	IncomeGroups    []string        `yaml:"income_groups" envconfig:"INCOME_GROUPS" validate:"min=1,dive,required"`
	Filter          FilterConfig    `yaml:"filter" envconfig:"FILTER"`
	Output          OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Logging         LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// Range is an inclusive year range.
type Range struct {
	From int `yaml:"from" envconfig:"FROM" validate:"min=1900,max=2100"`
	To   int `yaml:"to" envconfig:"TO" validate:"gtefield=From,max=2100"`
}

// FilterConfig narrows the primary table before any scene is built.
// Matching is case-insensitive; empty lists keep every row.
type FilterConfig struct {
	Regions      []string `yaml:"regions" envconfig:"REGIONS" validate:"dive,required"`
	IncomeLevels []string `yaml:"income_levels" envconfig:"INCOME_LEVELS" validate:"dive,required"`
}

// OutputConfig controls where and how charts are written.
type OutputConfig struct {
	Dir    string  `yaml:"dir" envconfig:"DIR" validate:"required"`
	Format string  `yaml:"format" envconfig:"FORMAT" validate:"oneof=svg png pdf"`
	Width  float64 `yaml:"width" envconfig:"WIDTH" validate:"gt=0"`
	Height float64 `yaml:"height" envconfig:"HEIGHT" validate:"gt=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LEVEL" validate:"oneof=trace debug info warn warning error"`
	File  string `yaml:"file" envconfig:"FILE"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	s := engine.Apply()
	return Config{
		Data: dataset.Sources{
			Primary: "data/inflation interest unemployment.csv",
			Gdp:     "data/API_NY.GDP.PCAP.CD_DS2_en_csv_v2_122367.csv",
		},
		Years:           Range{From: s.Years.From, To: s.Years.To},
		RecentYears:     Range{From: s.RecentYears.From, To: s.RecentYears.To},
		DuplicatePolicy: string(s.DuplicatePolicy),
		DefaultCountry:  s.DefaultCountry,
		IncomeGroups:    append([]string(nil), s.IncomeGroups...),
		Output: OutputConfig{
			Dir:    "out",
			Format: "svg",
			Width:  800,
			Height: 400,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then MACROSCENE_* environment variables. The result is
// validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks every field constraint and reports all failures at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
}

// Filters converts the filter section into engine filters.
func (c *Config) Filters() engine.Filters {
	f := engine.Filters{Dimensions: make(map[string][]string, 2)}
	if len(c.Filter.Regions) > 0 {
		f.Dimensions[engine.DimensionRegion] = append([]string(nil), c.Filter.Regions...)
	}
	if len(c.Filter.IncomeLevels) > 0 {
		f.Dimensions[engine.DimensionIncomeLevel] = append([]string(nil), c.Filter.IncomeLevels...)
	}
	return f
}

// Options converts the configuration into engine options.
func (c *Config) Options() []engine.Option {
	return []engine.Option{
		engine.WithYears(c.Years.From, c.Years.To),
		engine.WithRecentYears(c.RecentYears.From, c.RecentYears.To),
		engine.WithDuplicatePolicy(engine.DuplicatePolicy(c.DuplicatePolicy)),
		engine.WithDefaultCountry(c.DefaultCountry),
		engine.WithIncomeGroups(c.IncomeGroups...),
	}
}
