package engine

// ============================================================================
// ENGINE OPTIONS: Functional options for scene pipelines
// ============================================================================

// Option configures pipeline behaviour via functional options pattern.
type Option func(*Settings)

// Settings are the resolved options. Scenes read them; callers build them
// through Apply.
type Settings struct {
	Years           YearRange
	RecentYears     YearRange
	DuplicatePolicy DuplicatePolicy
	DefaultCountry  string
	IncomeGroups    []string
}

// DefaultIncomeGroups is the fixed bar order of the income scene.
var DefaultIncomeGroups = []string{
	"Low income",
	"Lower middle income",
	"Upper middle income",
	"High income",
}

// WithYears sets the year range used by the trend, regional and explorer scenes.
func WithYears(from, to int) Option {
	return func(s *Settings) {
		s.Years = YearRange{From: from, To: to}
	}
}

// WithRecentYears sets the year range averaged by the income scene.
func WithRecentYears(from, to int) Option {
	return func(s *Settings) {
		s.RecentYears = YearRange{From: from, To: to}
	}
}

// WithDuplicatePolicy chooses how duplicate GDP countries are resolved.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(s *Settings) {
		s.DuplicatePolicy = p
	}
}

// WithDefaultCountry sets the explorer's initial selection.
func WithDefaultCountry(country string) Option {
	return func(s *Settings) {
		s.DefaultCountry = country
	}
}

// WithIncomeGroups overrides the income scene's categories and their order.
func WithIncomeGroups(groups ...string) Option {
	return func(s *Settings) {
		s.IncomeGroups = groups
	}
}

// Apply creates Settings from functional options.
func Apply(opts ...Option) Settings {
	s := Settings{
		Years:           YearRange{From: 2000, To: 2022},
		RecentYears:     YearRange{From: 2018, To: 2022},
		DuplicatePolicy: LastWins,
		DefaultCountry:  "United States",
		IncomeGroups:    DefaultIncomeGroups,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
