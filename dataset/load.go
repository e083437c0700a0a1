package dataset

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/macroscene/engine"
	"github.com/spektr-org/macroscene/logger"
	"github.com/spektr-org/macroscene/schema"
)

// Sources names the two input files.
type Sources struct {
	Primary string `yaml:"primary" envconfig:"PRIMARY" validate:"required"`
	Gdp     string `yaml:"gdp" envconfig:"GDP" validate:"required"`
}

// Load reads both sources concurrently and joins them once both are in.
// Any failure cancels the other load and is returned as a single error;
// no partial dataset is ever produced. There are no retries.
func Load(ctx context.Context, src Sources, opts ...engine.Option) (*Dataset, error) {
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	var (
		observations []engine.Observation
		gdp          []engine.GdpRecord
		primaryRep   Report
		gdpRep       Report
	)

	g.Go(func() error {
		f, err := open(ctx, src.Primary)
		if err != nil {
			return err
		}
		defer f.Close()

		observations, primaryRep, err = ParsePrimary(f, schema.Primary())
		if err != nil {
			return fmt.Errorf("load %s: %w", src.Primary, err)
		}
		return nil
	})

	g.Go(func() error {
		f, err := open(ctx, src.Gdp)
		if err != nil {
			return err
		}
		defer f.Close()

		gdp, gdpRep, err = ParseGdp(f, schema.Gdp())
		if err != nil {
			return fmt.Errorf("load %s: %w", src.Gdp, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := New(observations, gdp, opts...)
	d.primaryReport, d.gdpReport = primaryRep, gdpRep

	log := logger.Log.WithFields(logrus.Fields{
		"observations": len(observations),
		"gdp_rows":     len(gdp),
		"joined":       len(d.joined),
		"elapsed":      time.Since(start).Round(time.Millisecond),
	})
	log.Info("dataset loaded")
	if primaryRep.Rejected > 0 || gdpRep.Rejected > 0 {
		log.WithFields(logrus.Fields{
			"primary_rejected": primaryRep.Rejected,
			"gdp_rejected":     gdpRep.Rejected,
		}).Warn("rows rejected at parse")
	}
	if n := d.Collisions(); n > 0 {
		log.WithField("collisions", n).Warnf("duplicate GDP countries resolved with policy %q", d.settings.DuplicatePolicy)
	}
	return d, nil
}

func open(ctx context.Context, path string) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
