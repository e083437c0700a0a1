package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spektr-org/macroscene/dataset"
	"github.com/spektr-org/macroscene/engine"
	"github.com/spektr-org/macroscene/export"
	"github.com/spektr-org/macroscene/render"
	"github.com/spektr-org/macroscene/scenes"
	"github.com/spektr-org/macroscene/schema"
)

// ============================================================================
// RENDER
// ============================================================================

func newRenderCmd(f *rootFlags) *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "render [scene...]",
		Short: "Render scenes to image files (all scenes by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, f)
			if err != nil {
				return err
			}
			selected, err := registry(country).Resolve(args)
			if err != nil {
				return err
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			for _, s := range selected {
				start := time.Now()
				chart, err := s.Build(d)
				if err != nil {
					return fmt.Errorf("scene %s: %w", s.Name(), err)
				}
				path, err := a.draw(r, s.Name(), chart)
				if err != nil {
					return err
				}
				a.log.WithFields(logrus.Fields{
					"scene":   s.Name(),
					"series":  len(chart.Series),
					"file":    path,
					"elapsed": time.Since(start).Round(time.Millisecond),
				}).Info("scene rendered")
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "Explorer country (default from config)")
	return cmd
}

// ============================================================================
// COUNTRIES
// ============================================================================

func newCountriesCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the countries the explorer can select",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, f)
			if err != nil {
				return err
			}
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range scenes.NewExplorer("").Countries(d) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

// ============================================================================
// EXPLORE
// ============================================================================

func newExploreCmd(f *rootFlags) *cobra.Command {
	var (
		country     string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Render the country explorer, optionally redrawing on each selection read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, f)
			if err != nil {
				return err
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			s := &session{app: a, d: d, r: r, explorer: scenes.NewExplorer(country), out: cmd.OutOrStdout()}
			if err := s.redraw(s.explorer.Selected(d)); err != nil {
				return err
			}
			if !interactive {
				return nil
			}
			return s.loop(cmd, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "Country to plot (default from config)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read country names from stdin and redraw for each")
	return cmd
}

// session is one interactive explorer. Selections are handled one at a time,
// so redraws never overlap.
type session struct {
	app      *app
	d        *dataset.Dataset
	r        render.Renderer
	explorer *scenes.Explorer
	out      io.Writer
}

func (s *session) loop(cmd *cobra.Command, in io.Reader) error {
	fmt.Fprintln(s.out, `Type a country name to redraw, "list" for countries, "quit" to exit.`)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "list":
			for _, c := range s.explorer.Countries(s.d) {
				fmt.Fprintln(s.out, c)
			}
			continue
		}
		if err := s.redraw(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (s *session) redraw(country string) error {
	chart, err := s.explorer.Select(s.d, country)
	if err != nil {
		return err
	}
	if !s.d.HasCountry(country) {
		s.app.log.WithField("country", country).Warn("no rows for country")
		fmt.Fprintf(s.out, "no data for %q, chart is empty\n", country)
	}

	path, err := s.app.draw(s.r, s.explorer.Name(), chart)
	if err != nil {
		return err
	}
	s.app.log.WithFields(logrus.Fields{"country": country, "file": path}).Info("explorer redrawn")
	fmt.Fprintln(s.out, path)
	return nil
}

// ============================================================================
// EXPORT
// ============================================================================

func newExportCmd(f *rootFlags) *cobra.Command {
	var (
		format  string
		file    string
		country string
		pretty  bool
	)

	cmd := &cobra.Command{
		Use:   "export [scene...]",
		Short: "Export scene data as csv, xlsx, json or text (all scenes by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, f)
			if err != nil {
				return err
			}
			selected, err := registry(country).Resolve(args)
			if err != nil {
				return err
			}
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			sheets := make([]export.Sheet, 0, len(selected))
			for _, s := range selected {
				chart, err := s.Build(d)
				if err != nil {
					return fmt.Errorf("scene %s: %w", s.Name(), err)
				}
				sheets = append(sheets, export.Sheet{Name: s.Name(), Chart: chart})
			}

			w, err := openOutput(cmd, file)
			if err != nil {
				return err
			}
			if err := export.Write(w, format, sheets, pretty); err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"format": format, "scenes": len(sheets), "file": file}).Info("export written")
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVar(&file, "file", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&country, "country", "", "Explorer country (default from config)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent json output")
	return cmd
}

// ============================================================================
// RANK
// ============================================================================

func newRankCmd(f *rootFlags) *cobra.Command {
	r := scenes.NewRanking()

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank countries, regions, income groups or years by an aggregated measure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.Validate(); err != nil {
				return err
			}
			a, err := setup(cmd, f)
			if err != nil {
				return err
			}
			rd, err := a.renderer()
			if err != nil {
				return err
			}
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			chart, err := r.Build(d)
			if err != nil {
				return fmt.Errorf("scene %s: %w", r.Name(), err)
			}
			path, err := a.draw(rd, r.Name(), chart)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, pt := range chart.Series[0].Data {
				fmt.Fprintf(out, "%2d. %s\t%s\n", i+1, pt.Label, engine.FormatNumber(pt.Value))
			}
			fmt.Fprintln(out, path)
			a.log.WithFields(logrus.Fields{
				"measure":     r.Measure,
				"by":          r.By,
				"aggregation": r.Aggregation,
				"groups":      len(chart.Categories),
				"file":        path,
			}).Info("ranking rendered")
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&r.Measure, "measure", r.Measure, "Measure: inflation, unemployment, interest_rate, gdp")
	fl.StringVar(&r.By, "by", r.By, "Group by: country, region, income_level, year")
	fl.StringVar(&r.Aggregation, "agg", r.Aggregation, "Aggregation: "+strings.Join(engine.Aggregations, ", "))
	fl.StringVar(&r.SortBy, "sort", r.SortBy, "Sort: "+strings.Join(engine.SortModes, ", "))
	fl.IntVar(&r.Limit, "limit", r.Limit, "Keep the first N groups after sorting (0 keeps all)")
	return cmd
}

// ============================================================================
// DESCRIBE
// ============================================================================

func newDescribeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the primary table's schema with samples and missing-value counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, f)
			if err != nil {
				return err
			}
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			primary, gdp := d.Reports()
			out := struct {
				Schema  schema.Config  `json:"schema"`
				Primary dataset.Report `json:"primaryReport"`
				Gdp     dataset.Report `json:"gdpReport"`
				Joined  int            `json:"joinedRows"`
				GdpKeys int            `json:"gdpKeys"`
			}{
				Schema:  schema.Describe(schema.Primary(), d.Observations()),
				Primary: primary,
				Gdp:     gdp,
				Joined:  d.Joined().Len(),
				GdpKeys: d.GdpPoints(),
			}
			return export.WriteJSON(cmd.OutOrStdout(), out, true)
		},
	}
}
