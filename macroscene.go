// Package macroscene turns two macroeconomic CSV tables into chart scenes.
//
// Usage:
//
//	import "github.com/spektr-org/macroscene/dataset"
//
//	d, err := dataset.Load(ctx, dataset.Sources{Primary: obs, Gdp: gdp},
//	    engine.WithYears(2000, 2022),
//	)
//	cfg, err := scenes.Trend{}.Build(d)
//	err = render.NewSVG().Draw(w, cfg)
//
// The dataset package loads the indicator and GDP tables and joins them on
// country and year. Scenes filter and aggregate the joined table into
// render-ready chart configs; the render and export packages draw or
// serialise them. Nothing calls an external service.
package macroscene
