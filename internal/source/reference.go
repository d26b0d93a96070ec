package source

import (
	"context"
	"time"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shfb-analytics/access-dashboard/internal/config"
	"github.com/shfb-analytics/access-dashboard/internal/model"
)

// ReferenceStore holds the static tract reference data: county names and
// geometries keyed by GEOID. Loaded once at startup and never mutated; it is
// injected into the pipeline rather than read through module-global state.
type ReferenceStore struct {
	Counties   map[string]string
	Geometries map[string]*geom.MultiPolygon
}

// Catalog bundles everything a pipeline needs: the score table plus the
// reference store. Immutable after LoadCatalog returns.
type Catalog struct {
	Scores []model.ScoreRecord
	Ref    *ReferenceStore
}

// LoadCatalog loads the score table, the county map, and the tract
// geometries in parallel. Any failure aborts the whole load.
func LoadCatalog(ctx context.Context, cfg *config.Config) (*Catalog, error) {
	start := time.Now()

	cat := &Catalog{Ref: &ReferenceStore{}}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		src, err := OpenScores(gCtx, cfg.Scores)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		scores, err := src.Load(gCtx)
		if err != nil {
			return err
		}
		cat.Scores = scores
		return nil
	})

	g.Go(func() error {
		counties, err := LoadCountyMap(cfg.Reference.CountyMapPath)
		if err != nil {
			return err
		}
		cat.Ref.Counties = counties
		return nil
	})

	g.Go(func() error {
		geoms, err := LoadTractGeometries(cfg.Reference.ShapefilePath)
		if err != nil {
			return err
		}
		cat.Ref.Geometries = geoms
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("source: catalog loaded",
		zap.Int("scores", len(cat.Scores)),
		zap.Int("counties", len(cat.Ref.Counties)),
		zap.Int("geometries", len(cat.Ref.Geometries)),
		zap.Duration("duration", time.Since(start)),
	)
	return cat, nil
}
