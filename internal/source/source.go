// Package source loads the external data the dashboard serves: the
// precomputed score table (parquet, SQLite, or Postgres) and the static
// tract reference data (county mapping and geometries). Everything here is
// loaded once at startup and treated as immutable afterwards.
package source

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/shfb-analytics/access-dashboard/internal/config"
	"github.com/shfb-analytics/access-dashboard/internal/db"
	"github.com/shfb-analytics/access-dashboard/internal/model"
)

// ScoreSource reads the full precomputed score table.
type ScoreSource interface {
	Load(ctx context.Context) ([]model.ScoreRecord, error)
	Close() error
}

// OpenScores opens the score source named by the config driver.
func OpenScores(ctx context.Context, cfg config.ScoresConfig) (ScoreSource, error) {
	switch cfg.Driver {
	case "parquet":
		return NewParquetSource(cfg.Path), nil
	case "sqlite":
		return NewSQLiteSource(cfg.Path, cfg.Table)
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewPostgresSource(pool, cfg.Table), nil
	default:
		return nil, eris.Errorf("source: unknown scores driver %q", cfg.Driver)
	}
}
