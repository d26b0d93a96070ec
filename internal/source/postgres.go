package source

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shfb-analytics/access-dashboard/internal/db"
	"github.com/shfb-analytics/access-dashboard/internal/model"
)

// scoreColumns is the column order used for bulk loads.
var scoreColumns = []string{
	"geoid", "urban_threshold", "rural_threshold", "week", "day", "hour",
	"access_score", "top_agencies",
}

// scoreKeyColumns is the composite key under which scores are unique.
var scoreKeyColumns = []string{
	"geoid", "urban_threshold", "rural_threshold", "week", "day", "hour",
}

// PostgresSource reads the score table from Postgres. Like the SQLite
// source it doubles as an import target.
type PostgresSource struct {
	pool  db.Pool
	table string
}

// NewPostgresSource creates a Postgres-backed score source.
func NewPostgresSource(pool db.Pool, table string) *PostgresSource {
	if table == "" {
		table = "access_scores"
	}
	return &PostgresSource{pool: pool, table: table}
}

// Migrate creates the score table with the composite-key unique constraint
// the pipeline's describe and ranking stages rely on.
func (s *PostgresSource) Migrate(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			geoid           TEXT NOT NULL,
			urban_threshold INT NOT NULL,
			rural_threshold INT NOT NULL,
			week            INT NOT NULL,
			day             TEXT NOT NULL,
			hour            INT NOT NULL,
			access_score    DOUBLE PRECISION NOT NULL,
			top_agencies    TEXT,
			UNIQUE (geoid, urban_threshold, rural_threshold, week, day, hour)
		)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return eris.Wrapf(err, "source: migrate %s", s.table)
	}
	return nil
}

// Load reads every score record from the table.
func (s *PostgresSource) Load(ctx context.Context) ([]model.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT geoid, urban_threshold, rural_threshold, week, day, hour,
		       access_score, COALESCE(top_agencies, '')
		FROM `+s.table)
	if err != nil {
		return nil, eris.Wrap(err, "source: query postgres scores")
	}
	defer rows.Close()

	var records []model.ScoreRecord
	for rows.Next() {
		var r model.ScoreRecord
		var agencies string
		if err := rows.Scan(&r.GEOID, &r.UrbanThreshold, &r.RuralThreshold,
			&r.Week, &r.Day, &r.Hour, &r.AccessScore, &agencies); err != nil {
			return nil, eris.Wrap(err, "source: scan postgres score row")
		}
		r.TopAgencies = model.AgenciesFromText(agencies)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: iterate postgres score rows")
	}

	zap.L().Info("source: postgres scores loaded", zap.Int("rows", len(records)))
	return records, nil
}

// UpsertBatch bulk-upserts records keyed on the full filter tuple, so
// re-running an import never duplicates a tract.
func (s *PostgresSource) UpsertBatch(ctx context.Context, records []model.ScoreRecord) (int64, error) {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.GEOID, r.UrbanThreshold, r.RuralThreshold, r.Week, r.Day, r.Hour,
			r.AccessScore, agencyText(r.TopAgencies),
		})
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        s.table,
		Columns:      scoreColumns,
		ConflictKeys: scoreKeyColumns,
	}, rows)
}

// Close releases the underlying pool.
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}
