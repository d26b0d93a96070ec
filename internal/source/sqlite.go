package source

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/shfb-analytics/access-dashboard/internal/model"
)

// SQLiteSource reads the score table from a SQLite database. It doubles as
// the target of the import command, so it also knows how to create the
// schema and bulk-insert records.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// NewSQLiteSource opens a SQLite database at the given path in WAL mode.
func NewSQLiteSource(dsn, table string) (*SQLiteSource, error) {
	if table == "" {
		table = "access_scores"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "source: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "source: sqlite exec %s", pragma)
		}
	}
	return &SQLiteSource{db: db, table: table}, nil
}

// Migrate creates the score table and its indexes.
func (s *SQLiteSource) Migrate(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS ` + s.table + ` (
	geoid           TEXT NOT NULL,
	urban_threshold INTEGER NOT NULL,
	rural_threshold INTEGER NOT NULL,
	week            INTEGER NOT NULL,
	day             TEXT NOT NULL,
	hour            INTEGER NOT NULL,
	access_score    REAL NOT NULL,
	top_agencies    TEXT
);

CREATE INDEX IF NOT EXISTS idx_` + s.table + `_filter
	ON ` + s.table + `(urban_threshold, rural_threshold, week, day, hour);
CREATE INDEX IF NOT EXISTS idx_` + s.table + `_geoid ON ` + s.table + `(geoid);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return eris.Wrapf(err, "source: sqlite migrate %s", s.table)
}

// Load reads every score record from the table.
func (s *SQLiteSource) Load(ctx context.Context) ([]model.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT geoid, urban_threshold, rural_threshold, week, day, hour,
		       access_score, COALESCE(top_agencies, '')
		FROM `+s.table)
	if err != nil {
		return nil, eris.Wrap(err, "source: query sqlite scores")
	}
	defer rows.Close()

	var records []model.ScoreRecord
	for rows.Next() {
		var r model.ScoreRecord
		var agencies string
		if err := rows.Scan(&r.GEOID, &r.UrbanThreshold, &r.RuralThreshold,
			&r.Week, &r.Day, &r.Hour, &r.AccessScore, &agencies); err != nil {
			return nil, eris.Wrap(err, "source: scan sqlite score row")
		}
		r.TopAgencies = model.AgenciesFromText(agencies)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: iterate sqlite score rows")
	}

	zap.L().Info("source: sqlite scores loaded", zap.Int("rows", len(records)))
	return records, nil
}

// InsertBatch bulk-inserts records inside one transaction. Used by the
// import command; the serving path never writes.
func (s *SQLiteSource) InsertBatch(ctx context.Context, records []model.ScoreRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "source: sqlite begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO `+s.table+`
			(geoid, urban_threshold, rural_threshold, week, day, hour, access_score, top_agencies)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "source: sqlite prepare insert")
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.GEOID, r.UrbanThreshold, r.RuralThreshold, r.Week, r.Day, r.Hour,
			r.AccessScore, agencyText(r.TopAgencies),
		); err != nil {
			return eris.Wrapf(err, "source: sqlite insert score for %s", r.GEOID)
		}
	}

	return eris.Wrap(tx.Commit(), "source: sqlite commit")
}

// Close closes the underlying database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// agencyText serializes a payload back to its stored text form.
func agencyText(p model.AgencyPayload) string {
	data, err := p.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}
