package source

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"go.uber.org/zap"

	"github.com/shfb-analytics/access-dashboard/internal/model"
)

const parquetBatchSize = 4096

// parquetScore mirrors one row of the precomputed parquet file.
type parquetScore struct {
	GEOID          string  `parquet:"name=GEOID, type=BYTE_ARRAY, convertedtype=UTF8"`
	UrbanThreshold int32   `parquet:"name=urban_threshold, type=INT32"`
	RuralThreshold int32   `parquet:"name=rural_threshold, type=INT32"`
	Week           int32   `parquet:"name=week, type=INT32"`
	Day            string  `parquet:"name=day, type=BYTE_ARRAY, convertedtype=UTF8"`
	Hour           int32   `parquet:"name=hour, type=INT32"`
	AccessScore    float64 `parquet:"name=Access_Score, type=DOUBLE"`
	TopAgencies    string  `parquet:"name=Top_Agencies, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ParquetSource reads the score table from a local parquet file.
type ParquetSource struct {
	path string
}

// NewParquetSource creates a parquet-backed score source.
func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{path: path}
}

// Load reads every row of the parquet file into score records. Agency
// payloads arrive as serialized text and stay raw until first decode.
func (s *ParquetSource) Load(ctx context.Context) ([]model.ScoreRecord, error) {
	fr, err := local.NewLocalFileReader(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open parquet %s", s.path)
	}
	defer func() { _ = fr.Close() }()

	pr, err := reader.NewParquetReader(fr, new(parquetScore), 4)
	if err != nil {
		return nil, eris.Wrapf(err, "source: read parquet %s", s.path)
	}
	defer pr.ReadStop()

	total := int(pr.GetNumRows())
	records := make([]model.ScoreRecord, 0, total)

	for len(records) < total {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "source: parquet load cancelled")
		}

		n := parquetBatchSize
		if remaining := total - len(records); remaining < n {
			n = remaining
		}
		batch := make([]parquetScore, n)
		if err := pr.Read(&batch); err != nil {
			return nil, eris.Wrap(err, "source: read parquet batch")
		}

		for _, row := range batch {
			records = append(records, model.ScoreRecord{
				GEOID:          row.GEOID,
				UrbanThreshold: int(row.UrbanThreshold),
				RuralThreshold: int(row.RuralThreshold),
				Week:           int(row.Week),
				Day:            row.Day,
				Hour:           int(row.Hour),
				AccessScore:    row.AccessScore,
				TopAgencies:    model.AgenciesFromText(row.TopAgencies),
			})
		}
	}

	zap.L().Info("source: parquet scores loaded",
		zap.String("path", s.path),
		zap.Int("rows", len(records)),
	)
	return records, nil
}

// Close is a no-op; the file handle lives only inside Load.
func (s *ParquetSource) Close() error { return nil }
