package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shfb-analytics/access-dashboard/internal/config"
)

func TestOpenScoresUnknownDriver(t *testing.T) {
	_, err := OpenScores(context.Background(), config.ScoresConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scores driver "mysql"`)
}

func TestOpenScoresParquet(t *testing.T) {
	src, err := OpenScores(context.Background(), config.ScoresConfig{
		Driver: "parquet",
		Path:   "precomputed_access_scores.parquet",
	})
	require.NoError(t, err)
	defer src.Close()

	assert.IsType(t, &ParquetSource{}, src)
}

func TestOpenScoresSQLite(t *testing.T) {
	src, err := OpenScores(context.Background(), config.ScoresConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "scores.db"),
	})
	require.NoError(t, err)
	defer src.Close()

	assert.IsType(t, &SQLiteSource{}, src)
}
