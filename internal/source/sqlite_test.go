package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shfb-analytics/access-dashboard/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteSource {
	t.Helper()
	src, err := NewSQLiteSource(filepath.Join(t.TempDir(), "scores.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	require.NoError(t, src.Migrate(context.Background()))
	return src
}

func TestSQLiteRoundTrip(t *testing.T) {
	src := newTestSQLite(t)
	ctx := context.Background()

	records := []model.ScoreRecord{
		{
			GEOID: "37001000100", UrbanThreshold: 15, RuralThreshold: 30,
			Week: 1, Day: "Mon", Hour: 10, AccessScore: 0.75,
			TopAgencies: model.AgenciesFromText(`[{"Name":"FoodBank A","Agency_Contribution":0.75}]`),
		},
		{
			GEOID: "37063000100", UrbanThreshold: 15, RuralThreshold: 30,
			Week: 1, Day: "Mon", Hour: 17, AccessScore: 0.40,
		},
	}
	require.NoError(t, src.InsertBatch(ctx, records))

	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "37001000100", loaded[0].GEOID)
	assert.Equal(t, 15, loaded[0].UrbanThreshold)
	assert.Equal(t, 30, loaded[0].RuralThreshold)
	assert.Equal(t, 1, loaded[0].Week)
	assert.Equal(t, "Mon", loaded[0].Day)
	assert.Equal(t, 10, loaded[0].Hour)
	assert.Equal(t, 0.75, loaded[0].AccessScore)

	agencies := loaded[0].TopAgencies.Decode()
	require.Len(t, agencies, 1)
	assert.Equal(t, "FoodBank A", agencies[0].Name)
	assert.Equal(t, 0.75, agencies[0].Contribution)

	assert.Empty(t, loaded[1].TopAgencies.Decode())
}

func TestSQLiteCustomTableName(t *testing.T) {
	src, err := NewSQLiteSource(filepath.Join(t.TempDir(), "scores.db"), "scores_v2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	ctx := context.Background()
	require.NoError(t, src.Migrate(ctx))

	records := []model.ScoreRecord{{
		GEOID: "37001000100", UrbanThreshold: 15, RuralThreshold: 30,
		Week: 1, Day: "Mon", Hour: 10, AccessScore: 0.75,
	}}
	require.NoError(t, src.InsertBatch(ctx, records))

	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "37001000100", loaded[0].GEOID)
}

func TestSQLiteInsertBatchEmpty(t *testing.T) {
	src := newTestSQLite(t)
	assert.NoError(t, src.InsertBatch(context.Background(), nil))

	loaded, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSQLiteLoadEmptyTable(t *testing.T) {
	src := newTestSQLite(t)

	loaded, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
