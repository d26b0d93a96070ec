package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shfb-analytics/access-dashboard/internal/model"
)

func score(geoid string, hour int, value float64) model.ScoreRecord {
	return model.ScoreRecord{
		GEOID:          geoid,
		UrbanThreshold: 15,
		RuralThreshold: 30,
		Week:           1,
		Day:            "Mon",
		Hour:           hour,
		AccessScore:    value,
	}
}

func baseParams() model.FilterParams {
	return model.FilterParams{Urban: 15, Rural: 30, Week: 1, Day: "Mon", Hour: 10}
}

func TestFilterExactHour(t *testing.T) {
	table := []model.ScoreRecord{
		score("37001000100", 10, 0.75),
		score("37001000200", 10, 0.50),
		score("37001000100", 11, 0.60),
	}

	view := Filter(table, baseParams())
	require.Len(t, view.Records, 2)
	assert.False(t, view.Empty())
	for _, r := range view.Records {
		assert.Equal(t, 10, r.Hour)
	}
}

func TestFilterAfterHours(t *testing.T) {
	table := []model.ScoreRecord{
		score("a", 16, 0.1),
		score("b", 17, 0.2),
		score("c", 20, 0.3),
		score("d", 23, 0.4),
	}

	params := baseParams()
	params.AfterHours = true

	view := Filter(table, params)
	require.Len(t, view.Records, 3)
	for _, r := range view.Records {
		assert.GreaterOrEqual(t, r.Hour, model.AfterHoursStart)
	}
}

func TestFilterNoMatches(t *testing.T) {
	table := []model.ScoreRecord{score("a", 10, 0.1)}

	params := baseParams()
	params.Week = 99

	view := Filter(table, params)
	assert.True(t, view.Empty())
	assert.Empty(t, view.Records)
}

func TestFilterDoesNotMutateTable(t *testing.T) {
	table := []model.ScoreRecord{score("a", 10, 0.1), score("b", 12, 0.2)}

	view := Filter(table, baseParams())
	require.Len(t, view.Records, 1)
	view.Records[0].AccessScore = 99.0

	assert.Equal(t, 0.1, table[0].AccessScore)
}
