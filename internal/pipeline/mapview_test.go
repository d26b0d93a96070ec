package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func square(minX, minY float64) *geom.MultiPolygon {
	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	ring := geom.NewLinearRingFlat(geom.XY, []float64{
		minX, minY,
		minX + 1, minY,
		minX + 1, minY + 1,
		minX, minY + 1,
		minX, minY,
	})
	poly := geom.NewPolygon(geom.XY)
	_ = poly.Push(ring)
	_ = mp.Push(poly)
	return mp
}

func enriched(geoid string, value float64, county string) EnrichedRow {
	return EnrichedRow{
		ScoreRecord: score(geoid, 10, value),
		County:      county,
	}
}

func TestProjectMapJoinsGeometry(t *testing.T) {
	rows := []EnrichedRow{
		enriched("a", 0.75, "Alamance"),
		enriched("b", 0.25, "Durham"),
		enriched("c", 0.10, "Wake"), // no geometry available
	}
	geoms := map[string]*geom.MultiPolygon{
		"a": square(0, 0),
		"b": square(2, 0),
		"z": square(4, 0), // not in filter result, excluded
	}

	layer := ProjectMap(rows, geoms)
	require.Len(t, layer.Features, 2)

	assert.Equal(t, "a", layer.Features[0].GEOID)
	assert.Equal(t, 0.75, layer.Features[0].Score)
	assert.Equal(t, "Alamance", layer.Features[0].County)
	assert.Equal(t, "b", layer.Features[1].GEOID)

	assert.Equal(t, 0.0, layer.ScaleMin)
	assert.Equal(t, 0.75, layer.ScaleMax)
}

func TestProjectMapEachGEOIDOnce(t *testing.T) {
	rows := []EnrichedRow{
		enriched("a", 0.5, "Alamance"),
		enriched("b", 0.3, "Durham"),
	}
	geoms := map[string]*geom.MultiPolygon{
		"a": square(0, 0),
		"b": square(2, 0),
	}

	layer := ProjectMap(rows, geoms)
	seen := map[string]int{}
	for _, f := range layer.Features {
		seen[f.GEOID]++
	}
	for geoid, count := range seen {
		assert.Equal(t, 1, count, "GEOID %s appears %d times", geoid, count)
	}
	assert.Len(t, seen, 2)
}

func TestProjectMapDegenerateScale(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		max    float64
	}{
		{"all zero", []float64{0, 0, 0}, 1.0},
		{"negative only", []float64{-1, -2}, 1.0},
		{"NaN only", []float64{math.NaN()}, 1.0},
		{"positive max wins", []float64{0, 0.4, 0.2}, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []EnrichedRow
			geoms := map[string]*geom.MultiPolygon{}
			for i, s := range tt.scores {
				geoid := string(rune('a' + i))
				rows = append(rows, enriched(geoid, s, "X"))
				geoms[geoid] = square(float64(i*2), 0)
			}

			layer := ProjectMap(rows, geoms)
			assert.Equal(t, 0.0, layer.ScaleMin)
			assert.Equal(t, tt.max, layer.ScaleMax)
			assert.Greater(t, layer.ScaleMax, layer.ScaleMin)
		})
	}
}

func TestProjectMapEmptyInput(t *testing.T) {
	layer := ProjectMap(nil, map[string]*geom.MultiPolygon{"a": square(0, 0)})
	assert.Empty(t, layer.Features)
	assert.Equal(t, 0.0, layer.ScaleMin)
	assert.Equal(t, 1.0, layer.ScaleMax)
}
