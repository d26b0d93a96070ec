package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/shfb-analytics/access-dashboard/internal/pipeline"
)

func testSquare(minX, minY float64) *geom.MultiPolygon {
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

func testLayer() pipeline.MapLayer {
	return pipeline.MapLayer{
		Features: []pipeline.TractFeature{
			{GEOID: "37001000100", Geometry: testSquare(0, 0), Score: 0.8, County: "Alamance"},
			{GEOID: "37063000100", Geometry: testSquare(2, 0), Score: 0.0, County: "Durham"},
		},
		ScaleMin: 0,
		ScaleMax: 0.8,
	}
}

func TestGeoJSONLayer(t *testing.T) {
	cmap, err := ByName("Greens")
	require.NoError(t, err)

	fc := GeoJSONLayer(testLayer(), cmap)
	require.Len(t, fc.Features, 2)

	f := fc.Features[0]
	assert.Equal(t, "37001000100", f.ID)
	assert.Equal(t, "Alamance", f.Properties["county"])
	assert.Equal(t, 0.8, f.Properties["score"])
	assert.Equal(t, 1.0, f.Properties["value"])
	assert.Equal(t, cmap.Color(1), f.Properties["fill"])

	zero := fc.Features[1]
	assert.Equal(t, 0.0, zero.Properties["value"])
	assert.Equal(t, cmap.Color(0), zero.Properties["fill"])
}

func TestGeoJSONLayerEmpty(t *testing.T) {
	cmap, err := ByName("Greens")
	require.NoError(t, err)

	fc := GeoJSONLayer(pipeline.MapLayer{ScaleMin: 0, ScaleMax: 1}, cmap)
	assert.Empty(t, fc.Features)
}
