package render

import (
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/shfb-analytics/access-dashboard/internal/pipeline"
)

// GeoJSONLayer converts a MapLayer into a GeoJSON FeatureCollection for
// interactive map clients. Each feature carries the tract attributes plus a
// precomputed normalized value and fill color under the chosen colormap.
func GeoJSONLayer(layer pipeline.MapLayer, cmap Colormap) *geojson.FeatureCollection {
	features := make([]*geojson.Feature, 0, len(layer.Features))
	for _, f := range layer.Features {
		norm := Normalize(f.Score, layer.ScaleMin, layer.ScaleMax)
		features = append(features, &geojson.Feature{
			ID:       f.GEOID,
			Geometry: f.Geometry,
			Properties: map[string]interface{}{
				"geoid":  f.GEOID,
				"county": f.County,
				"score":  f.Score,
				"value":  norm,
				"fill":   cmap.Color(norm),
			},
		})
	}
	return &geojson.FeatureCollection{Features: features}
}
