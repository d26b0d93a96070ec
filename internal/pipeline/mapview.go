package pipeline

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
)

// TractFeature is one drawable tract: geometry plus the attributes the
// rendering layer needs. Rendering technology is a separate consumer.
type TractFeature struct {
	GEOID    string
	Geometry *geom.MultiPolygon
	Score    float64
	County   string
}

// MapLayer is the renderer-agnostic choropleth contract: features plus the
// resolved color-scale bounds. ScaleMin is always 0 and ScaleMax is always
// strictly greater, so normalization is well-formed for any renderer.
type MapLayer struct {
	Features []TractFeature
	ScaleMin float64
	ScaleMax float64
}

// ProjectMap restricts the tract geometries to the GEOIDs present in the
// enriched view and joins score and county onto them, with geometry as the
// driving side: a tract whose geometry is selected but has no enriched row
// still renders, with score 0.0 and county "Unknown".
func ProjectMap(rows []EnrichedRow, geoms map[string]*geom.MultiPolygon) MapLayer {
	byGEOID := make(map[string]EnrichedRow, len(rows))
	for _, r := range rows {
		byGEOID[r.GEOID] = r
	}

	selected := make([]string, 0, len(byGEOID))
	for geoid := range byGEOID {
		if _, ok := geoms[geoid]; ok {
			selected = append(selected, geoid)
		}
	}
	sort.Strings(selected)

	features := make([]TractFeature, 0, len(selected))
	for _, geoid := range selected {
		f := TractFeature{
			GEOID:    geoid,
			Geometry: geoms[geoid],
			Score:    0.0,
			County:   UnknownCounty,
		}
		if r, ok := byGEOID[geoid]; ok {
			f.Score = r.AccessScore
			f.County = r.County
		}
		features = append(features, f)
	}

	return MapLayer{
		Features: features,
		ScaleMin: 0,
		ScaleMax: scaleMax(features, 0),
	}
}

// scaleMax returns the color-scale upper bound: the maximum observed score,
// or min+1.0 when the maximum is non-finite or not strictly above the lower
// bound, so a zero-width or inverted range never reaches a renderer.
func scaleMax(features []TractFeature, min float64) float64 {
	max := math.Inf(-1)
	for _, f := range features {
		if f.Score > max {
			max = f.Score
		}
	}
	if !isFinite(max) || max <= min {
		return min + 1.0
	}
	return max
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
