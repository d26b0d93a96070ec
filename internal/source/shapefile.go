package source

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadTractGeometries reads a cartographic boundary shapefile and returns
// every tract's geometry keyed by GEOID. Records with a missing GEOID or an
// undecodable shape are skipped, not fatal.
func LoadTractGeometries(shpPath string) (map[string]*geom.MultiPolygon, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	geoidIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, "GEOID") {
			geoidIdx = i
			break
		}
	}
	if geoidIdx < 0 {
		return nil, eris.Errorf("source: shapefile %s has no GEOID field", shpPath)
	}

	geoms := make(map[string]*geom.MultiPolygon)
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		geoid := strings.TrimSpace(strings.TrimRight(reader.Attribute(geoidIdx), "\x00"))
		if geoid == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}
		geoms[geoid] = mp
	}

	if skipped > 0 {
		zap.L().Debug("source: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	zap.L().Info("source: tract geometries loaded",
		zap.String("path", shpPath),
		zap.Int("tracts", len(geoms)),
	)
	return geoms, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("source: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}

		if err := mp.Push(poly); err != nil {
			zap.L().Debug("source: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
