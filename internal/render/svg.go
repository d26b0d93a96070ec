package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/shfb-analytics/access-dashboard/internal/pipeline"
)

// SVGOptions configures the static choropleth renderer.
type SVGOptions struct {
	Width  int    // default 800
	Height int    // default 800
	Title  string // optional caption
}

// SVGLayer renders a MapLayer as a static SVG choropleth, the non-interactive
// counterpart of the GeoJSON adapter. Coordinates are projected with a plain
// equirectangular fit to the layer's bounding box, which is adequate at
// county scale.
func SVGLayer(layer pipeline.MapLayer, cmap Colormap, opts SVGOptions) []byte {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range layer.Features {
		b := f.Geometry.Bounds()
		minX = math.Min(minX, b.Min(0))
		minY = math.Min(minY, b.Min(1))
		maxX = math.Max(maxX, b.Max(0))
		maxY = math.Max(maxY, b.Max(1))
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	w, h := float64(opts.Width), float64(opts.Height)
	project := func(c geom.Coord) (float64, float64) {
		return (c[0] - minX) / spanX * w, h - (c[1]-minY)/spanY*h
	}

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		opts.Width, opts.Height, opts.Width, opts.Height)
	sb.WriteString("\n")
	if opts.Title != "" {
		fmt.Fprintf(&sb, `<title>%s</title>`+"\n", escapeXML(opts.Title))
	}

	for _, f := range layer.Features {
		norm := Normalize(f.Score, layer.ScaleMin, layer.ScaleMax)
		fill := cmap.Color(norm)

		var path strings.Builder
		mp := f.Geometry
		for i := 0; i < mp.NumPolygons(); i++ {
			poly := mp.Polygon(i)
			for j := 0; j < poly.NumLinearRings(); j++ {
				coords := poly.LinearRing(j).Coords()
				for k, c := range coords {
					x, y := project(c)
					if k == 0 {
						fmt.Fprintf(&path, "M%.2f,%.2f", x, y)
					} else {
						fmt.Fprintf(&path, "L%.2f,%.2f", x, y)
					}
				}
				path.WriteString("Z")
			}
		}

		fmt.Fprintf(&sb, `<path d="%s" fill="%s" stroke="none"><title>%s — %s (%.3f)</title></path>`+"\n",
			path.String(), fill, escapeXML(f.GEOID), escapeXML(f.County), f.Score)
	}

	sb.WriteString("</svg>\n")
	return []byte(sb.String())
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
