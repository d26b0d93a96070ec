// Package render consumes the pipeline's MapLayer contract. Each adapter
// (GeoJSON, SVG) is a swappable rendering technology; none of them feeds
// back into the pipeline.
package render

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// DefaultColormap is used when the caller does not pick one.
const DefaultColormap = "Greens"

type rampStop struct {
	pos     float64
	r, g, b uint8
}

// Colormap maps a normalized [0,1] value to a hex color by linear
// interpolation between ramp stops.
type Colormap struct {
	name  string
	stops []rampStop
}

// The same fixed set the dashboard sidebar offers.
var colormaps = map[string][]rampStop{
	"Greens": {
		{0.00, 0xf7, 0xfc, 0xf5},
		{0.25, 0xc7, 0xe9, 0xc0},
		{0.50, 0x74, 0xc4, 0x76},
		{0.75, 0x23, 0x8b, 0x45},
		{1.00, 0x00, 0x44, 0x1b},
	},
	"YlGn": {
		{0.00, 0xff, 0xff, 0xe5},
		{0.25, 0xd9, 0xf0, 0xa3},
		{0.50, 0x78, 0xc6, 0x79},
		{0.75, 0x23, 0x84, 0x43},
		{1.00, 0x00, 0x45, 0x29},
	},
	"BuGn": {
		{0.00, 0xf7, 0xfc, 0xfd},
		{0.25, 0xcc, 0xec, 0xe6},
		{0.50, 0x66, 0xc2, 0xa4},
		{0.75, 0x23, 0x8b, 0x45},
		{1.00, 0x00, 0x44, 0x1b},
	},
	"YlGnBu": {
		{0.00, 0xff, 0xff, 0xd9},
		{0.25, 0xc7, 0xe9, 0xb4},
		{0.50, 0x41, 0xb6, 0xc4},
		{0.75, 0x22, 0x5e, 0xa8},
		{1.00, 0x08, 0x1d, 0x58},
	},
	"viridis": {
		{0.00, 0x44, 0x01, 0x54},
		{0.25, 0x3b, 0x52, 0x8b},
		{0.50, 0x21, 0x91, 0x8c},
		{0.75, 0x5e, 0xc9, 0x62},
		{1.00, 0xfd, 0xe7, 0x25},
	},
}

// Names returns the supported colormap names in a stable order.
func Names() []string {
	return []string{"Greens", "YlGn", "BuGn", "YlGnBu", "viridis"}
}

// ByName resolves a colormap; an empty name resolves to the default.
func ByName(name string) (Colormap, error) {
	if name == "" {
		name = DefaultColormap
	}
	stops, ok := colormaps[name]
	if !ok {
		return Colormap{}, eris.Errorf("render: unknown colormap %q", name)
	}
	return Colormap{name: name, stops: stops}, nil
}

// Name returns the colormap's name.
func (c Colormap) Name() string { return c.name }

// Color maps a normalized value to a "#rrggbb" hex color. Values outside
// [0,1] and non-finite values clamp to the ramp ends.
func (c Colormap) Color(norm float64) string {
	if math.IsNaN(norm) || norm <= 0 {
		norm = 0
	} else if norm >= 1 {
		norm = 1
	}

	stops := c.stops
	for i := 1; i < len(stops); i++ {
		if norm > stops[i].pos {
			continue
		}
		lo, hi := stops[i-1], stops[i]
		frac := (norm - lo.pos) / (hi.pos - lo.pos)
		return fmt.Sprintf("#%02x%02x%02x",
			lerp(lo.r, hi.r, frac),
			lerp(lo.g, hi.g, frac),
			lerp(lo.b, hi.b, frac),
		)
	}
	last := stops[len(stops)-1]
	return fmt.Sprintf("#%02x%02x%02x", last.r, last.g, last.b)
}

func lerp(a, b uint8, frac float64) uint8 {
	return uint8(math.Round(float64(a) + frac*(float64(b)-float64(a))))
}

// Normalize maps a score into [0,1] against the layer's scale bounds.
// The pipeline guarantees max > min, so the division is always defined.
func Normalize(v, min, max float64) float64 {
	norm := (v - min) / (max - min)
	if math.IsNaN(norm) || norm < 0 {
		return 0
	}
	if norm > 1 {
		return 1
	}
	return norm
}
