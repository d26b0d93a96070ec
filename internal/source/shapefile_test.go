package source

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTractShapefile(t *testing.T, geoids []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracts.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("GEOID", 20)}))

	for i, geoid := range geoids {
		x := float64(i * 2)
		poly := &shp.Polygon{
			Box:       shp.Box{MinX: x, MinY: 0, MaxX: x + 1, MaxY: 1},
			NumParts:  1,
			NumPoints: 5,
			Parts:     []int32{0},
			Points: []shp.Point{
				{X: x, Y: 0}, {X: x + 1, Y: 0}, {X: x + 1, Y: 1}, {X: x, Y: 1}, {X: x, Y: 0},
			},
		}
		row := w.Write(poly)
		require.NoError(t, w.WriteAttribute(int(row), 0, geoid))
	}
	w.Close()
	return path
}

func TestLoadTractGeometries(t *testing.T) {
	path := writeTractShapefile(t, []string{"37001000100", "37063000100"})

	geoms, err := LoadTractGeometries(path)
	require.NoError(t, err)
	require.Len(t, geoms, 2)

	mp := geoms["37001000100"]
	require.NotNil(t, mp)
	assert.Equal(t, 4326, mp.SRID())
	assert.Equal(t, 1, mp.NumPolygons())
}

func TestLoadTractGeometriesSkipsBlankGEOID(t *testing.T) {
	path := writeTractShapefile(t, []string{"37001000100", ""})

	geoms, err := LoadTractGeometries(path)
	require.NoError(t, err)
	assert.Len(t, geoms, 1)
}

func TestLoadTractGeometriesMissingFile(t *testing.T) {
	_, err := LoadTractGeometries(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}

func TestPolygonToMultiPolygon(t *testing.T) {
	tests := []struct {
		name string
		poly *shp.Polygon
		want int // polygons in the result; -1 means nil result
	}{
		{"nil polygon", nil, -1},
		{"no parts", &shp.Polygon{}, -1},
		{
			"single ring",
			&shp.Polygon{
				NumParts: 1, NumPoints: 5, Parts: []int32{0},
				Points: []shp.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}},
			},
			1,
		},
		{
			"two parts",
			&shp.Polygon{
				NumParts: 2, NumPoints: 10, Parts: []int32{0, 5},
				Points: []shp.Point{
					{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0},
					{X: 4, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: 0},
				},
			},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp := polygonToMultiPolygon(tt.poly)
			if tt.want < 0 {
				assert.Nil(t, mp)
				return
			}
			require.NotNil(t, mp)
			assert.Equal(t, tt.want, mp.NumPolygons())
		})
	}
}
