package source

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// LoadCountyMap reads the GEOID-to-county mapping from a CSV or XLSX file,
// chosen by extension. The upstream export names its columns GEOID_x and
// County_x; plain GEOID and County headers are accepted too.
func LoadCountyMap(path string) (map[string]string, error) {
	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = readCountyXLSX(path)
	} else {
		rows, err = readCountyCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("source: county map %s is empty", path)
	}

	geoidIdx, countyIdx, err := countyColumns(rows[0])
	if err != nil {
		return nil, eris.Wrapf(err, "source: county map %s", path)
	}

	counties := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= geoidIdx || len(row) <= countyIdx {
			continue
		}
		geoid := strings.TrimSpace(row[geoidIdx])
		if geoid == "" {
			continue
		}
		counties[geoid] = strings.TrimSpace(row[countyIdx])
	}

	zap.L().Info("source: county map loaded",
		zap.String("path", path),
		zap.Int("tracts", len(counties)),
	)
	return counties, nil
}

func readCountyCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open county map %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "source: read county CSV %s", path)
	}
	return rows, nil
}

func readCountyXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open county XLSX %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("source: county XLSX %s has no sheets", path)
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// countyColumns resolves the GEOID and county column indexes from a header
// row, preferring the _x suffixed names of the upstream export.
func countyColumns(header []string) (geoidIdx, countyIdx int, err error) {
	geoidIdx, countyIdx = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "geoid_x":
			geoidIdx = i
		case "geoid":
			if geoidIdx < 0 {
				geoidIdx = i
			}
		case "county_x":
			countyIdx = i
		case "county":
			if countyIdx < 0 {
				countyIdx = i
			}
		}
	}
	if geoidIdx < 0 || countyIdx < 0 {
		return 0, 0, eris.New("missing GEOID or County column")
	}
	return geoidIdx, countyIdx, nil
}
