package pipeline

import (
	"math"

	"github.com/shfb-analytics/access-dashboard/internal/model"
)

// AgencyRow is one row of a presentation-ready agency breakdown table.
// Contribution is rounded to three decimals for display; the stored record
// keeps full precision.
type AgencyRow struct {
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
}

// AgencyTable decodes a record's agency payload into a presentation table.
// A malformed, absent, or non-list payload yields a nil table, which callers
// must render as an explicit "no agency data available" indicator.
func AgencyTable(payload model.AgencyPayload) []AgencyRow {
	list := payload.Decode()
	if len(list) == 0 {
		return nil
	}
	rows := make([]AgencyRow, 0, len(list))
	for _, a := range list {
		rows = append(rows, AgencyRow{
			Name:         a.Name,
			Contribution: roundTo(a.Contribution, 3),
		})
	}
	return rows
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
