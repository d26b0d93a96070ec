package pipeline

import "github.com/shfb-analytics/access-dashboard/internal/model"

// UnknownCounty is substituted for tracts with no county mapping.
const UnknownCounty = "Unknown"

// EnrichedRow is a filtered score record with its county name attached.
type EnrichedRow struct {
	model.ScoreRecord
	County string
}

// Enrich left-joins the filtered view with the GEOID-to-county mapping.
// Every row of the view is preserved; unmatched tracts get UnknownCounty.
func Enrich(v *View, counties map[string]string) []EnrichedRow {
	rows := make([]EnrichedRow, 0, len(v.Records))
	for _, r := range v.Records {
		county, ok := counties[r.GEOID]
		if !ok || county == "" {
			county = UnknownCounty
		}
		rows = append(rows, EnrichedRow{ScoreRecord: r, County: county})
	}
	return rows
}
