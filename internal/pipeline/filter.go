package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/shfb-analytics/access-dashboard/internal/model"
)

// ErrNoData signals that a filter combination matched zero score records.
// Callers short-circuit all downstream stages and surface a non-fatal
// "no data" notice instead.
var ErrNoData = eris.New("pipeline: no data available for this combination")

// View is the ephemeral subset of the score table matching one filter tuple.
// It holds copies; the underlying score table is never mutated.
type View struct {
	Records []model.ScoreRecord
}

// Empty reports whether the filter matched zero records.
func (v *View) Empty() bool {
	return len(v.Records) == 0
}

// Filter selects the score records matching the given parameters: equality on
// urban/rural thresholds, week and day, and either an exact hour or the
// after-hours window (hour >= 17).
func Filter(table []model.ScoreRecord, params model.FilterParams) *View {
	var matched []model.ScoreRecord
	for _, r := range table {
		if params.Matches(r) {
			matched = append(matched, r)
		}
	}
	return &View{Records: matched}
}
