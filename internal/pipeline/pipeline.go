package pipeline

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/shfb-analytics/access-dashboard/internal/model"
)

// Pipeline runs the filter/enrich/project/summarize stages over immutable,
// load-once inputs. All inputs are injected; a Pipeline holds no mutable
// state, so concurrent Run calls are safe without locking.
type Pipeline struct {
	scores   []model.ScoreRecord
	counties map[string]string
	geoms    map[string]*geom.MultiPolygon
}

// New creates a Pipeline over the given score table and reference data.
func New(scores []model.ScoreRecord, counties map[string]string, geoms map[string]*geom.MultiPolygon) *Pipeline {
	return &Pipeline{scores: scores, counties: counties, geoms: geoms}
}

// TractAgencies is the agency breakdown for one ranked tract.
type TractAgencies struct {
	GEOID  string      `json:"geoid"`
	County string      `json:"county"`
	Rows   []AgencyRow `json:"rows"`
}

// Result is one complete pipeline pass for a filter tuple.
type Result struct {
	Params   model.FilterParams
	Title    string
	Rows     []EnrichedRow
	Layer    MapLayer
	Summary  Summary
	Top      []RankedTract
	Bottom   []RankedTract
	Agencies []TractAgencies
}

// Run executes one synchronous pipeline pass. It returns ErrNoData when the
// filter matches nothing; every other outcome is a fully populated Result.
func (p *Pipeline) Run(params model.FilterParams) (*Result, error) {
	view := Filter(p.scores, params)
	if view.Empty() {
		zap.L().Debug("pipeline: empty filter result",
			zap.Int("urban", params.Urban),
			zap.Int("rural", params.Rural),
			zap.Int("week", params.Week),
			zap.String("day", params.Day),
		)
		return nil, ErrNoData
	}

	rows := Enrich(view, p.counties)
	layer := ProjectMap(rows, p.geoms)
	top := TopN(rows, RankingSize)

	// Agency breakdowns follow the top ranking, one entry per ranked tract.
	agencies := make([]TractAgencies, 0, len(top))
	byGEOID := make(map[string]EnrichedRow, len(rows))
	for _, r := range rows {
		byGEOID[r.GEOID] = r
	}
	for _, t := range top {
		agencies = append(agencies, TractAgencies{
			GEOID:  t.GEOID,
			County: t.County,
			Rows:   AgencyTable(byGEOID[t.GEOID].TopAgencies),
		})
	}

	return &Result{
		Params:   params,
		Title:    params.Title(),
		Rows:     rows,
		Layer:    layer,
		Summary:  Describe(rows),
		Top:      top,
		Bottom:   BottomN(rows, RankingSize),
		Agencies: agencies,
	}, nil
}

// TractBreakdown returns the agency breakdown for a single tract under the
// given filter. ErrNoData when the filter matches nothing; a tract-not-found
// error when the GEOID is absent from the filtered view.
func (p *Pipeline) TractBreakdown(params model.FilterParams, geoid string) (*TractAgencies, error) {
	view := Filter(p.scores, params)
	if view.Empty() {
		return nil, ErrNoData
	}
	for _, r := range Enrich(view, p.counties) {
		if r.GEOID == geoid {
			return &TractAgencies{
				GEOID:  r.GEOID,
				County: r.County,
				Rows:   AgencyTable(r.TopAgencies),
			}, nil
		}
	}
	return nil, eris.Errorf("pipeline: tract %s not in filtered view", geoid)
}

// Dimensions holds the discrete filter values present in the score table,
// used to populate the dashboard's filter widgets.
type Dimensions struct {
	Urban []int    `json:"urban"`
	Rural []int    `json:"rural"`
	Weeks []int    `json:"weeks"`
	Days  []string `json:"days"`
}

// Dimensions returns the sorted unique filter values in the score table.
func (p *Pipeline) Dimensions() Dimensions {
	urban := map[int]bool{}
	rural := map[int]bool{}
	weeks := map[int]bool{}
	days := map[string]bool{}
	for _, r := range p.scores {
		urban[r.UrbanThreshold] = true
		rural[r.RuralThreshold] = true
		weeks[r.Week] = true
		days[r.Day] = true
	}
	return Dimensions{
		Urban: sortedInts(urban),
		Rural: sortedInts(rural),
		Weeks: sortedInts(weeks),
		Days:  sortedStrings(days),
	}
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
