package pipeline

import (
	"math"
	"sort"
)

// RankingSize is the number of tracts in each top/bottom ranking table.
const RankingSize = 10

// Summary holds descriptive statistics over the filtered score column.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// RankedTract is one row of a top/bottom ranking table.
type RankedTract struct {
	GEOID  string  `json:"geoid"`
	County string  `json:"county"`
	Score  float64 `json:"score"`
}

// Describe computes count, mean, sample standard deviation, min, quartiles,
// and max over the access scores. Std is 0 for fewer than two rows.
func Describe(rows []EnrichedRow) Summary {
	n := len(rows)
	if n == 0 {
		return Summary{}
	}

	scores := make([]float64, n)
	var sum float64
	for i, r := range rows {
		scores[i] = r.AccessScore
		sum += r.AccessScore
	}
	sort.Float64s(scores)

	mean := sum / float64(n)

	var std float64
	if n > 1 {
		var ss float64
		for _, s := range scores {
			d := s - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return Summary{
		Count:  n,
		Mean:   mean,
		Std:    std,
		Min:    scores[0],
		Q25:    quantile(scores, 0.25),
		Median: quantile(scores, 0.50),
		Q75:    quantile(scores, 0.75),
		Max:    scores[n-1],
	}
}

// quantile computes a linearly interpolated quantile over sorted values.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// TopN returns the n highest-scoring rows projected to ranking rows.
// Ties preserve the original relative order.
func TopN(rows []EnrichedRow, n int) []RankedTract {
	return rankBy(rows, n, func(a, b EnrichedRow) bool {
		return a.AccessScore > b.AccessScore
	})
}

// BottomN returns the n lowest-scoring rows projected to ranking rows.
// Ties preserve the original relative order.
func BottomN(rows []EnrichedRow, n int) []RankedTract {
	return rankBy(rows, n, func(a, b EnrichedRow) bool {
		return a.AccessScore < b.AccessScore
	})
}

func rankBy(rows []EnrichedRow, n int, less func(a, b EnrichedRow) bool) []RankedTract {
	ordered := make([]EnrichedRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})

	if n > len(ordered) {
		n = len(ordered)
	}
	ranked := make([]RankedTract, 0, n)
	for _, r := range ordered[:n] {
		ranked = append(ranked, RankedTract{
			GEOID:  r.GEOID,
			County: r.County,
			Score:  r.AccessScore,
		})
	}
	return ranked
}
