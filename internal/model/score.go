package model

import (
	"encoding/json"
	"strings"
)

// ScoreRecord is one precomputed access score for a census tract under a
// specific parameter tuple. The score table holds at most one record per
// (GEOID, urban, rural, week, day, hour) combination; the pipeline assumes
// but does not enforce that uniqueness.
type ScoreRecord struct {
	GEOID          string        `json:"geoid"`
	UrbanThreshold int           `json:"urban_threshold"`
	RuralThreshold int           `json:"rural_threshold"`
	Week           int           `json:"week"`
	Day            string        `json:"day"`
	Hour           int           `json:"hour"`
	AccessScore    float64       `json:"access_score"`
	TopAgencies    AgencyPayload `json:"top_agencies"`
}

// AgencyContribution is one agency's share of a tract's access score.
type AgencyContribution struct {
	Name         string  `json:"Name"`
	Contribution float64 `json:"Agency_Contribution"`
}

// AgencyPayload holds a tract's contributing-agency breakdown as found in the
// score table: either already structured, or a raw text blob that has not
// been parsed yet. Decode resolves either form to a definite slice.
type AgencyPayload struct {
	structured []AgencyContribution
	raw        string
}

// AgenciesFromList builds a payload from an already-structured breakdown.
func AgenciesFromList(list []AgencyContribution) AgencyPayload {
	return AgencyPayload{structured: list}
}

// AgenciesFromText builds a payload from a serialized breakdown that will be
// decoded lazily.
func AgenciesFromText(raw string) AgencyPayload {
	return AgencyPayload{raw: raw}
}

// Decode resolves the payload to a contribution list. A structured payload
// passes through unchanged. A text payload is JSON-decoded; on any decode
// failure, or when the payload is absent or not a list, the result is an
// empty slice. Decode never returns an error.
func (p AgencyPayload) Decode() []AgencyContribution {
	if p.structured != nil {
		return p.structured
	}

	raw := strings.TrimSpace(p.raw)
	if raw == "" {
		return nil
	}

	var list []AgencyContribution
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return list
}

// MarshalJSON emits the decoded contribution list.
func (p AgencyPayload) MarshalJSON() ([]byte, error) {
	list := p.Decode()
	if list == nil {
		list = []AgencyContribution{}
	}
	return json.Marshal(list)
}

// UnmarshalJSON accepts either a structured list or a JSON string holding a
// serialized list. Anything else resolves to an empty payload.
func (p *AgencyPayload) UnmarshalJSON(data []byte) error {
	var list []AgencyContribution
	if err := json.Unmarshal(data, &list); err == nil {
		p.structured = list
		p.raw = ""
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		p.structured = nil
		p.raw = raw
		return nil
	}

	*p = AgencyPayload{}
	return nil
}
