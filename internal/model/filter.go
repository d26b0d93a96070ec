package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

// DefaultHour is the hour preselected by the dashboard when none is given.
const DefaultHour = 10

// AfterHoursStart is the first hour matched by after-hours mode (5 PM).
const AfterHoursStart = 17

// FilterParams selects a slice of the score table. Hour and AfterHours are
// mutually exclusive: when AfterHours is set, Hour is ignored and any record
// with Hour >= AfterHoursStart matches.
type FilterParams struct {
	Urban      int    `json:"urban" validate:"gte=0"`
	Rural      int    `json:"rural" validate:"gte=0"`
	Week       int    `json:"week" validate:"gte=0"`
	Day        string `json:"day" validate:"required"`
	Hour       int    `json:"hour" validate:"gte=0,lte=23"`
	AfterHours bool   `json:"after_hours"`
	Colormap   string `json:"cmap" validate:"omitempty,oneof=Greens YlGn BuGn YlGnBu viridis"`
}

var validate = validator.New()

// Validate checks the parameter ranges and the colormap name.
func (p FilterParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return eris.Wrap(err, "model: invalid filter params")
	}
	return nil
}

// Matches reports whether a record falls inside this filter.
func (p FilterParams) Matches(r ScoreRecord) bool {
	if r.UrbanThreshold != p.Urban || r.RuralThreshold != p.Rural {
		return false
	}
	if r.Week != p.Week || r.Day != p.Day {
		return false
	}
	if p.AfterHours {
		return r.Hour >= AfterHoursStart
	}
	return r.Hour == p.Hour
}

// Title describes the filter the way the dashboard captions its map.
func (p FilterParams) Title() string {
	var window string
	if p.AfterHours {
		window = fmt.Sprintf("After Hours (≥5PM), Week %d, %s", p.Week, p.Day)
	} else {
		window = fmt.Sprintf("Week %d, %s, %02d:00", p.Week, p.Day, p.Hour)
	}
	return fmt.Sprintf("Access Score — %s | Urban=%d | Rural=%d", window, p.Urban, p.Rural)
}
