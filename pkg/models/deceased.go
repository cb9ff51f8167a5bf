// Package models contains domain types for finalspaces-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Deceased represents one memorial entry owned by a single user.
// Dates are exchanged as ISO strings (YYYY-MM-DD), matching the form inputs.
type Deceased struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	BirthDate     string    `json:"birth_date"`
	DeathDate     string    `json:"death_date"`
	BirthLocation string    `json:"birth_location"`
	Image         string    `json:"image"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DateLayout is the wire format for birth and death dates.
const DateLayout = "2006-01-02"

// AgeAtDeath returns the age in whole calendar years between the birth and
// death dates, or false if either date does not parse.
func (d *Deceased) AgeAtDeath() (int, bool) {
	birth, err := time.Parse(DateLayout, d.BirthDate)
	if err != nil {
		return 0, false
	}
	death, err := time.Parse(DateLayout, d.DeathDate)
	if err != nil {
		return 0, false
	}

	years := death.Year() - birth.Year()
	// Not yet reached the birthday in the death year.
	anniversary := time.Date(death.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if death.Before(anniversary) {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}
