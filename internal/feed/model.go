// Package feed decodes the remote JSON feeds into typed shapes. Shape mismatches fail
// fast with ErrMalformedPayload instead of leaking half-decoded data downstream.
package feed

import "encoding/json"

// ScheduleFeed is the season schedule document: {"races": [...]}.
type ScheduleFeed struct {
	Races []Race `json:"races" validate:"required,min=1,dive"`
}

// Race is one race weekend in the schedule feed. Sessions maps a session kind
// (fp1, qualifying, race, ...) to an ISO-like timestamp.
type Race struct {
	Round     json.Number       `json:"round" validate:"required"`
	Name      string            `json:"name" validate:"required"`
	Location  string            `json:"location"`
	CircuitID string            `json:"circuitId"`
	Sessions  map[string]string `json:"sessions" validate:"required,min=1"`
}

// StandingsFeed is the ergast-style standings document.
type StandingsFeed struct {
	MRData MRData `json:"MRData"`
}

type MRData struct {
	StandingsTable StandingsTable `json:"StandingsTable"`
}

type StandingsTable struct {
	Season         string          `json:"season"`
	Round          string          `json:"round"`
	StandingsLists []StandingsList `json:"StandingsLists" validate:"required,min=1,dive"`
}

type StandingsList struct {
	Season               string                `json:"season"`
	Round                string                `json:"round"`
	DriverStandings      []DriverStanding      `json:"DriverStandings" validate:"dive"`
	ConstructorStandings []ConstructorStanding `json:"ConstructorStandings" validate:"dive"`
}

type DriverStanding struct {
	Position     string        `json:"position"`
	PositionText string        `json:"positionText"`
	Points       string        `json:"points"`
	Wins         string        `json:"wins"`
	Driver       Driver        `json:"Driver"`
	Constructors []Constructor `json:"Constructors"`
}

type Driver struct {
	DriverID   string `json:"driverId"`
	Code       string `json:"code"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

type ConstructorStanding struct {
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Wins         string      `json:"wins"`
	Constructor  Constructor `json:"Constructor"`
}

type Constructor struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
}

// Round returns the standings round, or "N/A" when the feed does not carry one.
func (f *StandingsFeed) Round() string {
	if f == nil || f.MRData.StandingsTable.Round == "" {
		return "N/A"
	}
	return f.MRData.StandingsTable.Round
}

// Drivers returns the first standings list's driver standings.
func (f *StandingsFeed) Drivers() []DriverStanding {
	if f == nil || len(f.MRData.StandingsTable.StandingsLists) == 0 {
		return nil
	}
	return f.MRData.StandingsTable.StandingsLists[0].DriverStandings
}

// Constructors returns the first standings list's constructor standings.
func (f *StandingsFeed) Constructors() []ConstructorStanding {
	if f == nil || len(f.MRData.StandingsTable.StandingsLists) == 0 {
		return nil
	}
	return f.MRData.StandingsTable.StandingsLists[0].ConstructorStandings
}
