// Package standings turns decoded standings feeds into display entries.
package standings

import (
	"strconv"
	"strings"

	"github.com/bassista/paddock/internal/feed"
	"github.com/bassista/paddock/internal/lookup"
)

// UnknownCategory is the category key used when a standing has no constructor.
const UnknownCategory = "unknown"

// TeamResolver resolves constructor ids to display metadata. *lookup.Table implements it.
type TeamResolver interface {
	Team(id string) lookup.Team
}

// Entry is one standings row.
type Entry struct {
	Rank          int     `json:"rank"`
	Points        float64 `json:"points"`
	PointsText    string  `json:"pointsText"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	CategoryKey   string  `json:"categoryKey"`
	Color         string  `json:"color"`
	KnownCategory bool    `json:"knownCategory"`
}

// Table is an ordered list of entries for one round.
type Table struct {
	Round   string  `json:"round"`
	Entries []Entry `json:"entries"`
}

// Drivers builds driver standings entries in feed order.
func Drivers(f *feed.StandingsFeed, teams TeamResolver) Table {
	rows := f.Drivers()
	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		key := UnknownCategory
		if len(row.Constructors) > 0 && strings.TrimSpace(row.Constructors[0].ConstructorID) != "" {
			key = row.Constructors[0].ConstructorID
		}
		team := teams.Team(key)
		code := strings.TrimSpace(row.Driver.Code)
		if code == "" {
			code = "N/A"
		}
		points := parsePoints(row.Points)
		entries = append(entries, Entry{
			Rank:          parseRank(row.Position, i),
			Points:        points,
			PointsText:    FormatPoints(points),
			Code:          code,
			Name:          strings.TrimSpace(row.Driver.GivenName + " " + row.Driver.FamilyName),
			CategoryKey:   team.Key,
			Color:         team.Color,
			KnownCategory: team.Known,
		})
	}
	return Table{Round: f.Round(), Entries: entries}
}

// Constructors builds constructor standings entries in feed order. Code is the team shorthand.
func Constructors(f *feed.StandingsFeed, teams TeamResolver) Table {
	rows := f.Constructors()
	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		key := row.Constructor.ConstructorID
		if strings.TrimSpace(key) == "" {
			key = UnknownCategory
		}
		team := teams.Team(key)
		points := parsePoints(row.Points)
		entries = append(entries, Entry{
			Rank:          parseRank(row.Position, i),
			Points:        points,
			PointsText:    FormatPoints(points),
			Code:          team.Shorthand,
			Name:          team.Name,
			CategoryKey:   team.Key,
			Color:         team.Color,
			KnownCategory: team.Known,
		})
	}
	return Table{Round: f.Round(), Entries: entries}
}

// FormatPoints renders points without trailing zeros ("115.5", "131").
func FormatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func parsePoints(s string) float64 {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return p
}

func parseRank(s string, index int) int {
	r, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || r <= 0 {
		return index + 1
	}
	return r
}
