// Package schedule picks the next race weekend and orders its sessions for display.
// Everything here is a pure function of the event list and a reference instant.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bassista/paddock/internal/feed"
)

// PrimarySession is the session kind that decides whether an event is upcoming.
const PrimarySession = "race"

var (
	// ErrNoUpcomingEvent is returned when every event's primary session is in the past.
	ErrNoUpcomingEvent = errors.New("no upcoming event")
	// ErrUnparseableSession marks a session whose timestamp is missing or unreadable.
	ErrUnparseableSession = errors.New("unparseable session timestamp")
)

// EventRecord is one race weekend. Sessions keeps the raw timestamps so that a bad
// entry only loses that one session.
type EventRecord struct {
	Round     string
	Name      string
	Location  string
	CircuitID string
	Sessions  map[string]string
}

// EventsFromFeed converts the decoded schedule feed, keeping input order.
func EventsFromFeed(f *feed.ScheduleFeed) []EventRecord {
	if f == nil {
		return nil
	}
	events := make([]EventRecord, 0, len(f.Races))
	for _, r := range f.Races {
		sessions := make(map[string]string, len(r.Sessions))
		for k, v := range r.Sessions {
			sessions[k] = v
		}
		events = append(events, EventRecord{
			Round:     r.Round.String(),
			Name:      r.Name,
			Location:  r.Location,
			CircuitID: r.CircuitID,
			Sessions:  sessions,
		})
	}
	return events
}

// SessionTime parses the timestamp of one session kind.
func (e EventRecord) SessionTime(kind string, loc *time.Location) (time.Time, error) {
	raw, ok := e.Sessions[kind]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s missing", ErrUnparseableSession, kind)
	}
	return ParseTimestamp(raw, loc)
}

// timestampLayouts are tried in order. Layouts without a zone are read in the display location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// dateOnlyLayout values mean midnight UTC, as ISO date-only strings do in browsers.
const dateOnlyLayout = "2006-01-02"

// ParseTimestamp reads the ISO-like timestamps found in schedule feeds.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnparseableSession)
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableSession, raw)
}
