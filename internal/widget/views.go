package widget

import (
	"context"
	"errors"
	"time"

	"github.com/bassista/paddock/internal/fetch"
	"github.com/bassista/paddock/internal/schedule"
	"github.com/bassista/paddock/internal/standings"
)

// View kinds.
const (
	KindSchedule     = "schedule"
	KindDrivers      = "drivers"
	KindConstructors = "constructors"
	KindError        = "error"
)

// Meta describes where the data behind a view came from.
type Meta struct {
	Source      fetch.Source `json:"source"`
	FetchedAt   time.Time    `json:"fetchedAt"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// ScheduleView is the next race weekend.
type ScheduleView struct {
	Kind             string    `json:"kind"`
	Family           Family    `json:"family"`
	Round            string    `json:"round"`
	Title            string    `json:"title"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	CircuitID        string    `json:"circuitId"`
	DateRange        string    `json:"dateRange"`
	FlagCode         string    `json:"flagCode,omitempty"`
	FlagURL          string    `json:"flagUrl,omitempty"`
	TrackURL         string    `json:"trackUrl"`
	FallbackTrackURL string    `json:"fallbackTrackUrl"`
	Days             []DayView `json:"days"`
	Meta             Meta      `json:"meta"`
}

// DayView is one bucket of sessions. Past mirrors the first session of the day.
type DayView struct {
	Key      string                 `json:"key"`
	Label    string                 `json:"label"`
	Past     bool                   `json:"past"`
	Sessions []schedule.SessionView `json:"sessions"`
}

// Row is a standings entry with the label chosen for the family.
type Row struct {
	standings.Entry
	Label string `json:"label"`
}

// StandingsView is a driver or constructor table laid out in columns.
type StandingsView struct {
	Kind    string  `json:"kind"`
	Family  Family  `json:"family"`
	Title   string  `json:"title"`
	Round   string  `json:"round"`
	Columns [][]Row `json:"columns"`
	Meta    Meta    `json:"meta"`
}

// ErrorView is rendered in place of a view that could not be built.
type ErrorView struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DashboardView bundles every view. Parts that failed appear in Errors instead.
type DashboardView struct {
	Family       Family               `json:"family"`
	Schedule     *ScheduleView        `json:"schedule,omitempty"`
	Drivers      *StandingsView       `json:"drivers,omitempty"`
	Constructors *StandingsView       `json:"constructors,omitempty"`
	Errors       map[string]ErrorView `json:"errors,omitempty"`
}

// ErrorViewFor maps a service error to the message shown on the widget.
func ErrorViewFor(err error) ErrorView {
	msg := "Something went wrong."
	switch {
	case errors.Is(err, fetch.ErrNoDataAvailable):
		msg = "No data available."
	case errors.Is(err, schedule.ErrNoUpcomingEvent):
		msg = "No upcoming race sessions found."
	case errors.Is(err, context.DeadlineExceeded):
		msg = "Request timed out."
	case errors.Is(err, ErrUnknownFamily):
		msg = err.Error()
	}
	return ErrorView{Kind: KindError, Message: msg}
}
