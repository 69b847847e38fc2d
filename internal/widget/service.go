package widget

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bassista/paddock/internal/clock"
	"github.com/bassista/paddock/internal/feed"
	"github.com/bassista/paddock/internal/fetch"
	"github.com/bassista/paddock/internal/logger"
	"github.com/bassista/paddock/internal/schedule"
	"github.com/bassista/paddock/internal/standings"
	"golang.org/x/sync/errgroup"
)

// Obtainer is the cache-backed fetch step. *fetch.Fetcher implements it.
type Obtainer interface {
	Obtain(ctx context.Context, slot fetch.Slot) (*fetch.Result, error)
}

// Lookup resolves labels, team metadata and flags. *lookup.Table implements it.
type Lookup interface {
	standings.TeamResolver
	SessionLabel(kind string) string
	FlagCode(circuitID string) (string, bool)
}

// Slots are the three cached feeds.
type Slots struct {
	Schedule             fetch.Slot
	DriverStandings      fetch.Slot
	ConstructorStandings fetch.Slot
}

// Display holds presentation settings.
type Display struct {
	Location    *time.Location
	Assets      Assets
	IncludeFlag bool
}

// Service builds the widget views from fetched feeds.
type Service struct {
	obtainer Obtainer
	lookup   Lookup
	clock    clock.Clock
	slots    Slots
	display  Display
	sched    *schedule.Scheduler
}

func NewService(o Obtainer, lk Lookup, clk clock.Clock, slots Slots, display Display) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		obtainer: o,
		lookup:   lk,
		clock:    clk,
		slots:    slots,
		display:  display,
		sched:    schedule.New(lk, display.Location),
	}
}

// Slots returns the configured feed slots.
func (s *Service) Slots() Slots {
	return s.slots
}

// NextRace returns the upcoming race weekend.
func (s *Service) NextRace(ctx context.Context, family Family) (*ScheduleView, error) {
	res, err := s.obtainer.Obtain(ctx, s.slots.Schedule)
	if err != nil {
		return nil, err
	}
	f, err := feed.ParseSchedule(res.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fetch.ErrNoDataAvailable, err)
	}

	now := s.clock.Now()
	event, err := s.sched.SelectUpcoming(schedule.EventsFromFeed(f), now)
	if err != nil {
		return nil, err
	}
	return s.scheduleView(*event, family, now, res), nil
}

func (s *Service) scheduleView(event schedule.EventRecord, family Family, now time.Time, res *fetch.Result) *ScheduleView {
	assets := s.display.Assets
	view := &ScheduleView{
		Kind:             KindSchedule,
		Family:           family,
		Round:            PadRound(event.Round),
		Title:            ShortTitle(event.Name),
		Name:             event.Name,
		Location:         event.Location,
		CircuitID:        event.CircuitID,
		DateRange:        s.dateRange(event, now),
		TrackURL:         assets.TrackURL(event.CircuitID),
		FallbackTrackURL: assets.FallbackTrackURL(),
		Meta:             s.meta(res),
	}
	if code, ok := s.lookup.FlagCode(event.CircuitID); ok {
		view.FlagCode = code
		if s.display.IncludeFlag {
			view.FlagURL = assets.FlagURL(code)
		}
	}

	var buckets []schedule.DayBucket
	if family == FamilyLarge {
		view.Title = FullTitle(event.Name)
		buckets = s.sched.GroupByDate(event, now)
	} else {
		buckets = s.sched.GroupAndOrder(event, now)
	}
	view.Days = make([]DayView, 0, len(buckets))
	for _, b := range buckets {
		view.Days = append(view.Days, DayView{
			Key:      b.Key,
			Label:    strings.ToUpper(b.Key),
			Past:     b.Sessions[0].IsPast,
			Sessions: b.Sessions,
		})
	}
	return view
}

// dateRange spans practice 1 to the race; the earliest session stands in for a missing fp1.
func (s *Service) dateRange(event schedule.EventRecord, now time.Time) string {
	sessions := s.sched.Sessions(event, now)
	if len(sessions) == 0 {
		return ""
	}
	first, last := sessions[0], sessions[len(sessions)-1]
	for _, v := range sessions {
		switch v.Kind {
		case "fp1":
			first = v
		case schedule.PrimarySession:
			last = v
		}
	}
	return first.Date + " - " + last.Date
}

// DriverStandings returns the drivers' championship table.
func (s *Service) DriverStandings(ctx context.Context, family Family) (*StandingsView, error) {
	res, err := s.obtainer.Obtain(ctx, s.slots.DriverStandings)
	if err != nil {
		return nil, err
	}
	f, err := feed.ParseDriverStandings(res.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fetch.ErrNoDataAvailable, err)
	}

	table := standings.Drivers(f, s.lookup)
	cols := standings.Columns(table.Entries, standings.DriverPerColumn(len(table.Entries)), 0)
	return &StandingsView{
		Kind:    KindDrivers,
		Family:  family,
		Title:   "Driver Standings - R" + table.Round,
		Round:   table.Round,
		Columns: rows(cols, func(e standings.Entry) string { return e.Code }),
		Meta:    s.meta(res),
	}, nil
}

// ConstructorStandings returns the top ten constructors in two columns.
func (s *Service) ConstructorStandings(ctx context.Context, family Family) (*StandingsView, error) {
	res, err := s.obtainer.Obtain(ctx, s.slots.ConstructorStandings)
	if err != nil {
		return nil, err
	}
	f, err := feed.ParseConstructorStandings(res.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fetch.ErrNoDataAvailable, err)
	}

	table := standings.Constructors(f, s.lookup)
	cols := standings.Columns(table.Entries, standings.ConstructorColumnSize, standings.ConstructorColumnCount)
	label := func(e standings.Entry) string { return e.Name }
	if family == FamilySmall {
		label = func(e standings.Entry) string { return e.Code }
	}
	return &StandingsView{
		Kind:    KindConstructors,
		Family:  family,
		Title:   "WCC Standings",
		Round:   table.Round,
		Columns: rows(cols, label),
		Meta:    s.meta(res),
	}, nil
}

// Dashboard builds every view concurrently. A failing view is reported in Errors.
func (s *Service) Dashboard(ctx context.Context, family Family) (*DashboardView, error) {
	var (
		mu   sync.Mutex
		dash = &DashboardView{Family: family}
		g    errgroup.Group
	)
	fail := func(part string, err error) {
		logger.WithComponent("widget").Warnf("dashboard %s: %v", part, err)
		mu.Lock()
		defer mu.Unlock()
		if dash.Errors == nil {
			dash.Errors = map[string]ErrorView{}
		}
		dash.Errors[part] = ErrorViewFor(err)
	}

	g.Go(func() error {
		v, err := s.NextRace(ctx, family)
		if err != nil {
			fail(KindSchedule, err)
			return nil
		}
		dash.Schedule = v
		return nil
	})
	g.Go(func() error {
		v, err := s.DriverStandings(ctx, family)
		if err != nil {
			fail(KindDrivers, err)
			return nil
		}
		dash.Drivers = v
		return nil
	})
	g.Go(func() error {
		v, err := s.ConstructorStandings(ctx, family)
		if err != nil {
			fail(KindConstructors, err)
			return nil
		}
		dash.Constructors = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dash, nil
}

func (s *Service) meta(res *fetch.Result) Meta {
	return Meta{Source: res.Source, FetchedAt: res.FetchedAt, GeneratedAt: s.clock.Now()}
}

func rows(cols [][]standings.Entry, label func(standings.Entry) string) [][]Row {
	out := make([][]Row, 0, len(cols))
	for _, col := range cols {
		r := make([]Row, 0, len(col))
		for _, e := range col {
			r = append(r, Row{Entry: e, Label: label(e)})
		}
		out = append(out, r)
	}
	return out
}
