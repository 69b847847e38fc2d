package schedule

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bassista/paddock/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLabels map[string]string

func (s stubLabels) SessionLabel(kind string) string {
	if l, ok := s[kind]; ok {
		return l
	}
	return strings.ToUpper(kind)
}

var labels = stubLabels{"fp1": "FP1", "qualifying": "Qualifying", "race": "Race"}

func ts(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func event(round string, race time.Time) EventRecord {
	return EventRecord{Round: round, Name: "GP " + round, Sessions: map[string]string{"race": ts(race)}}
}

func TestSelectUpcoming_SoonestFuture(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := New(labels, time.UTC)
	events := []EventRecord{
		event("1", now.Add(-10*time.Hour)),
		event("2", now.Add(5*time.Hour)),
		event("3", now.Add(20*time.Hour)),
	}

	got, err := s.SelectUpcoming(events, now)
	require.NoError(t, err)
	assert.Equal(t, "2", got.Round)
}

func TestSelectUpcoming_InputOrderDoesNotMatter(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := New(labels, time.UTC)
	events := []EventRecord{
		event("3", now.Add(20*time.Hour)),
		event("2", now.Add(5*time.Hour)),
	}

	got, err := s.SelectUpcoming(events, now)
	require.NoError(t, err)
	assert.Equal(t, "2", got.Round)
}

func TestSelectUpcoming_StrictlyAfterNow(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := New(labels, time.UTC)

	_, err := s.SelectUpcoming([]EventRecord{event("1", now)}, now)
	assert.ErrorIs(t, err, ErrNoUpcomingEvent)
}

func TestSelectUpcoming_TieKeepsFirst(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := New(labels, time.UTC)
	race := now.Add(48 * time.Hour)

	got, err := s.SelectUpcoming([]EventRecord{event("a", race), event("b", race)}, now)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Round)
}

func TestSelectUpcoming_EmptyAndUnreadable(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := New(labels, time.UTC)

	_, err := s.SelectUpcoming(nil, now)
	assert.True(t, errors.Is(err, ErrNoUpcomingEvent))

	events := []EventRecord{
		{Round: "1", Sessions: map[string]string{"race": "not a date"}},
		{Round: "2", Sessions: map[string]string{"fp1": ts(now.Add(time.Hour))}},
		event("3", now.Add(72*time.Hour)),
	}
	got, err := s.SelectUpcoming(events, now)
	require.NoError(t, err)
	assert.Equal(t, "3", got.Round)
}

func TestSelectUpcoming_ReturnsElementOfInput(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := New(labels, time.UTC)
	events := []EventRecord{event("1", now.Add(time.Hour))}

	got, err := s.SelectUpcoming(events, now)
	require.NoError(t, err)
	assert.Same(t, &events[0], got)
}

func TestGroupAndOrder_WeekendOrder(t *testing.T) {
	// Friday 14 March 2025.
	fri := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	ev := EventRecord{Round: "1", Sessions: map[string]string{
		"race":       ts(fri.Add(50 * time.Hour)),
		"fp1":        ts(fri),
		"qualifying": ts(fri.Add(27 * time.Hour)),
	}}
	s := New(labels, time.UTC)

	buckets := s.GroupAndOrder(ev, fri.Add(-time.Hour))
	require.Len(t, buckets, 3)
	assert.Equal(t, []string{"Fri", "Sat", "Sun"}, keys(buckets))
	assert.Equal(t, "FP1", buckets[0].Sessions[0].Label)
	assert.Equal(t, "Qualifying", buckets[1].Sessions[0].Label)
	assert.Equal(t, "Race", buckets[2].Sessions[0].Label)
	assert.Equal(t, "14 Mar", buckets[0].Sessions[0].Date)
	assert.Equal(t, "12:00 pm", buckets[0].Sessions[0].Time)
	assert.Equal(t, "Fri 14 Mar", buckets[0].Sessions[0].FullDayDate)
}

func TestGroupAndOrder_MonthBoundary(t *testing.T) {
	// Friday 30 May to Sunday 1 June 2025.
	fri := time.Date(2025, 5, 30, 11, 30, 0, 0, time.UTC)
	ev := EventRecord{Sessions: map[string]string{
		"race": ts(time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)),
		"fp1":  ts(fri),
		"fp2":  ts(fri.Add(4 * time.Hour)),
	}}
	s := New(labels, time.UTC)

	buckets := s.GroupAndOrder(ev, fri)
	assert.Equal(t, []string{"Fri", "Sun"}, keys(buckets))
	require.Len(t, buckets[0].Sessions, 2)
	assert.Equal(t, "fp1", buckets[0].Sessions[0].Kind)
	assert.Equal(t, "FP2", buckets[0].Sessions[1].Label)
}

func TestGroupAndOrder_IsPastBoundary(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	ev := EventRecord{Sessions: map[string]string{
		"fp1":  ts(now.Add(-time.Minute)),
		"fp2":  ts(now),
		"race": ts(now.Add(48 * time.Hour)),
	}}
	s := New(labels, time.UTC)

	views := s.Sessions(ev, now)
	require.Len(t, views, 3)
	assert.True(t, views[0].IsPast)
	assert.False(t, views[1].IsPast, "timestamp equal to now is not past")
	assert.False(t, views[2].IsPast)
}

func TestGroupAndOrder_SkipsUnparseable(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	ev := EventRecord{Sessions: map[string]string{
		"fp1":  "garbage",
		"fp2":  "",
		"race": ts(now.Add(48 * time.Hour)),
	}}
	s := New(labels, time.UTC)

	buckets := s.GroupAndOrder(ev, now)
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Sessions, 1)
	assert.Equal(t, "race", buckets[0].Sessions[0].Kind)
}

func TestGroupAndOrder_UnknownKindUpperCased(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	ev := EventRecord{Sessions: map[string]string{"shootout": ts(now)}}

	buckets := New(nil, time.UTC).GroupAndOrder(ev, now)
	require.Len(t, buckets, 1)
	assert.Equal(t, "SHOOTOUT", buckets[0].Sessions[0].Label)
}

func TestGroupAndOrder_SameWeekdayMerges(t *testing.T) {
	fri := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	ev := EventRecord{Sessions: map[string]string{
		"fp1":  ts(fri),
		"race": ts(fri.AddDate(0, 0, 7)),
	}}

	buckets := New(labels, time.UTC).GroupAndOrder(ev, fri)
	require.Len(t, buckets, 1)
	assert.Equal(t, "Fri", buckets[0].Key)
	assert.Len(t, buckets[0].Sessions, 2)
}

func TestGroupAndOrder_DisplayLocation(t *testing.T) {
	loc := time.FixedZone("AEST", 10*3600)
	// 22:00 UTC Saturday is Sunday morning in UTC+10.
	sat := time.Date(2025, 3, 15, 22, 0, 0, 0, time.UTC)
	ev := EventRecord{Sessions: map[string]string{"race": ts(sat)}}

	buckets := New(labels, loc).GroupAndOrder(ev, sat)
	require.Len(t, buckets, 1)
	assert.Equal(t, "Sun", buckets[0].Key)
	assert.Equal(t, "08:00 am", buckets[0].Sessions[0].Time)
}

func TestGroupAndOrder_TiesUseKindOrder(t *testing.T) {
	at := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	ev := EventRecord{Sessions: map[string]string{"race": ts(at), "fp1": ts(at), "zeta": ts(at)}}

	views := New(labels, time.UTC).Sessions(ev, at)
	require.Len(t, views, 3)
	assert.Equal(t, []string{"fp1", "race", "zeta"}, []string{views[0].Kind, views[1].Kind, views[2].Kind})
}

func TestGroupByDate_Chronological(t *testing.T) {
	fri := time.Date(2025, 5, 30, 11, 30, 0, 0, time.UTC)
	ev := EventRecord{Sessions: map[string]string{
		"race":       ts(time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)),
		"qualifying": ts(fri.Add(28 * time.Hour)),
		"fp1":        ts(fri),
	}}

	buckets := New(labels, time.UTC).GroupByDate(ev, fri)
	assert.Equal(t, []string{"Fri 30 May", "Sat 31 May", "Sun 1 Jun"}, keys(buckets))
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-16T04:00:00Z", time.Date(2025, 3, 16, 4, 0, 0, 0, time.UTC)},
		{"2025-03-16T05:00:00+01:00", time.Date(2025, 3, 16, 4, 0, 0, 0, time.UTC)},
		{"2025-03-16T05:00:00", time.Date(2025, 3, 16, 4, 0, 0, 0, time.UTC)},
		{"2025-03-16 05:00", time.Date(2025, 3, 16, 4, 0, 0, 0, time.UTC)},
		{"2025-03-14T01:30Z", time.Date(2025, 3, 14, 1, 30, 0, 0, time.UTC)},
		{"2025-03-14T01:30+01:00", time.Date(2025, 3, 14, 0, 30, 0, 0, time.UTC)},
		{"2025-03-14T01:30+0100", time.Date(2025, 3, 14, 0, 30, 0, 0, time.UTC)},
		{"2025-03-16T05:00:00.250", time.Date(2025, 3, 16, 4, 0, 0, 250e6, time.UTC)},
		// date-only values are UTC midnight whatever the display location
		{"2025-03-16", time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in, loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseTimestamp("16/03/2025", loc)
	assert.ErrorIs(t, err, ErrUnparseableSession)
}

func TestSelectUpcoming_MinutePrecisionRace(t *testing.T) {
	s := New(nil, time.UTC)
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	events := []EventRecord{
		{Round: "1", Sessions: map[string]string{PrimarySession: "2025-03-16T04:00Z"}},
		{Round: "2", Sessions: map[string]string{PrimarySession: "2025-03-23T07:00:00Z"}},
	}

	got, err := s.SelectUpcoming(events, now)
	require.NoError(t, err)
	assert.Equal(t, "1", got.Round)
}

func TestEventsFromFeed(t *testing.T) {
	f := &feed.ScheduleFeed{Races: []feed.Race{{
		Round:     "4",
		Name:      "Bahrain",
		CircuitID: "bahrain",
		Sessions:  map[string]string{"race": "2025-04-13T15:00:00Z"},
	}}}

	events := EventsFromFeed(f)
	require.Len(t, events, 1)
	assert.Equal(t, "4", events[0].Round)
	assert.Equal(t, "bahrain", events[0].CircuitID)

	f.Races[0].Sessions["race"] = "changed"
	assert.Equal(t, "2025-04-13T15:00:00Z", events[0].Sessions["race"])
	assert.Nil(t, EventsFromFeed(nil))
}

func keys(buckets []DayBucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Key
	}
	return out
}
