package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/bassista/paddock/internal/logger"
)

// LabelResolver maps a session kind to its display label.
type LabelResolver interface {
	SessionLabel(kind string) string
}

// SessionView is one session ready for display.
type SessionView struct {
	Kind        string    `json:"kind"`
	Label       string    `json:"label"`
	Day         string    `json:"day"`
	Timestamp   time.Time `json:"timestamp"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	FullDayDate string    `json:"fullDayDate"`
	IsPast      bool      `json:"isPast"`
}

// DayBucket groups sessions that share a bucket key.
type DayBucket struct {
	Key      string        `json:"key"`
	Sessions []SessionView `json:"sessions"`
}

// Display formats (en-GB style).
const (
	DayLayout         = "Mon"
	DateLayout        = "2 Jan"
	TimeLayout        = "03:04 pm"
	FullDayDateLayout = "Mon 2 Jan"
)

// weekOrder is the fixed Mon..Sun display order of weekday buckets.
var weekOrder = map[string]int{"Mon": 0, "Tue": 1, "Wed": 2, "Thu": 3, "Fri": 4, "Sat": 5, "Sun": 6}

// kindOrder breaks timestamp ties between sessions deterministically.
var kindOrder = map[string]int{"fp1": 0, "fp2": 1, "fp3": 2, "sprintQualifying": 3, "sprint": 4, "qualifying": 5, "race": 6}

// Scheduler selects and orders race weekend sessions in a display location.
type Scheduler struct {
	labels LabelResolver
	loc    *time.Location
}

// New returns a Scheduler. A nil labels resolver upper-cases session kinds; a nil loc means time.Local.
func New(labels LabelResolver, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{labels: labels, loc: loc}
}

// SelectUpcoming returns the event whose primary session is the soonest strictly after now.
// Ties keep the first event in input order. Events without a readable primary session are skipped.
func (s *Scheduler) SelectUpcoming(events []EventRecord, now time.Time) (*EventRecord, error) {
	var (
		best     *EventRecord
		bestTime time.Time
	)
	for i := range events {
		t, err := events[i].SessionTime(PrimarySession, s.loc)
		if err != nil {
			logger.WithComponent("sched").Debugf("event %s skipped: %v", events[i].Round, err)
			continue
		}
		if !t.After(now) {
			continue
		}
		if best == nil || t.Before(bestTime) {
			best = &events[i]
			bestTime = t
		}
	}
	if best == nil {
		return nil, ErrNoUpcomingEvent
	}
	return best, nil
}

// GroupAndOrder buckets the event's sessions by weekday, orders buckets Mon..Sun and sessions
// by time within each bucket. Buckets are keyed by weekday name only: sessions more than a week
// apart that fall on the same weekday end up in one bucket.
func (s *Scheduler) GroupAndOrder(event EventRecord, now time.Time) []DayBucket {
	buckets := s.bucket(s.sessions(event, now), func(v SessionView) string { return v.Day })
	sort.SliceStable(buckets, func(i, j int) bool {
		return weekOrder[buckets[i].Key] < weekOrder[buckets[j].Key]
	})
	return buckets
}

// GroupByDate buckets sessions by calendar date in chronological order. Bucket keys are
// formatted with FullDayDateLayout.
func (s *Scheduler) GroupByDate(event EventRecord, now time.Time) []DayBucket {
	buckets := s.bucket(s.sessions(event, now), func(v SessionView) string { return v.FullDayDate })
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Sessions[0].Timestamp.Before(buckets[j].Sessions[0].Timestamp)
	})
	return buckets
}

// Sessions returns every readable session of event in chronological order.
func (s *Scheduler) Sessions(event EventRecord, now time.Time) []SessionView {
	return s.sessions(event, now)
}

func (s *Scheduler) sessions(event EventRecord, now time.Time) []SessionView {
	views := make([]SessionView, 0, len(event.Sessions))
	for kind := range event.Sessions {
		ts, err := event.SessionTime(kind, s.loc)
		if err != nil {
			logger.WithComponent("sched").Warnf("round %s: skipping session %s: %v", event.Round, kind, err)
			continue
		}
		local := ts.In(s.loc)
		views = append(views, SessionView{
			Kind:        kind,
			Label:       s.label(kind),
			Day:         local.Format(DayLayout),
			Timestamp:   ts,
			Date:        local.Format(DateLayout),
			Time:        local.Format(TimeLayout),
			FullDayDate: local.Format(FullDayDateLayout),
			IsPast:      ts.Before(now),
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].Timestamp.Equal(views[j].Timestamp) {
			return views[i].Timestamp.Before(views[j].Timestamp)
		}
		return kindRank(views[i].Kind) < kindRank(views[j].Kind) ||
			(kindRank(views[i].Kind) == kindRank(views[j].Kind) && views[i].Kind < views[j].Kind)
	})
	return views
}

// bucket groups already time-ordered views, so sessions stay ordered inside each bucket.
func (s *Scheduler) bucket(views []SessionView, key func(SessionView) string) []DayBucket {
	index := map[string]int{}
	var buckets []DayBucket
	for _, v := range views {
		k := key(v)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, DayBucket{Key: k})
		}
		buckets[i].Sessions = append(buckets[i].Sessions, v)
	}
	return buckets
}

func (s *Scheduler) label(kind string) string {
	if s.labels == nil {
		return strings.ToUpper(kind)
	}
	return s.labels.SessionLabel(kind)
}

func kindRank(kind string) int {
	if r, ok := kindOrder[kind]; ok {
		return r
	}
	return len(kindOrder)
}
