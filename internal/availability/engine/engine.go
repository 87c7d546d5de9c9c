// Package engine computes bookable time slots for a coach from recurring
// weekly availability rules, a date range, and already-booked sessions.
//
// The computation is a pure function of its inputs: no I/O, no clock reads,
// no shared state. Callers may invoke it concurrently.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"coachly/pkg/model"
)

var (
	// ErrInvalidTimeZone reports a coach timezone that is not a loadable
	// IANA zone name.
	ErrInvalidTimeZone = errors.New("invalid coach timezone")

	// ErrInvalidDateRange reports a from date after the to date.
	ErrInvalidDateRange = errors.New("from date must not be after to date")
)

// Options control slot granularity and the protective gap around booked
// sessions.
type Options struct {
	SlotDuration time.Duration
	Buffer       time.Duration
}

func (o Options) withDefaults() Options {
	if o.SlotDuration <= 0 {
		o.SlotDuration = 30 * time.Minute
	}
	if o.Buffer < 0 {
		o.Buffer = 0
	}
	return o
}

// Interval is a half-open UTC interval [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// BusyIntervals converts sessions into buffered occupied intervals
// [scheduledAt-buffer, scheduledAt+duration+buffer). Cancelled sessions
// never occupy time.
func BusyIntervals(sessions []*model.CoachingSession, buffer time.Duration) []Interval {
	busy := make([]Interval, 0, len(sessions))
	for _, s := range sessions {
		if s == nil || s.Status == model.SessionStatusCancelled {
			continue
		}
		busy = append(busy, Interval{
			Start: s.ScheduledAt.Add(-buffer),
			End:   s.OccupiedUntil().Add(buffer),
		})
	}
	return busy
}

// Compute returns the bookable slots for the coach between the calendar
// dates of from and to, inclusive. Only the year, month, and day of the two
// bounds are significant; each day is interpreted in the coach's timezone.
//
// Rules with malformed times or inverted windows contribute nothing. The
// result is ordered by start time; slots with identical start instants
// (possible when same-day rules overlap) are collapsed.
func Compute(profile *model.CoachProfile, from, to time.Time, sessions []*model.CoachingSession, opts Options) ([]model.Slot, error) {
	opts = opts.withDefaults()

	fromDay := truncateToDay(from)
	toDay := truncateToDay(to)
	if fromDay.After(toDay) {
		return nil, ErrInvalidDateRange
	}

	if profile == nil || len(profile.Availability) == 0 {
		return nil, nil
	}

	loc := time.UTC
	if profile.TimeZone != "" {
		var err error
		loc, err = time.LoadLocation(profile.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTimeZone, profile.TimeZone)
		}
	}

	busy := BusyIntervals(sessions, opts.Buffer)

	var slots []model.Slot
	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
		y, m, d := day.Date()
		code := dayCode(time.Date(y, m, d, 0, 0, 0, 0, loc).Weekday())

		for _, rule := range profile.Availability {
			if rule.Day != code {
				continue
			}

			startH, startM, ok := parseTimeOfDay(rule.StartTime)
			if !ok {
				continue
			}
			endH, endM, ok := parseTimeOfDay(rule.EndTime)
			if !ok {
				continue
			}

			winStart := time.Date(y, m, d, startH, startM, 0, 0, loc).UTC()
			winEnd := time.Date(y, m, d, endH, endM, 0, 0, loc).UTC()
			if !winEnd.After(winStart) {
				// Inverted or zero-length windows contribute nothing.
				continue
			}

			slots = append(slots, windowSlots(winStart, winEnd, opts.SlotDuration, busy)...)
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	return dedupeByStart(slots), nil
}

// windowSlots generates candidate slots at SlotDuration steps from the
// window start. A slot must fit entirely inside the window, and must not
// intersect any busy interval.
func windowSlots(winStart, winEnd time.Time, duration time.Duration, busy []Interval) []model.Slot {
	var out []model.Slot
	for t := winStart; !t.Add(duration).After(winEnd); t = t.Add(duration) {
		candidate := Interval{Start: t, End: t.Add(duration)}
		if overlapsAny(candidate, busy) {
			continue
		}
		out = append(out, model.Slot{Start: candidate.Start, End: candidate.End})
	}
	return out
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

func dedupeByStart(slots []model.Slot) []model.Slot {
	if len(slots) < 2 {
		return slots
	}
	out := slots[:1]
	for _, s := range slots[1:] {
		if s.Start.Equal(out[len(out)-1].Start) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// parseTimeOfDay parses a HH:MM wall-clock value. A leading zero on the
// hour is optional.
func parseTimeOfDay(s string) (hour, minute int, ok bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayCode(w time.Weekday) string {
	switch w {
	case time.Monday:
		return model.DayMon
	case time.Tuesday:
		return model.DayTue
	case time.Wednesday:
		return model.DayWed
	case time.Thursday:
		return model.DayThu
	case time.Friday:
		return model.DayFri
	case time.Saturday:
		return model.DaySat
	default:
		return model.DaySun
	}
}
