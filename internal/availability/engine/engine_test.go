package engine

import (
	"errors"
	"testing"
	"time"

	"coachly/pkg/model"
)

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// 2026-01-05 is a Monday.
var (
	monday = utc(2026, time.January, 5, 0, 0)
)

func mondayProfile(tz string) *model.CoachProfile {
	return &model.CoachProfile{
		ID:          "coach-1",
		DisplayName: "Test Coach",
		TimeZone:    tz,
		Availability: []model.WeeklyAvailability{
			{Day: model.DayMon, StartTime: "09:00", EndTime: "10:00"},
		},
	}
}

func session(start time.Time, durationMin int, status string) *model.CoachingSession {
	return &model.CoachingSession{
		ID:          "session-1",
		CoachID:     "coach-1",
		ScheduledAt: start,
		DurationMin: durationMin,
		Status:      status,
	}
}

func TestCompute_SingleWindowTwoSlots(t *testing.T) {
	slots, err := Compute(mondayProfile("UTC"), monday, monday, nil, Options{
		SlotDuration: 30 * time.Minute,
		Buffer:       15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.Slot{
		{Start: utc(2026, time.January, 5, 9, 0), End: utc(2026, time.January, 5, 9, 30)},
		{Start: utc(2026, time.January, 5, 9, 30), End: utc(2026, time.January, 5, 10, 0)},
	}
	assertSlots(t, slots, want)
}

func TestCompute_BufferedSessionBlocksAdjacentSlot(t *testing.T) {
	// A 30-minute session at 09:00 with a 15-minute buffer occupies
	// [08:45, 09:45), so the 09:30 slot is blocked too.
	booked := []*model.CoachingSession{
		session(utc(2026, time.January, 5, 9, 0), 30, model.SessionStatusConfirmed),
	}

	slots, err := Compute(mondayProfile("UTC"), monday, monday, booked, Options{
		SlotDuration: 30 * time.Minute,
		Buffer:       15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d: %v", len(slots), slots)
	}
}

func TestCompute_ZeroBufferFreesAdjacentSlot(t *testing.T) {
	booked := []*model.CoachingSession{
		session(utc(2026, time.January, 5, 9, 0), 30, model.SessionStatusConfirmed),
	}

	slots, err := Compute(mondayProfile("UTC"), monday, monday, booked, Options{
		SlotDuration: 30 * time.Minute,
		Buffer:       0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.Slot{
		{Start: utc(2026, time.January, 5, 9, 30), End: utc(2026, time.January, 5, 10, 0)},
	}
	assertSlots(t, slots, want)
}

func TestCompute_CancelledSessionsNeverBlock(t *testing.T) {
	booked := []*model.CoachingSession{
		session(utc(2026, time.January, 5, 9, 0), 30, model.SessionStatusCancelled),
	}

	slots, err := Compute(mondayProfile("UTC"), monday, monday, booked, Options{
		SlotDuration: 30 * time.Minute,
		Buffer:       15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
}

func TestCompute_NoRulesYieldsNoSlots(t *testing.T) {
	profile := &model.CoachProfile{ID: "coach-1", DisplayName: "Test Coach", TimeZone: "UTC"}

	slots, err := Compute(profile, monday, monday, nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}

	slots, err = Compute(nil, monday, monday, nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error for nil profile: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots for nil profile, got %d", len(slots))
	}
}

func TestCompute_MalformedRulesContributeNothing(t *testing.T) {
	tests := []struct {
		name string
		rule model.WeeklyAvailability
	}{
		{"garbage start time", model.WeeklyAvailability{Day: model.DayMon, StartTime: "not-a-time", EndTime: "10:00"}},
		{"garbage end time", model.WeeklyAvailability{Day: model.DayMon, StartTime: "09:00", EndTime: "25:99"}},
		{"inverted window", model.WeeklyAvailability{Day: model.DayMon, StartTime: "17:00", EndTime: "09:00"}},
		{"zero-length window", model.WeeklyAvailability{Day: model.DayMon, StartTime: "09:00", EndTime: "09:00"}},
		{"unknown day code", model.WeeklyAvailability{Day: "monday", StartTime: "09:00", EndTime: "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &model.CoachProfile{
				ID:           "coach-1",
				DisplayName:  "Test Coach",
				TimeZone:     "UTC",
				Availability: []model.WeeklyAvailability{tt.rule},
			}

			slots, err := Compute(profile, monday, monday, nil, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(slots) != 0 {
				t.Fatalf("expected no slots, got %d: %v", len(slots), slots)
			}
		})
	}
}

func TestCompute_InvalidTimezone(t *testing.T) {
	_, err := Compute(mondayProfile("Not/AZone"), monday, monday, nil, Options{})
	if !errors.Is(err, ErrInvalidTimeZone) {
		t.Fatalf("expected ErrInvalidTimeZone, got %v", err)
	}
}

func TestCompute_EmptyTimezoneDefaultsToUTC(t *testing.T) {
	slots, err := Compute(mondayProfile(""), monday, monday, nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected slots with empty timezone treated as UTC")
	}
	if !slots[0].Start.Equal(utc(2026, time.January, 5, 9, 0)) {
		t.Fatalf("expected first slot at 09:00 UTC, got %v", slots[0].Start)
	}
}

func TestCompute_InvertedDateRange(t *testing.T) {
	_, err := Compute(mondayProfile("UTC"), monday.AddDate(0, 0, 1), monday, nil, Options{})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestCompute_TimezoneOffsetApplied(t *testing.T) {
	// 09:00 in New York on 2026-01-05 (EST, UTC-5) is 14:00 UTC.
	slots, err := Compute(mondayProfile("America/New_York"), monday, monday, nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(utc(2026, time.January, 5, 14, 0)) {
		t.Fatalf("expected first slot at 14:00 UTC, got %v", slots[0].Start)
	}
}

func TestCompute_DSTTransitionKeepsSlotDuration(t *testing.T) {
	// US spring-forward: 2026-03-08. The 02:00-03:00 local hour does not
	// exist; windows elsewhere in the day must still produce fixed-length
	// slots.
	profile := &model.CoachProfile{
		ID:          "coach-1",
		DisplayName: "Test Coach",
		TimeZone:    "America/New_York",
		Availability: []model.WeeklyAvailability{
			{Day: model.DaySun, StartTime: "09:00", EndTime: "11:00"},
		},
	}
	day := utc(2026, time.March, 8, 0, 0)

	slots, err := Compute(profile, day, day, nil, Options{SlotDuration: 30 * time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected slots on DST transition day")
	}
	for _, s := range slots {
		if got := s.End.Sub(s.Start); got != 30*time.Minute {
			t.Errorf("slot %v has duration %v, want 30m", s.Start, got)
		}
	}
}

func TestCompute_PartialTrailingSlotDropped(t *testing.T) {
	profile := &model.CoachProfile{
		ID:          "coach-1",
		DisplayName: "Test Coach",
		TimeZone:    "UTC",
		Availability: []model.WeeklyAvailability{
			{Day: model.DayMon, StartTime: "09:00", EndTime: "09:45"},
		},
	}

	slots, err := Compute(profile, monday, monday, nil, Options{SlotDuration: 30 * time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []model.Slot{
		{Start: utc(2026, time.January, 5, 9, 0), End: utc(2026, time.January, 5, 9, 30)},
	}
	assertSlots(t, slots, want)
}

func TestCompute_MultiDayRangeSortedAscending(t *testing.T) {
	profile := &model.CoachProfile{
		ID:          "coach-1",
		DisplayName: "Test Coach",
		TimeZone:    "UTC",
		Availability: []model.WeeklyAvailability{
			{Day: model.DayTue, StartTime: "09:00", EndTime: "10:00"},
			{Day: model.DayMon, StartTime: "14:00", EndTime: "15:00"},
		},
	}

	slots, err := Compute(profile, monday, monday.AddDate(0, 0, 1), nil, Options{SlotDuration: 30 * time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Start.Before(slots[i-1].Start) {
			t.Fatalf("slots out of order at index %d: %v after %v", i, slots[i].Start, slots[i-1].Start)
		}
	}
}

func TestCompute_OverlappingRulesDeduplicated(t *testing.T) {
	profile := &model.CoachProfile{
		ID:          "coach-1",
		DisplayName: "Test Coach",
		TimeZone:    "UTC",
		Availability: []model.WeeklyAvailability{
			{Day: model.DayMon, StartTime: "09:00", EndTime: "10:00"},
			{Day: model.DayMon, StartTime: "09:00", EndTime: "10:30"},
		},
	}

	slots, err := Compute(profile, monday, monday, nil, Options{SlotDuration: 30 * time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[time.Time]bool{}
	for _, s := range slots {
		if seen[s.Start] {
			t.Fatalf("duplicate slot start %v", s.Start)
		}
		seen[s.Start] = true
	}
	if len(slots) != 3 {
		t.Fatalf("expected 3 distinct slots, got %d", len(slots))
	}
}

func TestCompute_Idempotent(t *testing.T) {
	booked := []*model.CoachingSession{
		session(utc(2026, time.January, 5, 9, 0), 30, model.SessionStatusConfirmed),
	}
	profile := mondayProfile("America/New_York")

	first, err := Compute(profile, monday, monday.AddDate(0, 0, 6), booked, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compute(profile, monday, monday.AddDate(0, 0, 6), booked, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSlots(t, second, first)
}

func TestBusyIntervals_SkipsCancelledAndNil(t *testing.T) {
	sessions := []*model.CoachingSession{
		nil,
		session(utc(2026, time.January, 5, 9, 0), 30, model.SessionStatusCancelled),
		session(utc(2026, time.January, 5, 11, 0), 60, model.SessionStatusPending),
	}

	busy := BusyIntervals(sessions, 15*time.Minute)
	if len(busy) != 1 {
		t.Fatalf("expected 1 busy interval, got %d", len(busy))
	}
	if !busy[0].Start.Equal(utc(2026, time.January, 5, 10, 45)) {
		t.Errorf("expected buffered start 10:45, got %v", busy[0].Start)
	}
	if !busy[0].End.Equal(utc(2026, time.January, 5, 12, 15)) {
		t.Errorf("expected buffered end 12:15, got %v", busy[0].End)
	}
}

func TestInterval_Overlaps(t *testing.T) {
	base := Interval{Start: utc(2026, time.January, 5, 9, 0), End: utc(2026, time.January, 5, 10, 0)}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", base, true},
		{"contained", Interval{utc(2026, time.January, 5, 9, 15), utc(2026, time.January, 5, 9, 45)}, true},
		{"partial overlap", Interval{utc(2026, time.January, 5, 9, 30), utc(2026, time.January, 5, 10, 30)}, true},
		{"touching end", Interval{utc(2026, time.January, 5, 10, 0), utc(2026, time.January, 5, 11, 0)}, false},
		{"touching start", Interval{utc(2026, time.January, 5, 8, 0), utc(2026, time.January, 5, 9, 0)}, false},
		{"disjoint", Interval{utc(2026, time.January, 5, 12, 0), utc(2026, time.January, 5, 13, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func assertSlots(t *testing.T, got, want []model.Slot) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Errorf("slot %d: got [%v, %v), want [%v, %v)", i, got[i].Start, got[i].End, want[i].Start, want[i].End)
		}
	}
}
