package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	coacherrors "coachly/internal/coaches/errors"
	"coachly/pkg/config"
	apperrors "coachly/pkg/errors"
	"coachly/pkg/logger"
	"coachly/pkg/model"
)

type mockCoachDirectory struct {
	findByIDFunc func(ctx context.Context, id string) (*model.CoachProfile, error)
}

func (m *mockCoachDirectory) FindByID(ctx context.Context, id string) (*model.CoachProfile, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, coacherrors.ErrNotFound
}

type mockSessionStore struct {
	findFunc func(ctx context.Context, coachID string, from, to time.Time, limit int) ([]*model.CoachingSession, error)
}

func (m *mockSessionStore) FindActiveByCoachAndRange(ctx context.Context, coachID string, from, to time.Time, limit int) ([]*model.CoachingSession, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, coachID, from, to, limit)
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:         5 * time.Second,
		SlotDurationMin:     30,
		SlotBufferMin:       15,
		SessionFetchLimit:   500,
		SessionFetchPadding: 24 * time.Hour,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestComputeForCoach_UnknownCoachYieldsEmptySlots(t *testing.T) {
	svc := NewAvailabilityService(
		&mockCoachDirectory{},
		&mockSessionStore{},
		testConfig(),
	)

	slots, err := svc.ComputeForCoach(context.Background(), "missing-coach", date(2026, time.January, 5), date(2026, time.January, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slots == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(slots) != 0 {
		t.Fatalf("expected 0 slots, got %d", len(slots))
	}
}

func TestComputeForCoach_HappyPath(t *testing.T) {
	// 2026-01-05 is a Monday.
	coaches := &mockCoachDirectory{
		findByIDFunc: func(ctx context.Context, id string) (*model.CoachProfile, error) {
			return &model.CoachProfile{
				ID:          id,
				DisplayName: "Test Coach",
				TimeZone:    "UTC",
				Availability: []model.WeeklyAvailability{
					{Day: model.DayMon, StartTime: "09:00", EndTime: "10:00"},
				},
			}, nil
		},
	}
	sessions := &mockSessionStore{
		findFunc: func(ctx context.Context, coachID string, from, to time.Time, limit int) ([]*model.CoachingSession, error) {
			return nil, nil
		},
	}

	svc := NewAvailabilityService(coaches, sessions, testConfig())

	slots, err := svc.ComputeForCoach(context.Background(), "coach-1", date(2026, time.January, 5), date(2026, time.January, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
}

func TestComputeForCoach_SessionFetchWindowPadded(t *testing.T) {
	var capturedFrom, capturedTo time.Time
	var capturedLimit int

	coaches := &mockCoachDirectory{
		findByIDFunc: func(ctx context.Context, id string) (*model.CoachProfile, error) {
			return &model.CoachProfile{ID: id, DisplayName: "Test Coach"}, nil
		},
	}
	sessions := &mockSessionStore{
		findFunc: func(ctx context.Context, coachID string, from, to time.Time, limit int) ([]*model.CoachingSession, error) {
			capturedFrom = from
			capturedTo = to
			capturedLimit = limit
			return nil, nil
		},
	}

	svc := NewAvailabilityService(coaches, sessions, testConfig())

	from := date(2026, time.January, 5)
	to := date(2026, time.January, 7)
	if _, err := svc.ComputeForCoach(context.Background(), "coach-1", from, to); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !capturedFrom.Equal(from) {
		t.Errorf("expected fetch from %v, got %v", from, capturedFrom)
	}
	if !capturedTo.Equal(to.Add(24 * time.Hour)) {
		t.Errorf("expected fetch to %v, got %v", to.Add(24*time.Hour), capturedTo)
	}
	if capturedLimit != 500 {
		t.Errorf("expected fetch limit 500, got %d", capturedLimit)
	}
}

func TestComputeForCoach_InvalidTimezoneIsValidationError(t *testing.T) {
	coaches := &mockCoachDirectory{
		findByIDFunc: func(ctx context.Context, id string) (*model.CoachProfile, error) {
			return &model.CoachProfile{
				ID:          id,
				DisplayName: "Test Coach",
				TimeZone:    "Mars/Olympus_Mons",
				Availability: []model.WeeklyAvailability{
					{Day: model.DayMon, StartTime: "09:00", EndTime: "10:00"},
				},
			}, nil
		},
	}

	svc := NewAvailabilityService(coaches, &mockSessionStore{}, testConfig())

	_, err := svc.ComputeForCoach(context.Background(), "coach-1", date(2026, time.January, 5), date(2026, time.January, 5))
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestComputeForCoach_InputValidation(t *testing.T) {
	svc := NewAvailabilityService(&mockCoachDirectory{}, &mockSessionStore{}, testConfig())

	_, err := svc.ComputeForCoach(context.Background(), "", date(2026, time.January, 5), date(2026, time.January, 5))
	assertInvalidInput(t, err)

	_, err = svc.ComputeForCoach(context.Background(), "coach-1", date(2026, time.January, 6), date(2026, time.January, 5))
	assertInvalidInput(t, err)
}

func TestComputeForCoach_SessionFetchFailure(t *testing.T) {
	coaches := &mockCoachDirectory{
		findByIDFunc: func(ctx context.Context, id string) (*model.CoachProfile, error) {
			return &model.CoachProfile{ID: id, DisplayName: "Test Coach"}, nil
		},
	}
	sessions := &mockSessionStore{
		findFunc: func(ctx context.Context, coachID string, from, to time.Time, limit int) ([]*model.CoachingSession, error) {
			return nil, fmt.Errorf("connection reset")
		},
	}

	svc := NewAvailabilityService(coaches, sessions, testConfig())

	_, err := svc.ComputeForCoach(context.Background(), "coach-1", date(2026, time.January, 5), date(2026, time.January, 5))
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.CodeInternal {
		t.Fatalf("expected code %s, got %s", apperrors.CodeInternal, appErr.Code)
	}
}

func assertInvalidInput(t *testing.T, err error) {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}
