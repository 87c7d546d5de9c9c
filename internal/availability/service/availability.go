package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"coachly/internal/availability/engine"
	coacherrors "coachly/internal/coaches/errors"
	"coachly/pkg/config"
	apperrors "coachly/pkg/errors"
	"coachly/pkg/model"
)

// CoachDirectory supplies coach records. Satisfied by the coaches
// repository.
type CoachDirectory interface {
	FindByID(ctx context.Context, id string) (*model.CoachProfile, error)
}

// SessionStore supplies booked sessions that occupy a coach's time.
// Satisfied by the sessions repository; implementations must exclude
// cancelled sessions.
type SessionStore interface {
	FindActiveByCoachAndRange(ctx context.Context, coachID string, from, to time.Time, limit int) ([]*model.CoachingSession, error)
}

type AvailabilityService interface {
	ComputeForCoach(ctx context.Context, coachID string, from, to time.Time) ([]model.Slot, error)
}

type availabilityService struct {
	coaches  CoachDirectory
	sessions SessionStore
	cfg      *config.Config
}

func NewAvailabilityService(coaches CoachDirectory, sessions SessionStore, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		coaches:  coaches,
		sessions: sessions,
		cfg:      cfg,
	}
}

// ComputeForCoach fetches the coach profile and booked sessions, then runs
// the slot computation. The two fetches are independent reads and run
// concurrently under a shared timeout.
func (s *availabilityService) ComputeForCoach(ctx context.Context, coachID string, from, to time.Time) ([]model.Slot, error) {
	if coachID == "" {
		return nil, apperrors.InvalidInput("Coach ID cannot be empty")
	}
	if from.After(to) {
		return nil, apperrors.InvalidInput("from date must not be after to date")
	}

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	rangeStart := from
	rangeEnd := to.Add(s.cfg.SessionFetchPadding)

	var (
		profile     *model.CoachProfile
		sessions    []*model.CoachingSession
		errCoach    error
		errSessions error
		wg          sync.WaitGroup
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		profile, errCoach = s.coaches.FindByID(sharedCtx, coachID)
	}()

	go func() {
		defer wg.Done()
		sessions, errSessions = s.sessions.FindActiveByCoachAndRange(sharedCtx, coachID, rangeStart, rangeEnd, s.cfg.SessionFetchLimit)
	}()

	wg.Wait()

	if errCoach != nil {
		// A coach without a profile simply has no availability.
		if errors.Is(errCoach, coacherrors.ErrNotFound) {
			return []model.Slot{}, nil
		}
		if errors.Is(errCoach, coacherrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid coach ID format")
		}
		s.cfg.Log.Error("Failed to fetch coach profile",
			"coach_id", coachID,
			"error", errCoach,
		)
		return nil, apperrors.Internal("Failed to fetch coach profile", errCoach)
	}
	if errSessions != nil {
		s.cfg.Log.Error("Failed to fetch booked sessions",
			"coach_id", coachID,
			"error", errSessions,
		)
		return nil, apperrors.Internal("Failed to fetch booked sessions", errSessions)
	}

	slots, err := engine.Compute(profile, from, to, sessions, engine.Options{
		SlotDuration: time.Duration(s.cfg.SlotDurationMin) * time.Minute,
		Buffer:       time.Duration(s.cfg.SlotBufferMin) * time.Minute,
	})
	if err != nil {
		if errors.Is(err, engine.ErrInvalidTimeZone) {
			return nil, apperrors.Validation("Coach profile has an invalid timezone", map[string]any{
				"coach_id": coachID,
				"timezone": profile.TimeZone,
			})
		}
		if errors.Is(err, engine.ErrInvalidDateRange) {
			return nil, apperrors.InvalidInput("from date must not be after to date")
		}
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	s.cfg.Log.Debug("Availability computed",
		"coach_id", coachID,
		"from", from.Format(time.DateOnly),
		"to", to.Format(time.DateOnly),
		"booked_sessions", len(sessions),
		"slots", len(slots),
	)

	if slots == nil {
		slots = []model.Slot{}
	}
	return slots, nil
}
