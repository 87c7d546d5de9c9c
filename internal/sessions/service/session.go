package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"coachly/internal/availability/engine"
	sessionerrors "coachly/internal/sessions/errors"
	"coachly/internal/sessions/events"
	"coachly/internal/sessions/repository"
	"coachly/internal/sessions/validator"
	"coachly/pkg/config"
	apperrors "coachly/pkg/errors"
	"coachly/pkg/model"
	"coachly/pkg/sanitizer"
)

type SessionService interface {
	Create(ctx context.Context, session *model.CoachingSession) (*model.CoachingSession, error)
	GetByID(ctx context.Context, id string) (*model.CoachingSession, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.CoachingSession, int64, error)
	Update(ctx context.Context, id string, update *model.CoachingSessionUpdate) (*model.CoachingSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionService struct {
	repo      repository.SessionRepository
	validator *validator.SessionValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewSessionService(
	repo repository.SessionRepository,
	v *validator.SessionValidator,
	publisher events.Publisher,
	cfg *config.Config,
) SessionService {
	return &sessionService{
		repo:      repo,
		validator: v,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *sessionService) Create(ctx context.Context, session *model.CoachingSession) (*model.CoachingSession, error) {
	s.sanitize(session)
	s.applyDefaults(session)

	if err := s.validate(session); err != nil {
		return nil, err
	}

	// The overlap check and the insert run inside one transaction so two
	// concurrent bookings cannot both pass the check.
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoTimeConflict(sessCtx, session); err != nil {
			return err
		}
		return s.repo.Create(sessCtx, session)
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to create coaching session",
			"coach_id", session.CoachID,
			"scheduled_at", session.ScheduledAt,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create coaching session", err)
	}

	s.cfg.Log.Info("Coaching session created",
		"session_id", session.ID,
		"coach_id", session.CoachID,
		"scheduled_at", session.ScheduledAt,
	)

	// Event publication is best-effort. A booked session stands even when
	// the event bus is down.
	if err := s.publisher.SessionCreated(ctx, session); err != nil {
		s.cfg.Log.Warn("Failed to publish session.created event",
			"session_id", session.ID,
			"error", err,
		)
	}

	return session, nil
}

func (s *sessionService) GetByID(ctx context.Context, id string) (*model.CoachingSession, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Session ID cannot be empty")
	}

	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return session, nil
}

func (s *sessionService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.CoachingSession, int64, error) {
	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var (
		sessions   []*model.CoachingSession
		totalCount int64
		errFind    error
		errCount   error
		wg         sync.WaitGroup
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		sessions, errFind = s.repo.FindAll(sharedCtx, limit, offset)
	}()

	go func() {
		defer wg.Done()
		totalCount, errCount = s.repo.Count(sharedCtx)
	}()

	wg.Wait()

	if errFind != nil {
		s.cfg.Log.Error("Failed to fetch coaching sessions", "error", errFind)
		return nil, 0, apperrors.Internal("Failed to fetch coaching sessions", errFind)
	}
	if errCount != nil {
		s.cfg.Log.Error("Failed to count coaching sessions", "error", errCount)
		return nil, 0, apperrors.Internal("Failed to count coaching sessions", errCount)
	}

	if sessions == nil {
		sessions = []*model.CoachingSession{}
	}
	return sessions, totalCount, nil
}

func (s *sessionService) Update(ctx context.Context, id string, update *model.CoachingSessionUpdate) (*model.CoachingSession, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Session ID cannot be empty")
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Coaching session validation failed", map[string]any{"errors": err.Error()})
	}

	var (
		updated      *model.CoachingSession
		wasCancelled bool
	)
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return err
		}

		merged := mergeUpdate(existing, update)
		s.sanitize(merged)
		if err := s.validate(merged); err != nil {
			return err
		}

		timeChanged := !merged.ScheduledAt.Equal(existing.ScheduledAt) || merged.DurationMin != existing.DurationMin
		if timeChanged && merged.Status != model.SessionStatusCancelled {
			if err := s.verifyNoTimeConflict(sessCtx, merged); err != nil {
				return err
			}
		}

		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return err
		}

		wasCancelled = existing.Status != model.SessionStatusCancelled &&
			merged.Status == model.SessionStatusCancelled
		updated = merged
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		if errors.Is(err, sessionerrors.ErrNotFound) || errors.Is(err, sessionerrors.ErrInvalidID) {
			return nil, s.mapLookupError(err, id)
		}
		s.cfg.Log.Error("Failed to update coaching session", "session_id", id, "error", err)
		return nil, apperrors.Internal("Failed to update coaching session", err)
	}

	s.cfg.Log.Info("Coaching session updated", "session_id", id, "status", updated.Status)

	if wasCancelled {
		if err := s.publisher.SessionCancelled(ctx, updated); err != nil {
			s.cfg.Log.Warn("Failed to publish session.cancelled event",
				"session_id", id,
				"error", err,
			)
		}
	}

	return updated, nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Session ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sessionerrors.ErrNotFound) || errors.Is(err, sessionerrors.ErrInvalidID) {
			return s.mapLookupError(err, id)
		}
		s.cfg.Log.Error("Failed to delete coaching session", "session_id", id, "error", err)
		return apperrors.Internal("Failed to delete coaching session", err)
	}

	s.cfg.Log.Info("Coaching session deleted", "session_id", id)
	return nil
}

// --- Helpers ---

func (s *sessionService) sanitize(session *model.CoachingSession) {
	session.SessionTitle = sanitizer.TrimAndNormalize(session.SessionTitle)
	session.BookerName = sanitizer.NormalizeName(session.BookerName)
	session.BookerEmail = sanitizer.TrimAndNormalize(session.BookerEmail)
	session.TimeZone = sanitizer.TrimAndNormalize(session.TimeZone)
	session.Notes = sanitizer.TrimAndNormalize(session.Notes)
}

func (s *sessionService) applyDefaults(session *model.CoachingSession) {
	if session.DurationMin == 0 {
		session.DurationMin = s.cfg.DefaultSessionDurationMin
	}
	if session.Status == "" {
		session.Status = model.SessionStatusPending
	}
	if session.BookedAt.IsZero() {
		session.BookedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
}

func (s *sessionService) validate(session *model.CoachingSession) error {
	if err := s.validator.Validate(session); err != nil {
		s.cfg.Log.Warn("Coaching session validation failed", "error", err)
		return apperrors.Validation("Coaching session validation failed", map[string]any{"errors": err.Error()})
	}
	return nil
}

// verifyNoTimeConflict rejects a session whose buffered interval overlaps
// any active session of the same coach. The fetch window is padded so
// sessions that started earlier but extend into the new interval are seen.
func (s *sessionService) verifyNoTimeConflict(ctx context.Context, session *model.CoachingSession) error {
	buffer := time.Duration(s.cfg.SlotBufferMin) * time.Minute

	windowStart := session.ScheduledAt.Add(-s.cfg.SessionFetchPadding)
	windowEnd := session.OccupiedUntil().Add(buffer)

	existing, err := s.repo.FindActiveByCoachAndRange(ctx, session.CoachID, windowStart, windowEnd, s.cfg.SessionFetchLimit)
	if err != nil {
		return apperrors.Internal("Failed to check existing sessions", err)
	}

	candidate := engine.Interval{
		Start: session.ScheduledAt.Add(-buffer),
		End:   session.OccupiedUntil().Add(buffer),
	}

	for _, other := range existing {
		if other.ID == session.ID {
			continue
		}
		occupied := engine.Interval{Start: other.ScheduledAt, End: other.OccupiedUntil()}
		if candidate.Overlaps(occupied) {
			return apperrors.Conflict(fmt.Sprintf(
				"Session time conflicts with an existing session (%s - %s)",
				other.ScheduledAt.Format(time.RFC3339),
				other.OccupiedUntil().Format(time.RFC3339),
			)).WithDetails(map[string]any{
				"conflicting_session_id": other.ID,
			})
		}
	}
	return nil
}

func (s *sessionService) mapLookupError(err error, id string) error {
	if errors.Is(err, sessionerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Coaching session", id)
	}
	if errors.Is(err, sessionerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid session ID format")
	}
	s.cfg.Log.Error("Failed to fetch coaching session", "session_id", id, "error", err)
	return apperrors.Internal("Failed to fetch coaching session", err)
}

func mergeUpdate(existing *model.CoachingSession, update *model.CoachingSessionUpdate) *model.CoachingSession {
	merged := *existing

	if update.SessionTitle != "" {
		merged.SessionTitle = update.SessionTitle
	}
	if update.ScheduledAt != nil {
		merged.ScheduledAt = *update.ScheduledAt
	}
	if update.DurationMin != nil {
		merged.DurationMin = *update.DurationMin
	}
	if update.Status != "" {
		merged.Status = update.Status
	}
	if update.SessionType != "" {
		merged.SessionType = update.SessionType
	}
	if update.Notes != nil {
		merged.Notes = *update.Notes
	}

	return &merged
}
