package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	coacherrors "coachly/internal/coaches/errors"
	"coachly/internal/coaches/repository"
	"coachly/internal/coaches/validator"
	"coachly/pkg/config"
	apperrors "coachly/pkg/errors"
	"coachly/pkg/model"
	"coachly/pkg/sanitizer"
)

type CoachService interface {
	Create(ctx context.Context, coach *model.CoachProfile) (*model.CoachProfile, error)
	GetByID(ctx context.Context, id string) (*model.CoachProfile, error)
	GetBySlug(ctx context.Context, slug string) (*model.CoachProfile, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.CoachProfile, int64, error)
	Update(ctx context.Context, id string, update *model.CoachProfileUpdate) (*model.CoachProfile, error)
	Delete(ctx context.Context, id string) error
}

type coachService struct {
	repo      repository.CoachRepository
	validator *validator.CoachValidator
	cfg       *config.Config
}

func NewCoachService(repo repository.CoachRepository, v *validator.CoachValidator, cfg *config.Config) CoachService {
	return &coachService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *coachService) Create(ctx context.Context, coach *model.CoachProfile) (*model.CoachProfile, error) {
	s.sanitize(coach)
	s.applyDefaults(coach)

	if err := s.validator.Validate(coach); err != nil {
		return nil, apperrors.Validation("Coach profile validation failed", validationDetails(err))
	}

	// Slug uniqueness is checked and the insert performed inside one
	// transaction so two concurrent creates cannot claim the same slug.
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindBySlug(sessCtx, coach.Slug)
		if err != nil && !errors.Is(err, coacherrors.ErrNotFound) {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", coacherrors.ErrSlugTaken, coach.Slug)
		}
		return s.repo.Create(sessCtx, coach)
	})
	if err != nil {
		if errors.Is(err, coacherrors.ErrSlugTaken) {
			return nil, apperrors.Conflict(fmt.Sprintf("Slug %q is already in use", coach.Slug))
		}
		s.cfg.Log.Error("Failed to create coach profile",
			"display_name", coach.DisplayName,
			"slug", coach.Slug,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create coach profile", err)
	}

	s.cfg.Log.Info("Coach profile created",
		"coach_id", coach.ID,
		"slug", coach.Slug,
	)
	return coach, nil
}

func (s *coachService) GetByID(ctx context.Context, id string) (*model.CoachProfile, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Coach ID cannot be empty")
	}

	coach, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return coach, nil
}

func (s *coachService) GetBySlug(ctx context.Context, slug string) (*model.CoachProfile, error) {
	slug = sanitizer.TrimAndNormalize(slug)
	if slug == "" {
		return nil, apperrors.InvalidInput("Coach slug cannot be empty")
	}

	coach, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, coacherrors.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Coach profile with slug %q not found", slug))
		}
		s.cfg.Log.Error("Failed to fetch coach profile by slug", "slug", slug, "error", err)
		return nil, apperrors.Internal("Failed to fetch coach profile", err)
	}
	return coach, nil
}

// GetAll returns one page of coach profiles plus the total count. The count
// and the page query are independent reads and run concurrently.
func (s *coachService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.CoachProfile, int64, error) {
	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var (
		coaches    []*model.CoachProfile
		totalCount int64
		errFind    error
		errCount   error
		wg         sync.WaitGroup
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		coaches, errFind = s.repo.FindAll(sharedCtx, limit, offset)
	}()

	go func() {
		defer wg.Done()
		totalCount, errCount = s.repo.Count(sharedCtx)
	}()

	wg.Wait()

	if errFind != nil {
		s.cfg.Log.Error("Failed to fetch coach profiles", "error", errFind)
		return nil, 0, apperrors.Internal("Failed to fetch coach profiles", errFind)
	}
	if errCount != nil {
		s.cfg.Log.Error("Failed to count coach profiles", "error", errCount)
		return nil, 0, apperrors.Internal("Failed to count coach profiles", errCount)
	}

	if coaches == nil {
		coaches = []*model.CoachProfile{}
	}
	return coaches, totalCount, nil
}

func (s *coachService) Update(ctx context.Context, id string, update *model.CoachProfileUpdate) (*model.CoachProfile, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Coach ID cannot be empty")
	}

	var updated *model.CoachProfile
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return err
		}

		merged := mergeUpdate(existing, update)
		s.sanitize(merged)
		if merged.TimeZone == "" {
			merged.TimeZone = s.cfg.DefaultCoachTimeZone
		}

		if err := s.validator.Validate(merged); err != nil {
			return apperrors.Validation("Coach profile validation failed", validationDetails(err))
		}

		if merged.Slug != existing.Slug {
			other, err := s.repo.FindBySlug(sessCtx, merged.Slug)
			if err != nil && !errors.Is(err, coacherrors.ErrNotFound) {
				return err
			}
			if other != nil && other.ID != id {
				return fmt.Errorf("%w: %s", coacherrors.ErrSlugTaken, merged.Slug)
			}
		}

		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return err
		}
		updated = merged
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		if errors.Is(err, coacherrors.ErrSlugTaken) {
			return nil, apperrors.Conflict("Slug is already in use")
		}
		if errors.Is(err, coacherrors.ErrNotFound) || errors.Is(err, coacherrors.ErrInvalidID) {
			return nil, s.mapLookupError(err, id)
		}
		s.cfg.Log.Error("Failed to update coach profile", "coach_id", id, "error", err)
		return nil, apperrors.Internal("Failed to update coach profile", err)
	}

	s.cfg.Log.Info("Coach profile updated", "coach_id", id)
	return updated, nil
}

func (s *coachService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Coach ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, coacherrors.ErrNotFound) || errors.Is(err, coacherrors.ErrInvalidID) {
			return s.mapLookupError(err, id)
		}
		s.cfg.Log.Error("Failed to delete coach profile", "coach_id", id, "error", err)
		return apperrors.Internal("Failed to delete coach profile", err)
	}

	s.cfg.Log.Info("Coach profile deleted", "coach_id", id)
	return nil
}

func (s *coachService) sanitize(coach *model.CoachProfile) {
	coach.DisplayName = sanitizer.NormalizeName(coach.DisplayName)
	coach.Slug = sanitizer.TrimAndNormalize(coach.Slug)
	coach.Bio = sanitizer.TrimAndNormalize(coach.Bio)
	coach.TimeZone = sanitizer.TrimAndNormalize(coach.TimeZone)
	for i := range coach.Availability {
		coach.Availability[i].Day = sanitizer.TrimAndNormalize(coach.Availability[i].Day)
		coach.Availability[i].StartTime = sanitizer.TrimAndNormalize(coach.Availability[i].StartTime)
		coach.Availability[i].EndTime = sanitizer.TrimAndNormalize(coach.Availability[i].EndTime)
	}
}

func (s *coachService) applyDefaults(coach *model.CoachProfile) {
	if coach.Slug == "" {
		coach.Slug = sanitizer.Slugify(coach.DisplayName)
	} else {
		coach.Slug = sanitizer.Slugify(coach.Slug)
	}
	if coach.TimeZone == "" {
		coach.TimeZone = s.cfg.DefaultCoachTimeZone
	}
	coach.IsActive = true
}

func (s *coachService) mapLookupError(err error, id string) error {
	if errors.Is(err, coacherrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Coach profile", id)
	}
	if errors.Is(err, coacherrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid coach ID format")
	}
	s.cfg.Log.Error("Failed to fetch coach profile", "coach_id", id, "error", err)
	return apperrors.Internal("Failed to fetch coach profile", err)
}

func validationDetails(err error) map[string]any {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return map[string]any{"errors": verrs}
	}
	return map[string]any{"errors": err.Error()}
}

// mergeUpdate applies the non-nil fields of the update onto a copy of the
// existing profile. Pointer fields distinguish "leave alone" from "clear".
func mergeUpdate(existing *model.CoachProfile, update *model.CoachProfileUpdate) *model.CoachProfile {
	merged := *existing

	if update.DisplayName != "" {
		merged.DisplayName = update.DisplayName
	}
	if update.Slug != "" {
		merged.Slug = sanitizer.Slugify(update.Slug)
	}
	if update.Bio != nil {
		merged.Bio = *update.Bio
	}
	if update.TimeZone != "" {
		merged.TimeZone = update.TimeZone
	}
	if update.Availability != nil {
		merged.Availability = *update.Availability
	}
	if update.IsActive != nil {
		merged.IsActive = *update.IsActive
	}

	return &merged
}
