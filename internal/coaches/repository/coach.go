package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	coacherrors "coachly/internal/coaches/errors"
	"coachly/pkg/config"
	mongotx "coachly/pkg/db/mongo"
	"coachly/pkg/model"
)

const (
	CollectionName = "CoachProfiles"
)

type CoachRepository interface {
	Create(ctx context.Context, coach *model.CoachProfile) error
	FindByID(ctx context.Context, id string) (*model.CoachProfile, error)
	FindBySlug(ctx context.Context, slug string) (*model.CoachProfile, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.CoachProfile, error)
	Update(ctx context.Context, id string, coach *model.CoachProfile) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoCoachRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoCoachRepository(cfg *config.Config) CoachRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCoachRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless it already carries a
// transaction session, which cannot be wrapped without breaking transaction
// semantics.
func (r *mongoCoachRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCoachRepository) Create(ctx context.Context, coach *model.CoachProfile) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	coach.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, coach)
	if err != nil {
		return fmt.Errorf("failed to create coach profile: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		coach.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCoachRepository) FindByID(ctx context.Context, id string) (*model.CoachProfile, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", coacherrors.ErrInvalidID, id)
	}

	var coach model.CoachProfile
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&coach)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", coacherrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find coach profile: %w", err)
	}

	return &coach, nil
}

func (r *mongoCoachRepository) FindBySlug(ctx context.Context, slug string) (*model.CoachProfile, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var coach model.CoachProfile
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&coach)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: slug %s", coacherrors.ErrNotFound, slug)
		}
		return nil, fmt.Errorf("failed to find coach profile by slug: %w", err)
	}

	return &coach, nil
}

func (r *mongoCoachRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.CoachProfile, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "display_name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find coach profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var coaches []*model.CoachProfile
	if err = cursor.All(ctx, &coaches); err != nil {
		return nil, fmt.Errorf("failed to decode coach profiles: %w", err)
	}

	return coaches, nil
}

func (r *mongoCoachRepository) Update(ctx context.Context, id string, coach *model.CoachProfile) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", coacherrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"display_name": coach.DisplayName,
			"slug":         coach.Slug,
			"bio":          coach.Bio,
			"time_zone":    coach.TimeZone,
			"availability": coach.Availability,
			"is_active":    coach.IsActive,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update coach profile: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, coacherrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoCoachRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", coacherrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete coach profile: %w", err)
	}

	if result.DeletedCount == 0 {
		return coacherrors.ErrNotFound
	}

	return nil
}

func (r *mongoCoachRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count coach profiles: %w", err)
	}
	return count, nil
}

func (r *mongoCoachRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
