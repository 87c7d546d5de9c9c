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

	sessionerrors "coachly/internal/sessions/errors"
	"coachly/pkg/config"
	mongotx "coachly/pkg/db/mongo"
	"coachly/pkg/model"
)

const (
	CollectionName = "CoachingSessions"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.CoachingSession) error
	FindByID(ctx context.Context, id string) (*model.CoachingSession, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.CoachingSession, error)
	FindActiveByCoachAndRange(ctx context.Context, coachID string, from, to time.Time, limit int) ([]*model.CoachingSession, error)
	Update(ctx context.Context, id string, session *model.CoachingSession) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoSessionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoSessionRepository(cfg *config.Config) SessionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSessionRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoSessionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *model.CoachingSession) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	session.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to create coaching session: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSessionRepository) FindByID(ctx context.Context, id string) (*model.CoachingSession, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sessionerrors.ErrInvalidID, id)
	}

	var session model.CoachingSession
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", sessionerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find coaching session: %w", err)
	}

	return &session, nil
}

func (r *mongoSessionRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.CoachingSession, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find coaching sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*model.CoachingSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode coaching sessions: %w", err)
	}

	return sessions, nil
}

// FindActiveByCoachAndRange returns the coach's non-cancelled sessions with
// a scheduled start inside [from, to), ordered by start time. The limit
// bounds the worst case of a pathological calendar.
func (r *mongoSessionRepository) FindActiveByCoachAndRange(ctx context.Context, coachID string, from, to time.Time, limit int) ([]*model.CoachingSession, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"coach_id": coachID,
		"status":   bson.M{"$ne": model.SessionStatusCancelled},
		"scheduled_at": bson.M{
			"$gte": from,
			"$lt":  to,
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find coaching sessions by coach and range: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*model.CoachingSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode coaching sessions: %w", err)
	}

	return sessions, nil
}

func (r *mongoSessionRepository) Update(ctx context.Context, id string, session *model.CoachingSession) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sessionerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"session_title": session.SessionTitle,
			"scheduled_at":  session.ScheduledAt,
			"duration_min":  session.DurationMin,
			"status":        session.Status,
			"session_type":  session.SessionType,
			"notes":         session.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update coaching session: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, sessionerrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoSessionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", sessionerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete coaching session: %w", err)
	}

	if result.DeletedCount == 0 {
		return sessionerrors.ErrNotFound
	}

	return nil
}

func (r *mongoSessionRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count coaching sessions: %w", err)
	}
	return count, nil
}

func (r *mongoSessionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
