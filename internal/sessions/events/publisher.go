// Package events publishes coaching-session lifecycle events to Kafka.
// Messages are keyed by coach ID so all events for one coach land on the
// same partition in order.
package events

import (
	"context"
	"time"

	"coachly/pkg/kafka"
	kafkacfg "coachly/pkg/kafka/config"
	"coachly/pkg/logger"
	"coachly/pkg/model"
)

const (
	TopicSessionEvents = "coaching-session-events"

	EventSessionCreated   = "session.created"
	EventSessionCancelled = "session.cancelled"

	sourceService = "sessions-service"
)

// SessionEvent is the JSON payload for all session lifecycle events.
type SessionEvent struct {
	SessionID   string    `json:"session_id"`
	CoachID     string    `json:"coach_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	DurationMin int       `json:"duration_min"`
	Status      string    `json:"status"`
}

type Publisher interface {
	SessionCreated(ctx context.Context, session *model.CoachingSession) error
	SessionCancelled(ctx context.Context, session *model.CoachingSession) error
	Close() error
}

// NewPublisher returns a Kafka-backed publisher, or a no-op publisher when
// no brokers are configured.
func NewPublisher(cfg *kafkacfg.Config, log *logger.Logger) (Publisher, error) {
	if cfg == nil || !cfg.Enabled() {
		log.Info("Kafka brokers not configured, session events disabled")
		return noopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg, TopicSessionEvents, log)
	if err != nil {
		return nil, err
	}

	log.Info("Session event publisher initialized", "topic", TopicSessionEvents)
	return &kafkaPublisher{producer: producer}, nil
}

type kafkaPublisher struct {
	producer *kafka.Producer
}

func (p *kafkaPublisher) SessionCreated(ctx context.Context, session *model.CoachingSession) error {
	return p.publish(ctx, EventSessionCreated, session)
}

func (p *kafkaPublisher) SessionCancelled(ctx context.Context, session *model.CoachingSession) error {
	return p.publish(ctx, EventSessionCancelled, session)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, session *model.CoachingSession) error {
	msg := kafka.NewMessage().
		WithKey(session.CoachID).
		WithValue(SessionEvent{
			SessionID:   session.ID,
			CoachID:     session.CoachID,
			ScheduledAt: session.ScheduledAt,
			DurationMin: session.DurationMin,
			Status:      session.Status,
		}).
		WithEventType(eventType).
		WithSource(sourceService).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

func (noopPublisher) SessionCreated(context.Context, *model.CoachingSession) error   { return nil }
func (noopPublisher) SessionCancelled(context.Context, *model.CoachingSession) error { return nil }
func (noopPublisher) Close() error                                                   { return nil }
