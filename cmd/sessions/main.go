package main

import (
	"coachly/internal/sessions/events"
	"coachly/internal/sessions/handler"
	"coachly/internal/sessions/repository"
	"coachly/internal/sessions/service"
	"coachly/internal/sessions/validator"
	"coachly/pkg/app"
	"coachly/pkg/config"
	kafkacfg "coachly/pkg/kafka/config"
)

const ServiceName = "sessions"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Sessions service")
	sessionService, publisher := initServices(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSessionHandler(sessionService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.SessionService, events.Publisher) {
	sessionValidator := validator.NewSessionValidator(cfg.Log)
	sessionRepo := repository.NewMongoSessionRepository(cfg)

	publisher, err := events.NewPublisher(kafkacfg.Load(), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}

	sessionService := service.NewSessionService(
		sessionRepo,
		sessionValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Session service initialized", "database", cfg.MongoDatabaseName)
	return sessionService, publisher
}
