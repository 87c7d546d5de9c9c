package main

import (
	"coachly/internal/coaches/handler"
	"coachly/internal/coaches/repository"
	"coachly/internal/coaches/service"
	"coachly/internal/coaches/validator"
	"coachly/pkg/app"
	"coachly/pkg/config"
)

const ServiceName = "coaches"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Coaches service")
	coachService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCoachHandler(coachService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CoachService {
	coachValidator := validator.NewCoachValidator(cfg.Log)
	coachRepo := repository.NewMongoCoachRepository(cfg)
	coachService := service.NewCoachService(coachRepo, coachValidator, cfg)

	cfg.Log.Info("Coach service initialized", "database", cfg.MongoDatabaseName)
	return coachService
}
