package main

import (
	"coachly/internal/availability/handler"
	"coachly/internal/availability/service"
	coachrepo "coachly/internal/coaches/repository"
	sessionrepo "coachly/internal/sessions/repository"
	"coachly/pkg/app"
	"coachly/pkg/config"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	coaches := coachrepo.NewMongoCoachRepository(cfg)
	sessions := sessionrepo.NewMongoSessionRepository(cfg)
	availabilityService := service.NewAvailabilityService(coaches, sessions, cfg)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return availabilityService
}
