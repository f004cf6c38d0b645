package app

import (
	"github.com/chorepoints/chorepoints-backend/internal/http/handlers"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Health *handlers.HealthHandler
	Kid    *handlers.KidHandler
	Task   *handlers.TaskHandler
	Reward *handlers.RewardHandler
	Points *handlers.PointsHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:   handlers.NewAuthHandler(serviceset.Auth),
		Health: handlers.NewHealthHandler(),
		Kid:    handlers.NewKidHandler(serviceset.Kid),
		Task:   handlers.NewTaskHandler(serviceset.Task),
		Reward: handlers.NewRewardHandler(serviceset.Reward),
		Points: handlers.NewPointsHandler(serviceset.Kid),
	}
}
