package app

import (
	"github.com/gin-gonic/gin"

	"github.com/chorepoints/chorepoints-backend/internal/server"
)

func wireRouter(handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:    handlerset.Auth,
		AuthMiddleware: middlewareset.Auth,
		HealthHandler:  handlerset.Health,
		KidHandler:     handlerset.Kid,
		TaskHandler:    handlerset.Task,
		RewardHandler:  handlerset.Reward,
		PointsHandler:  handlerset.Points,
	})
}
