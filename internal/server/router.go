package server

import (
	"github.com/gin-gonic/gin"

	"github.com/chorepoints/chorepoints-backend/internal/http/handlers"
	"github.com/chorepoints/chorepoints-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	HealthHandler  *handlers.HealthHandler
	KidHandler     *handlers.KidHandler
	TaskHandler    *handlers.TaskHandler
	RewardHandler  *handlers.RewardHandler
	PointsHandler  *handlers.PointsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/kid-session", cfg.AuthHandler.KidSession)
	// Kids
	protected.POST("/kids", cfg.KidHandler.CreateKid)
	protected.GET("/kids", cfg.KidHandler.ListKids)
	// Tasks
	protected.POST("/tasks", cfg.TaskHandler.CreateTask)
	protected.GET("/tasks", cfg.TaskHandler.ListTasks)
	protected.PUT("/tasks/:id/complete", cfg.TaskHandler.CompleteTask)
	protected.DELETE("/tasks/:id", cfg.TaskHandler.DeleteTask)
	// Rewards
	protected.POST("/rewards", cfg.RewardHandler.CreateReward)
	protected.GET("/rewards", cfg.RewardHandler.ListRewards)
	protected.POST("/rewards/:id/redeem", cfg.RewardHandler.Redeem)
	protected.GET("/redemptions", cfg.RewardHandler.ListRedemptions)
	protected.DELETE("/rewards/:id", cfg.RewardHandler.DeleteReward)
	// Points
	protected.GET("/points", cfg.PointsHandler.GetBalance)
	protected.GET("/points/history", cfg.PointsHandler.GetHistory)
	protected.POST("/points/adjust", cfg.PointsHandler.Adjust)

	return router
}
