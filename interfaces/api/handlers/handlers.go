package handlers

import (
	"gorm.io/gorm"

	"todoai/domain/services"
	natspkg "todoai/infrastructure/nats"
	redispkg "todoai/infrastructure/redis"
)

// Services contains all the services needed for handlers
type Services struct {
	UserService     services.UserService
	TaskService     services.TaskService
	AnalysisService services.AnalysisService

	// สำหรับ health check
	DB          *gorm.DB
	RedisClient *redispkg.Client // nil ถ้าไม่มี Redis
	NATSClient  *natspkg.Client  // nil ถ้าไม่มี NATS
	AIProviders []string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler     *AuthHandler
	TaskHandler     *TaskHandler
	AnalysisHandler *AnalysisHandler
	HealthHandler   *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		AuthHandler:     NewAuthHandler(services.UserService),
		TaskHandler:     NewTaskHandler(services.TaskService),
		AnalysisHandler: NewAnalysisHandler(services.AnalysisService),
		HealthHandler:   NewHealthHandler(services.DB, services.RedisClient, services.NATSClient, services.AIProviders),
	}
}
