package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	natspkg "todoai/infrastructure/nats"
	redispkg "todoai/infrastructure/redis"
)

// HealthHandler - liveness พร้อมสถานะของ dependencies
// redis และ nats เป็น optional (nil = ไม่ได้เปิดใช้)
type HealthHandler struct {
	db          *gorm.DB
	redisClient *redispkg.Client
	natsClient  *natspkg.Client
	providers   []string
}

func NewHealthHandler(db *gorm.DB, redisClient *redispkg.Client, natsClient *natspkg.Client, providers []string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		natsClient:  natsClient,
		providers:   providers,
	}
}

type componentStatus struct {
	Status string `json:"status"` // ok, error, disabled
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                     `json:"status"`
	Components  map[string]componentStatus `json:"components"`
	AIProviders []string                   `json:"aiProviders"`
	Events      *natspkg.StreamStatus      `json:"events,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:      "ok",
		Components:  make(map[string]componentStatus, 3),
		AIProviders: h.providers,
	}
	if resp.AIProviders == nil {
		resp.AIProviders = []string{}
	}

	resp.Components["database"] = h.checkDatabase(ctx)

	switch {
	case h.redisClient == nil:
		resp.Components["redis"] = componentStatus{Status: "disabled"}
	case h.redisClient.Ping(ctx) != nil:
		resp.Components["redis"] = componentStatus{Status: "error", Error: "ping failed"}
	default:
		resp.Components["redis"] = componentStatus{Status: "ok"}
	}

	switch {
	case h.natsClient == nil:
		resp.Components["nats"] = componentStatus{Status: "disabled"}
	case !h.natsClient.IsConnected():
		resp.Components["nats"] = componentStatus{Status: "error", Error: "not connected"}
	default:
		resp.Components["nats"] = componentStatus{Status: "ok"}
		if status, err := h.natsClient.GetStatus(ctx); err == nil {
			resp.Events = status
		}
	}

	// database เป็น dependency เดียวที่ทำให้ service ใช้งานไม่ได้
	code := fiber.StatusOK
	if resp.Components["database"].Status != "ok" {
		resp.Status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) componentStatus {
	if h.db == nil {
		return componentStatus{Status: "error", Error: "not configured"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return componentStatus{Status: "error", Error: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return componentStatus{Status: "error", Error: err.Error()}
	}
	return componentStatus{Status: "ok"}
}
