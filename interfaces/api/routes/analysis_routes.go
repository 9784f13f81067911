package routes

import (
	"github.com/gofiber/fiber/v2"

	"todoai/interfaces/api/handlers"
	"todoai/interfaces/api/middleware"
)

func SetupAnalysisRoutes(api fiber.Router, h *handlers.Handlers, jwtSecret string) {
	api.Post("/analyze", middleware.Protected(jwtSecret), h.AnalysisHandler.Analyze)
}
