package routes

import (
	"github.com/gofiber/fiber/v2"

	"todoai/interfaces/api/handlers"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, jwtSecret string) {
	SetupHealthRoutes(app, h)

	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h, jwtSecret)
	SetupTaskRoutes(api, h, jwtSecret)
	SetupAnalysisRoutes(api, h, jwtSecret)
}
