package dashboard

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the dashboard routes
func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/", handler.Index)
	app.Get("/state", handler.State)
}
