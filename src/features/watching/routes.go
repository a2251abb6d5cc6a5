package watching

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers watch session routes
func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Post("/watch", handler.StartWatch)
	app.Post("/stop", handler.StopWatch)
	app.Post("/clear", handler.ClearChanges)
}
