package locks

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers lock routes
func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Post("/toggle-lock", handler.ToggleLock)
	app.Post("/lock-all", handler.LockAll)
	app.Post("/unlock-all", handler.UnlockAll)
}
