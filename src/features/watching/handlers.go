package watching

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler handles watch session requests from the dashboard.
type Handler struct {
	service *Service
}

// NewHandler creates a new watching handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type watchRequest struct {
	Directory string `json:"directory" form:"directory"`
}

// StartWatch begins watching the requested directory.
func (h *Handler) StartWatch(c *fiber.Ctx) error {
	var req watchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}
	if req.Directory == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "directory is required"})
	}

	if err := h.service.Start(req.Directory); err != nil {
		slog.Error("Failed to start watch", "directory", req.Directory, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// StopWatch drops the session back to idle.
func (h *Handler) StopWatch(c *fiber.Ctx) error {
	h.service.Stop()
	return c.JSON(fiber.Map{"success": true})
}

// ClearChanges empties the change log without stopping the watch.
func (h *Handler) ClearChanges(c *fiber.Ctx) error {
	h.service.ClearChanges()
	return c.JSON(fiber.Map{"success": true})
}
