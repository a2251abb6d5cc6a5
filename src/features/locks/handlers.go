package locks

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// TrackedPaths supplies the absolute paths of the files currently tracked
// by the watcher, used by the lock-all / unlock-all operations.
type TrackedPaths interface {
	TrackedPaths() []string
}

// Handler handles lock requests from the dashboard.
type Handler struct {
	registry *Registry
	tracked  TrackedPaths
}

// NewHandler creates a new locks handler.
func NewHandler(registry *Registry, tracked TrackedPaths) *Handler {
	return &Handler{registry: registry, tracked: tracked}
}

type lockRequest struct {
	Filepath string `json:"filepath"`
}

// ToggleLock flips the lock flag for a single path.
func (h *Handler) ToggleLock(c *fiber.Ctx) error {
	var req lockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}
	if req.Filepath == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "filepath is required"})
	}

	locked := h.registry.Toggle(req.Filepath)
	slog.Info("Toggled lock", "path", req.Filepath, "locked", locked)
	return c.JSON(fiber.Map{"success": true, "locked": locked})
}

// LockAll locks every currently tracked file.
func (h *Handler) LockAll(c *fiber.Ctx) error {
	paths := h.tracked.TrackedPaths()
	h.registry.SetAll(paths, true)
	slog.Info("Locked all tracked files", "count", len(paths))
	return c.JSON(fiber.Map{"success": true})
}

// UnlockAll unlocks every currently tracked file.
func (h *Handler) UnlockAll(c *fiber.Ctx) error {
	paths := h.tracked.TrackedPaths()
	h.registry.SetAll(paths, false)
	slog.Info("Unlocked all tracked files", "count", len(paths))
	return c.JSON(fiber.Map{"success": true})
}
