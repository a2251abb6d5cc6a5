// Package dashboard serves the web UI and the JSON state endpoint it polls.
package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"driftwatch/src/features/locks"
	"driftwatch/src/features/watching"
)

// Handler assembles the state snapshot for the polling front-end.
type Handler struct {
	watcher  *watching.Service
	registry *locks.Registry
}

// NewHandler creates a new dashboard handler.
func NewHandler(watcher *watching.Service, registry *locks.Registry) *Handler {
	return &Handler{watcher: watcher, registry: registry}
}

// Index renders the dashboard page.
func (h *Handler) Index(c *fiber.Ctx) error {
	return c.Render("dashboard", fiber.Map{})
}

// State returns the full session snapshot. Pure read; the dashboard polls
// this once a second but any frequency is safe.
func (h *Handler) State(c *fiber.Ctx) error {
	snap := h.watcher.Snapshot()
	snap.FileLocks = h.registry.Snapshot()

	for path, summary := range snap.Files {
		if snap.FileLocks[path] {
			summary.Locked = true
			snap.Files[path] = summary
		}
	}

	return c.JSON(snap)
}
