package hosting

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"driftwatch/src/features/config"
	"driftwatch/src/features/dashboard"
	"driftwatch/src/features/locks"
	"driftwatch/src/features/metrics"
	"driftwatch/src/features/watching"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, watchService *watching.Service, registry *locks.Registry) *Server {
	engine := html.New("./views", ".html")
	engine.Debug(cfg.Get().Logger.Level == "debug")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
		AppName:               "Driftwatch",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	dashboardHandler := dashboard.NewHandler(watchService, registry)
	watchHandler := watching.NewHandler(watchService)
	lockHandler := locks.NewHandler(registry, watchService)

	dashboard.RegisterRoutes(app, dashboardHandler)
	watching.RegisterRoutes(app, watchHandler)
	locks.RegisterRoutes(app, lockHandler)
	config.RegisterRoutes(app, cfg)
	metrics.RegisterRoutes(app)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
