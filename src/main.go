package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"driftwatch/src/features/config"
	"driftwatch/src/features/diffing"
	"driftwatch/src/features/embeddings"
	"driftwatch/src/features/hosting"
	"driftwatch/src/features/locks"
	"driftwatch/src/features/logging"
	"driftwatch/src/features/metrics"
	"driftwatch/src/features/notify"
	"driftwatch/src/features/watching"
	"driftwatch/src/infra/database"
	"driftwatch/src/infra/queue"
	"driftwatch/src/infra/watcher"
)

var (
	configPath string
	portFlag   uint32
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "driftwatch [directory]",
		Short: "Watch a directory and serve a local change dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	rootCmd.Flags().Uint32VarP(&portFlag, "port", "p", 0, "override the configured HTTP port")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfgManager, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if portFlag != 0 {
		cfg := *cfgManager.Get()
		cfg.Server.Port = portFlag
		cfgManager.Update(&cfg)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Lock registry with sqlite persistence
	lockStore, err := database.NewSqliteLockStore(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to open lock store: %v", err)
	}
	defer lockStore.Close()
	registry := locks.NewRegistry(lockStore)

	// Core: diff engine, metrics and the watch service
	engine := diffing.NewEngine(cfgManager.Get().Watch.DiffContext)
	met := metrics.NewSet()

	triggerFactory := func(notifyCh chan<- struct{}) (watching.Trigger, error) {
		return watcher.New(notifyCh, cfgManager.Get().Watch.IgnoreDirs)
	}
	watchService := watching.NewService(cfgManager, engine, met, triggerFactory)

	// Optional embedding enrichment
	var embeddingService *embeddings.Service
	if cfgManager.Get().Embeddings.Enabled {
		client := embeddings.NewClient(cfgManager.Get().Embeddings.URL)
		jobQueue := queue.NewInMemoryQueue(cfgManager.Get().Embeddings.QueueSize)
		embeddingService = embeddings.NewService(client, jobQueue, watchService)
		watchService.OnChange(embeddingService.OnChange)
	}

	// Optional Telegram notifications
	var telegramNotifier *notify.TelegramNotifier
	if cfgManager.Get().Telegram.Enabled {
		telegramNotifier, err = notify.NewTelegramNotifier(cfgManager.Get().Telegram.Token, cfgManager.Get().Telegram.ChatID)
		if err != nil {
			slog.Error("Failed to initialize Telegram notifier", "error", err)
		} else {
			watchService.OnChange(telegramNotifier.OnChange)
			telegramNotifier.Start()
		}
	}

	if embeddingService != nil {
		embeddingService.Start()
	}

	// Start watching right away when a directory was given
	if len(args) == 1 {
		if err := watchService.Start(args[0]); err != nil {
			log.Fatalf("failed to start watching %s: %v", args[0], err)
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, watchService, registry)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.",
		"url", fmt.Sprintf("http://localhost:%d", cfgManager.Get().Server.Port))

	// Wait for a shutdown signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()
	slog.Info("Shutting down...")

	watchService.Stop()
	if embeddingService != nil {
		embeddingService.Stop()
	}
	if telegramNotifier != nil {
		telegramNotifier.Stop()
	}

	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
	return nil
}
