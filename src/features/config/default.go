package config

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		Watch: Watch{
			IntervalMs:  1000,
			IgnoreDirs:  []string{".git", "node_modules", "__pycache__", "vendor", "dist", "build"},
			MaxChanges:  500,
			MaxFileSize: 1 << 20, // files above this are tracked by size only
			DiffContext: 3,
		},
		Server: Server{
			PrintRoutes: false,
			Port:        8421,
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Database: Database{
			Path: "./driftwatch.db",
		},
		Embeddings: Embeddings{
			Enabled:   false,
			URL:       "http://localhost:8080/embed",
			QueueSize: 64,
		},
		Telegram: Telegram{
			Enabled: false,
			Token:   "", // Can be obtained with https://t.me/BotFather
			ChatID:  0,
		},
	}
}
