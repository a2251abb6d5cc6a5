package config

// Config holds the application configuration.
type Config struct {
	Watch      Watch      `yaml:"watch"`
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	Database   Database   `yaml:"database"`
	Embeddings Embeddings `yaml:"embeddings"`
	Telegram   Telegram   `yaml:"telegram"`
}

// Watch holds the configuration for the scan loop.
type Watch struct {
	IntervalMs  int      `yaml:"interval_ms" validate:"gte=100"`
	IgnoreDirs  []string `yaml:"ignore_dirs"`
	MaxChanges  int      `yaml:"max_changes" validate:"gte=0"` // 0 = unbounded
	MaxFileSize int64    `yaml:"max_file_size" validate:"gt=0"`
	DiffContext int      `yaml:"diff_context" validate:"gte=0"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port" validate:"required"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

// Database holds the configuration for lock persistence.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Embeddings holds the configuration for the optional embedding worker.
type Embeddings struct {
	Enabled   bool   `yaml:"enabled"`
	URL       string `yaml:"url"`
	QueueSize int    `yaml:"queue_size"`
}

// Telegram holds the configuration for optional change notifications.
type Telegram struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  int64  `yaml:"chat_id"`
}
