package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageBadger = "badger"
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Server
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`

	// Storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"badger"`
	BadgerDir     string `env:"BADGER_DIR" envDefault:"./data"`
	SeedFile      string `env:"SEED_FILE" envDefault:"config/seed.yaml"`

	// MongoDB
	MongoURI      string `env:"MONGODB_DSN" envDefault:"mongodb://localhost:27017"`
	MongoDB       string `env:"MONGO_DB" envDefault:"tago"`
	MongoUser     string `env:"MONGO_USER"`
	MongoPassword string `env:"MONGO_PASSWORD"`

	// PostgreSQL airline directory; empty keeps the directory in the store
	PostgresDSN string `env:"POSTGRES_DSN"`

	// RabbitMQ; empty disables event publishing
	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"tago.events"`

	// Gmail
	GmailClientID     string        `env:"GMAIL_CLIENT_ID"`
	GmailClientSecret string        `env:"GMAIL_CLIENT_SECRET"`
	GmailRefreshToken string        `env:"GMAIL_REFRESH_TOKEN"`
	GmailSender       string        `env:"GMAIL_SENDER"`
	SendTimeout       time.Duration `env:"SEND_TIMEOUT" envDefault:"30s"`

	// Auth
	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// Reminder dispatch
	DispatchInterval  time.Duration `env:"DISPATCH_INTERVAL" envDefault:"60s"`
	DispatchHour      int           `env:"DISPATCH_HOUR" envDefault:"9"`
	DispatchTimezone  string        `env:"DISPATCH_TIMEZONE" envDefault:"Asia/Jerusalem"`
	SentRetentionDays int           `env:"SENT_RETENTION_DAYS" envDefault:"3"`

	// Metrics
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"tago"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values env parsing cannot
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StorageBadger, StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.DispatchHour < 0 || c.DispatchHour > 23 {
		return fmt.Errorf("DISPATCH_HOUR must be between 0 and 23, got %d", c.DispatchHour)
	}
	if c.DispatchInterval <= 0 {
		return fmt.Errorf("DISPATCH_INTERVAL must be positive")
	}
	if c.SentRetentionDays < 1 {
		return fmt.Errorf("SENT_RETENTION_DAYS must be at least 1")
	}
	if _, err := time.LoadLocation(c.DispatchTimezone); err != nil {
		return fmt.Errorf("invalid DISPATCH_TIMEZONE %q: %w", c.DispatchTimezone, err)
	}
	return nil
}

// Location returns the reference timezone used for calendar comparisons
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DispatchTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GmailEnabled reports whether OAuth credentials for sending are present
func (c *Config) GmailEnabled() bool {
	return c.GmailClientID != "" && c.GmailClientSecret != "" && c.GmailRefreshToken != ""
}
