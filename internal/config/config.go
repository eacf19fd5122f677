package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// ----------------------------
	// SMTP
	// ----------------------------
	SMTPHost     string `envconfig:"SMTP_HOST" default:""`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"reminders@vowmail.local"`
	SMTPFromName string `envconfig:"SMTP_FROM_NAME" default:"Wedding Reminders"`

	// ----------------------------
	// Deep links
	// ----------------------------
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:3000"`

	// ----------------------------
	// Queue
	// ----------------------------
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"60s"`
	BatchSize    int           `envconfig:"BATCH_SIZE" default:"10"`
	MaxAttempts  int           `envconfig:"MAX_ATTEMPTS" default:"5"`
	SendRate     int           `envconfig:"SEND_RATE" default:"1"`

	// ----------------------------
	// HTTP API
	// ----------------------------
	APIPort    string `envconfig:"API_PORT" default:"8080"`
	AdminToken string `envconfig:"ADMIN_TOKEN" default:""`

	// ----------------------------
	// Metrics
	// ----------------------------
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`

	// ----------------------------
	// Database (empty = in-memory store)
	// ----------------------------
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	return &cfg, err
}

// SMTPConfigured reports whether the config carries a complete SMTP account.
// Anything less and the transport runs in console mode.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort > 0 && c.SMTPUser != "" && c.SMTPPassword != ""
}
