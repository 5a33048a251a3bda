// Package config loads deployment configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// AuthMode selects bearer-token verification ("jwt") or the local dev
	// shim ("dev", X-Debug-Subject header).
	AuthMode   string        `env:"AUTH_MODE" envDefault:"jwt"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	DevSubject string        `env:"DEV_SUBJECT" envDefault:"dev-local"`

	// StorageBackend is "memory" or "postgres".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`

	// AMQPURL, when set, enables best-effort event publishing to RabbitMQ
	// alongside the stored notification feed.
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"nomadnova.events"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// CompletionSchedule is the cron spec for the due-trip completion sweep.
	CompletionSchedule string `env:"COMPLETION_SCHEDULE" envDefault:"@hourly"`

	LeaderboardLimit int `env:"LEADERBOARD_LIMIT" envDefault:"20"`
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AuthMode == "jwt" && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required unless AUTH_MODE=dev")
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}
	return cfg, nil
}
