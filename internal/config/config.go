// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/crossice and cmd/reconcile.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is populated from environment variables with sensible defaults.
type Config struct {
	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Servers
	HTTPPort string
	WSPort   string

	// Reconciliation
	SeasonID         string
	OverlapThreshold float64
	MinRosterJerseys int

	// Scheduler
	ReconcileInterval time.Duration
	EnableScheduler   bool
	RunOnStart        bool

	Environment string // development, staging, production
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	seasonID := envOr("SEASON_ID", "")
	if seasonID == "" {
		return nil, fmt.Errorf("SEASON_ID must be set")
	}

	return &Config{
		DatabaseURL: dbURL,
		RedisURL:    envOr("REDIS_URL", "redis://localhost:6379/0"),

		HTTPPort: envOr("HTTP_PORT", "8080"),
		WSPort:   envOr("WS_PORT", "8081"),

		SeasonID:         seasonID,
		OverlapThreshold: envFloat("OVERLAP_THRESHOLD", 0.5),
		MinRosterJerseys: envInt("MIN_ROSTER_JERSEYS", 3),

		ReconcileInterval: time.Duration(envInt("RECONCILE_INTERVAL_MINUTES", 60)) * time.Minute,
		EnableScheduler:   envBool("ENABLE_SCHEDULER", true),
		RunOnStart:        envBool("RUN_ON_START", true),

		Environment: envOr("ENVIRONMENT", "development"),
	}, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
