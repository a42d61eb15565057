// Package config reads the server settings from the environment and the
// gallery content from JSON.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the process settings. Values come from the environment, which
// godotenv fills from .env at startup.
type Config struct {
	Port                     string
	GinMode                  string
	DatabasePath             string
	ContentPath              string
	AdminUsername            string
	AdminPassword            string
	SessionTTL               time.Duration
	ViewportReportsPerSecond float64
	LogLevel                 string
	// UsingDefaultAdmin is set when either admin credential fell back to its
	// development default.
	UsingDefaultAdmin bool
}

// Load builds a Config from the environment, applying development defaults
// for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		DatabasePath:  getenv("DATABASE_PATH", "portfolio.db"),
		ContentPath:   os.Getenv("GALLERY_CONTENT"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}

	// Default credentials for development (set both in production)
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
		cfg.UsingDefaultAdmin = true
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
		cfg.UsingDefaultAdmin = true
	}

	ttl, err := time.ParseDuration(getenv("SESSION_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	cfg.SessionTTL = ttl

	rps, err := strconv.ParseFloat(getenv("VIEWPORT_RPS", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("VIEWPORT_RPS: %w", err)
	}
	if rps <= 0 {
		return nil, fmt.Errorf("VIEWPORT_RPS must be positive, got %v", rps)
	}
	cfg.ViewportReportsPerSecond = rps

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
