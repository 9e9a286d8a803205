package config

import (
	"os"
)

// Config holds the core runtime configuration for the service.
// Values are sourced from environment variables, with sensible
// defaults where appropriate. See .env.example.
type Config struct {
	// DatabaseURL is the PostgreSQL connection URL (postgres://...).
	DatabaseURL string

	ListenAddr string

	// LogLevel is a zerolog level name (trace, debug, info, warn, error).
	LogLevel string
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	return &Config{
		DatabaseURL: os.Getenv("APP_DATABASE_URL"),
		ListenAddr:  getenv("APP_LISTEN_ADDR", ":7777"),
		LogLevel:    getenv("APP_LOG_LEVEL", "info"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
