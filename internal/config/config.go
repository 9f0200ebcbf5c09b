package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath      string
	Port              string
	LogLevel          string
	ReconcileSchedule string
	FeedToken         string
}

// Load reads configuration from the environment, with an optional .env
// file on top for local development.
func Load() (Config, error) {
	godotenv.Load()

	config := Config{
		DatabasePath:      envOrDefault("DATABASE_PATH", "./data/ruta-agua.db"),
		Port:              envOrDefault("PORT", "8080"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		ReconcileSchedule: envOrDefault("RECONCILE_SCHEDULE", "0 4 * * *"),
		FeedToken:         os.Getenv("FEED_TOKEN"),
	}

	return config, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
