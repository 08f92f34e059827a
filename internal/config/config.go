package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config carries the environment-driven settings of the game client.
type Config struct {
	RedisURL         string
	DataDir          string
	Environment      string
	LogLevel         slog.Level
	SessionVerifyURL string
}

func Load() *Config {
	return &Config{
		RedisURL:         getEnv("REDIS_URL", "localhost:6379"),
		DataDir:          getEnv("DATA_DIR", "./data"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         parseLogLevel(getEnv("LOG_LEVEL", "info")),
		SessionVerifyURL: getEnv("SESSION_VERIFY_URL", ""),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
