package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ServerPort      string
	SQLitePath      string
	LogLevel        zerolog.Level
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, loading a .env file first when one exists
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		SQLitePath: getEnv("SQLITE_DB_PATH", "./siteblog.db"),
		LogFormat:  strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	return cfg, nil
}

// SetupLogger configures the global zerolog logger
func (c *Config) SetupLogger() {
	zerolog.SetGlobalLevel(c.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
