package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// HTTP
	Port          string
	MaxInputBytes int64
	SessionTTL    time.Duration

	// Rule catalog. DatabaseURL wins over RulesFile; with neither set the
	// built-in rules are used.
	DatabaseURL string
	RulesFile   string
}

// Load loads configuration from environment variables.  A .env file in the
// working directory is read first if present; variables already set in the
// environment take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnv("PORT", "8080"),
		MaxInputBytes: int64(getIntEnv("MAX_INPUT_BYTES", 16<<10)),
		SessionTTL:    getDurationEnv("SESSION_TTL", 2*time.Hour),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RulesFile:     getEnv("RULES_FILE", ""),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil && i > 0 {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
