package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config holds application configuration
type Config struct {
	Port               int
	LogLevel           string
	LogPretty          bool
	DataDir            string
	Storage            string // memory or sqlite
	RedisAddr          string // empty = in-process cache
	CacheTTL           time.Duration
	RateLimitCapacity  int
	RateLimitWindow    time.Duration
	HistoryRetention   time.Duration
	RetentionSchedule  string // cron expression, e.g. "@hourly"
	CORSAllowedOrigins []string
	TrustProxy         bool // behind a reverse proxy that sets X-Real-IP
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvAsInt("PORT", 8080),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvAsBool("LOG_PRETTY", true),
		DataDir:            getEnv("DATA_DIR", "./data"),
		Storage:            getEnv("STORAGE", StorageSQLite),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		CacheTTL:           getEnvAsDuration("CACHE_TTL", time.Hour),
		RateLimitCapacity:  getEnvAsInt("RATE_LIMIT_CAPACITY", 5),
		RateLimitWindow:    getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		HistoryRetention:   getEnvAsDuration("HISTORY_RETENTION", 30*24*time.Hour),
		RetentionSchedule:  getEnv("RETENTION_SCHEDULE", "@hourly"),
		CORSAllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
		TrustProxy:         getEnvAsBool("TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Storage != StorageMemory && c.Storage != StorageSQLite {
		return fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageMemory, StorageSQLite)
	}
	if c.RateLimitCapacity <= 0 {
		return fmt.Errorf("rate limit capacity must be positive, got %d", c.RateLimitCapacity)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimitWindow)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must not be negative, got %s", c.CacheTTL)
	}
	if c.HistoryRetention <= 0 {
		return fmt.Errorf("history retention must be positive, got %s", c.HistoryRetention)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
