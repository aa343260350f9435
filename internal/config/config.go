package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend names accepted by STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Auth
	JWTSecret  string
	SessionTTL time.Duration

	// Storage
	StorageBackend string
	StateDir       string
	SQLitePath     string
	DatabaseURL    string

	// Redis (shared rate limiting; optional)
	RedisURL string

	// Rate limiting for mutating key operations
	MutationRateLimit int // requests per minute per client

	// Simulated operation latency (key lifecycle)
	CreateDelay     time.Duration
	RegenerateDelay time.Duration
	RevokeDelay     time.Duration
	DeleteDelay     time.Duration

	// Usage fault injector
	SimulateFailures bool
	FailureRate      float64

	// Feature flag defaults
	ChartV2      bool
	ModernColors bool
}

func Load() (*Config, error) {
	// Ignore errors here: in container environments the variables are
	// set directly and no .env file exists.
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		JWTSecret:  getEnv("JWT_SECRET", "default-insecure-secret-change-me"),
		SessionTTL: getDurationEnv("SESSION_TTL", time.Hour),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendFile),
		StateDir:       getEnv("STATE_DIR", "./data"),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/console.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		MutationRateLimit: getIntEnv("MUTATION_RATE_LIMIT", 60),

		CreateDelay:     getDurationEnv("CREATE_DELAY", 1500*time.Millisecond),
		RegenerateDelay: getDurationEnv("REGENERATE_DELAY", 1200*time.Millisecond),
		RevokeDelay:     getDurationEnv("REVOKE_DELAY", 800*time.Millisecond),
		DeleteDelay:     getDurationEnv("DELETE_DELAY", 600*time.Millisecond),

		SimulateFailures: getBoolEnv("SIMULATE_FAILURES", true),
		FailureRate:      getFloatEnv("FAILURE_RATE", 0.1),

		ChartV2:      getBoolEnv("FEATURE_CHART_V2", false),
		ModernColors: getBoolEnv("FEATURE_MODERN_COLORS", false),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
