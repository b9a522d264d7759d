// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir           string // Base directory for the snapshot database (always absolute)
	LogLevel          string
	Port              int
	DevMode           bool
	DefaultIterations int           // Simulation iterations when a request omits them
	MaxIterations     int           // Hard cap on request-supplied iterations
	SimWorkers        int           // Simulation worker goroutines (0 = NumCPU)
	CacheTTL          time.Duration // Result cache TTL (0 disables caching)
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:           absDataDir,
		Port:              getEnvAsInt("MARGINSIGHT_PORT", 8080),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DefaultIterations: getEnvAsInt("SIM_DEFAULT_ITERATIONS", 5000),
		MaxIterations:     getEnvAsInt("SIM_MAX_ITERATIONS", 200000),
		SimWorkers:        getEnvAsInt("SIM_WORKERS", 0),
		CacheTTL:          time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
	}

	if cfg.MaxIterations > 0 && cfg.DefaultIterations > cfg.MaxIterations {
		return nil, fmt.Errorf("SIM_DEFAULT_ITERATIONS (%d) exceeds SIM_MAX_ITERATIONS (%d)",
			cfg.DefaultIterations, cfg.MaxIterations)
	}

	return cfg, nil
}

// SnapshotDBPath returns the path of the portfolio snapshot database.
func (c *Config) SnapshotDBPath() string {
	return filepath.Join(c.DataDir, "portfolio.db")
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}
