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

// Config holds application configuration.
type Config struct {
	DataDir          string // Base directory for all databases, always absolute
	LogLevel         string
	PrettyLogs       bool
	DefaultGeography string // benchmark geography when a deal omits one
	ModelVersion     string // hedonic coefficient set to predict with
	HoldingPeriod    int    // default analysis horizon in years
	SnapshotTTL      time.Duration
	DisableSnapshots bool
}

// Load reads configuration from environment variables, with a .env file
// as a convenience overlay.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("DEALENGINE_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:          absDataDir,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PrettyLogs:       getEnvAsBool("LOG_PRETTY", false),
		DefaultGeography: getEnv("DEFAULT_GEOGRAPHY", "US"),
		ModelVersion:     getEnv("HEDONIC_MODEL_VERSION", "us_national_v1"),
		HoldingPeriod:    getEnvAsInt("HOLDING_PERIOD_YEARS", 10),
		SnapshotTTL:      time.Duration(getEnvAsInt("SNAPSHOT_TTL_HOURS", 24)) * time.Hour,
		DisableSnapshots: getEnvAsBool("DISABLE_SNAPSHOTS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present.
func (c *Config) Validate() error {
	if c.ModelVersion == "" {
		return fmt.Errorf("hedonic model version must not be empty")
	}
	if c.HoldingPeriod <= 0 {
		return fmt.Errorf("holding period must be positive, got %d", c.HoldingPeriod)
	}
	return nil
}

// ReferenceDBPath is where the benchmark/coefficient database lives.
func (c *Config) ReferenceDBPath() string {
	return filepath.Join(c.DataDir, "reference.db")
}

// CacheDBPath is where analysis snapshots live.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.DataDir, "cache.db")
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
