// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DBPath       string // Path to the SQLite transactions store
	QueriesDir   string // Optional override for the query catalog directory
	LogLevel     string
	Port         int
	DevMode      bool
	BackupBucket string // S3 bucket for store backups (empty = backups disabled)
	BackupPrefix string // Key prefix within the backup bucket
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dbPath := getEnv("RETAIL_DB_PATH", "data/database/retail.db")

	// Always resolve to absolute path so later chdir calls can't move the store
	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	cfg := &Config{
		DBPath:       absDBPath,
		QueriesDir:   getEnv("RETAIL_QUERIES_DIR", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnvAsInt("RETAIL_PORT", 8080),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		BackupBucket: getEnv("RETAIL_BACKUP_BUCKET", ""),
		BackupPrefix: getEnv("RETAIL_BACKUP_PREFIX", "backups/retail"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
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
