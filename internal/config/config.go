package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Storage configuration
	StorageType string // "memory" or "sqlite"
	DataDir     string
	DBPath      string

	// Wallet configuration
	StartingBalance int64

	// Elasticsearch round archive (optional)
	ElasticURL      string
	ElasticUsername string
	ElasticPassword string

	// Discord configuration (bot binary only)
	Token   string
	AppID   string
	GuildID string

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// Get working directory for resource paths
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	dataDir := getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data"))

	startingBalance := int64(1000)
	if raw := os.Getenv("STARTING_BALANCE"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid STARTING_BALANCE %q", raw)
		}
		startingBalance = parsed
	}

	cfg := &Config{
		StorageType:     getEnvWithDefault("STORAGE_TYPE", "memory"),
		DataDir:         dataDir,
		DBPath:          getEnvWithDefault("DB_PATH", filepath.Join(dataDir, "casino.db")),
		StartingBalance: startingBalance,
		ElasticURL:      os.Getenv("ELASTICSEARCH_URL"),
		ElasticUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),
		Token:           os.Getenv("DISCORD_TOKEN"),
		AppID:           os.Getenv("APP_ID"),
		GuildID:         os.Getenv("GUILD_ID"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if cfg.StorageType == "sqlite" {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.StorageType != "memory" && c.StorageType != "sqlite" {
		return fmt.Errorf("STORAGE_TYPE must be memory or sqlite, got %q", c.StorageType)
	}
	return nil
}

// ValidateDiscord checks the fields required by the Discord bot binary
func (c *Config) ValidateDiscord() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.AppID == "" {
		return fmt.Errorf("APP_ID is required")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
