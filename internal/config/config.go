package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/steamvault/steamvault/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port            string
	DBPath          string
	SteamAPIKey     string
	BatchSize       int
	RateLimitCount  int
	RateLimitWindow time.Duration
	InterBatchDelay time.Duration
	RefreshInterval time.Duration
	MetadataSource  string
	LogLevel        string
	LogFormat       string
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is picked up if present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", constants.DefaultPort),
		DBPath:          getEnv("DB_PATH", constants.DefaultDBPath),
		SteamAPIKey:     getEnv("STEAM_API_KEY", ""),
		BatchSize:       getEnvInt("BATCH_SIZE", constants.DefaultBatchSize),
		RateLimitCount:  getEnvInt("RATE_LIMIT_COUNT", constants.DefaultRateLimitCount),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", constants.DefaultRefreshInterval),
		MetadataSource:  getEnv("METADATA_SOURCE", constants.DefaultMetadataSource),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}

	// Unless overridden, batches are spaced by the same interval the rate
	// limit imposes per request, so a full batch never outruns the window.
	cfg.InterBatchDelay = getEnvDuration("INTER_BATCH_DELAY", cfg.RequestInterval())

	return cfg
}

// RequestInterval returns the minimum spacing between Steam store requests
// derived from the published rate limit, e.g. 200 per 5 minutes -> 1.5s.
func (c *Config) RequestInterval() time.Duration {
	if c.RateLimitCount <= 0 {
		return 0
	}
	return c.RateLimitWindow / time.Duration(c.RateLimitCount)
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.SteamAPIKey == "" {
		errors = append(errors, "STEAM_API_KEY cannot be empty")
	}

	if c.BatchSize < 1 {
		errors = append(errors, fmt.Sprintf("BATCH_SIZE must be at least 1, got: %d", c.BatchSize))
	}

	if c.RateLimitCount < 1 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_COUNT must be at least 1, got: %d", c.RateLimitCount))
	}

	if c.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RATE_LIMIT_WINDOW must be positive, got: %s", c.RateLimitWindow))
	}

	if c.RefreshInterval <= 0 {
		errors = append(errors, fmt.Sprintf("REFRESH_INTERVAL must be positive, got: %s", c.RefreshInterval))
	}

	validSources := map[string]bool{
		constants.MetadataSourceWishlist: true,
		constants.MetadataSourceLibrary:  true,
		constants.MetadataSourceUnion:    true,
	}
	if !validSources[c.MetadataSource] {
		errors = append(errors, fmt.Sprintf("METADATA_SOURCE must be one of: wishlist, library, union, got: %s", c.MetadataSource))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
