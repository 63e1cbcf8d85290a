package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/steamvault/steamvault/internal/constants"
)

func TestLoad(t *testing.T) {
	// Test default values
	cfg := Load()

	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected Port to be %s, got %s", constants.DefaultPort, cfg.Port)
	}

	if cfg.DBPath != constants.DefaultDBPath {
		t.Errorf("Expected DBPath to be %s, got %s", constants.DefaultDBPath, cfg.DBPath)
	}

	if cfg.BatchSize != constants.DefaultBatchSize {
		t.Errorf("Expected BatchSize to be %d, got %d", constants.DefaultBatchSize, cfg.BatchSize)
	}

	if cfg.RateLimitCount != constants.DefaultRateLimitCount {
		t.Errorf("Expected RateLimitCount to be %d, got %d", constants.DefaultRateLimitCount, cfg.RateLimitCount)
	}

	if cfg.RefreshInterval != constants.DefaultRefreshInterval {
		t.Errorf("Expected RefreshInterval to be %s, got %s", constants.DefaultRefreshInterval, cfg.RefreshInterval)
	}

	if cfg.MetadataSource != constants.DefaultMetadataSource {
		t.Errorf("Expected MetadataSource to be %s, got %s", constants.DefaultMetadataSource, cfg.MetadataSource)
	}

	// 200 requests per 5 minutes spaces requests 1.5s apart
	if cfg.RequestInterval() != 1500*time.Millisecond {
		t.Errorf("Expected request interval 1.5s, got %s", cfg.RequestInterval())
	}

	// batches default to the same spacing
	if cfg.InterBatchDelay != cfg.RequestInterval() {
		t.Errorf("Expected InterBatchDelay to default to the request interval, got %s", cfg.InterBatchDelay)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DB_PATH", "/tmp/test.db")
	os.Setenv("BATCH_SIZE", "50")
	os.Setenv("RATE_LIMIT_COUNT", "100")
	os.Setenv("RATE_LIMIT_WINDOW", "5m")
	os.Setenv("INTER_BATCH_DELAY", "10s")
	os.Setenv("METADATA_SOURCE", "union")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DB_PATH")
		os.Unsetenv("BATCH_SIZE")
		os.Unsetenv("RATE_LIMIT_COUNT")
		os.Unsetenv("RATE_LIMIT_WINDOW")
		os.Unsetenv("INTER_BATCH_DELAY")
		os.Unsetenv("METADATA_SOURCE")
	}()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be 9090, got %s", cfg.Port)
	}

	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected DBPath to be /tmp/test.db, got %s", cfg.DBPath)
	}

	if cfg.BatchSize != 50 {
		t.Errorf("Expected BatchSize to be 50, got %d", cfg.BatchSize)
	}

	if cfg.RequestInterval() != 3*time.Second {
		t.Errorf("Expected request interval 3s, got %s", cfg.RequestInterval())
	}

	if cfg.InterBatchDelay != 10*time.Second {
		t.Errorf("Expected InterBatchDelay override, got %s", cfg.InterBatchDelay)
	}

	if cfg.MetadataSource != "union" {
		t.Errorf("Expected MetadataSource union, got %s", cfg.MetadataSource)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Port:            "8080",
		DBPath:          "steamvault.db",
		SteamAPIKey:     "key",
		BatchSize:       20,
		RateLimitCount:  200,
		RateLimitWindow: 5 * time.Minute,
		RefreshInterval: 7 * 24 * time.Hour,
		MetadataSource:  "library",
		LogLevel:        "info",
		LogFormat:       "text",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}

	invalid := &Config{
		Port:            "not-a-port",
		DBPath:          "",
		SteamAPIKey:     "",
		BatchSize:       0,
		RateLimitCount:  0,
		RateLimitWindow: 0,
		RefreshInterval: 0,
		MetadataSource:  "everything",
		LogLevel:        "loud",
		LogFormat:       "xml",
	}
	err := invalid.Validate()
	if err == nil {
		t.Fatal("Expected validation to fail")
	}
	for _, want := range []string{"PORT", "DB_PATH", "STEAM_API_KEY", "BATCH_SIZE", "RATE_LIMIT_COUNT", "RATE_LIMIT_WINDOW", "REFRESH_INTERVAL", "METADATA_SOURCE", "LOG_LEVEL", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestValidatePortRange(t *testing.T) {
	cfg := &Config{
		Port:            "70000",
		DBPath:          "steamvault.db",
		SteamAPIKey:     "key",
		BatchSize:       20,
		RateLimitCount:  200,
		RateLimitWindow: 5 * time.Minute,
		RefreshInterval: 7 * 24 * time.Hour,
		MetadataSource:  "library",
		LogLevel:        "info",
		LogFormat:       "text",
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "between 1 and 65535") {
		t.Errorf("Expected port range error, got: %v", err)
	}
}
