// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/talentwatch/internal/modules/periods"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the dataset database, always absolute
	Port     int
	LogLevel string
	DevMode  bool

	// Analytics knobs. These are validated up front: a structurally invalid
	// value fails startup rather than producing silently wrong analytics.
	LookbackMonths int
	Granularity    periods.Granularity
	TopAgencies    int
	TopCategories  int
	TopSkills      int
	YourAgency     string // Agency the positioning matrix and war zones are computed for
	VocabularyPath string // Optional YAML skill-vocabulary override

	// Dataset refresh.
	RefreshCron string // Five-field cron spec

	// Optional S3 export source.
	S3Region          string
	S3Bucket          string
	S3Key             string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("TW_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("TW_PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),

		LookbackMonths: getEnvAsInt("TW_LOOKBACK_MONTHS", 6),
		Granularity:    periods.Granularity(getEnv("TW_GRANULARITY", string(periods.GranularityMonth))),
		TopAgencies:    getEnvAsInt("TW_TOP_AGENCIES", 10),
		TopCategories:  getEnvAsInt("TW_TOP_CATEGORIES", 10),
		TopSkills:      getEnvAsInt("TW_TOP_SKILLS", 15),
		YourAgency:     getEnv("TW_YOUR_AGENCY", ""),
		VocabularyPath: getEnv("TW_VOCABULARY_PATH", ""),

		RefreshCron: getEnv("TW_REFRESH_CRON", "0 */6 * * *"),

		S3Region:          getEnv("TW_S3_REGION", "eu-central-1"),
		S3Bucket:          getEnv("TW_S3_BUCKET", ""),
		S3Key:             getEnv("TW_S3_KEY", ""),
		S3AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for structurally invalid configuration. This is the only
// place bad knobs are allowed to be fatal; the engine itself never raises on
// data-quality problems.
func (c *Config) Validate() error {
	if c.LookbackMonths <= 0 {
		return fmt.Errorf("lookback months must be positive, got %d", c.LookbackMonths)
	}
	if !c.Granularity.Valid() {
		return fmt.Errorf("granularity must be %q or %q, got %q",
			periods.GranularityMonth, periods.GranularityQuarter, c.Granularity)
	}
	if c.TopAgencies <= 0 || c.TopCategories <= 0 || c.TopSkills <= 0 {
		return fmt.Errorf("top-N cutoffs must be positive (agencies=%d categories=%d skills=%d)",
			c.TopAgencies, c.TopCategories, c.TopSkills)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535, got %d", c.Port)
	}
	return nil
}

// DatabasePath returns the dataset database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "dataset.db")
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
