// Package config provides configuration management for the temperature scoring service.
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
	DataDir  string // Base directory for databases, reference files and dumps (always absolute)
	Port     int
	LogLevel string
	DevMode  bool

	// Reference datasets
	RegressionFile     string // CSV with the regression model summary
	PathwayMappingFile string // CSV with the intensity metric -> pathway mapping
	ProviderDB         string // SQLite database with company and target records

	// Optional S3 source for the reference datasets
	S3Bucket        string
	S3Region        string
	S3RegressionKey string
	S3MappingKey    string
	S3AccessKey     string
	S3SecretKey     string
	RefreshSchedule string // cron spec for reference dataset refresh, empty disables

	// Scoring defaults
	FallbackScore     float64
	Model             int
	AggregationMethod string
}

// Load reads configuration from the environment. A .env file is honoured
// when present but is not required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("TEMPSCORE_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir to absolute path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	port, err := getEnvInt("TEMPSCORE_PORT", 8080)
	if err != nil {
		return nil, err
	}
	fallback, err := getEnvFloat("TEMPSCORE_FALLBACK_SCORE", 3.2)
	if err != nil {
		return nil, err
	}
	model, err := getEnvInt("TEMPSCORE_MODEL", 4)
	if err != nil {
		return nil, err
	}

	return &Config{
		DataDir:  absDataDir,
		Port:     port,
		LogLevel: getEnv("TEMPSCORE_LOG_LEVEL", "info"),
		DevMode:  getEnvBool("TEMPSCORE_DEV_MODE", false),

		RegressionFile:     getEnv("TEMPSCORE_REGRESSION_FILE", filepath.Join(absDataDir, "regression_model_summary.csv")),
		PathwayMappingFile: getEnv("TEMPSCORE_MAPPING_FILE", filepath.Join(absDataDir, "sr15_mapping.csv")),
		ProviderDB:         getEnv("TEMPSCORE_PROVIDER_DB", filepath.Join(absDataDir, "portfolio.db")),

		S3Bucket:        getEnv("TEMPSCORE_S3_BUCKET", ""),
		S3Region:        getEnv("TEMPSCORE_S3_REGION", "eu-west-1"),
		S3RegressionKey: getEnv("TEMPSCORE_S3_REGRESSION_KEY", "reference/regression_model_summary.csv"),
		S3MappingKey:    getEnv("TEMPSCORE_S3_MAPPING_KEY", "reference/sr15_mapping.csv"),
		S3AccessKey:     getEnv("TEMPSCORE_S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("TEMPSCORE_S3_SECRET_KEY", ""),
		RefreshSchedule: getEnv("TEMPSCORE_REFRESH_SCHEDULE", ""),

		FallbackScore:     fallback,
		Model:             model,
		AggregationMethod: getEnv("TEMPSCORE_AGGREGATION_METHOD", "WATS"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
