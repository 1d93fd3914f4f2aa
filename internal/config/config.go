package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"tabscout/internal/errors"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Profiling ProfilingConfig
	Storage   StorageConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string
	URL    string
}

// ProfilingConfig bounds the work done per profiled file
type ProfilingConfig struct {
	SampleWindow        int
	PreviewRows         int
	IntegritySampleRows int
	Workers             int
}

// StorageConfig holds upload limits and raw file retention
type StorageConfig struct {
	BasePath    string
	MaxFileSize int64
	KeepUploads bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Database:  *loadDatabaseConfig(),
		Profiling: *loadProfilingConfig(),
		Storage:   *loadStorageConfig(),
		LogLevel:  strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver: strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverSQLite)),
		URL:    getEnvOrDefault("DATABASE_URL", "tabscout.db"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		SampleWindow:        getEnvIntOrDefault("SAMPLE_WINDOW", 2000),
		PreviewRows:         getEnvIntOrDefault("PREVIEW_ROWS", 50),
		IntegritySampleRows: getEnvIntOrDefault("INTEGRITY_SAMPLE_ROWS", 100),
		Workers:             getEnvIntOrDefault("PROFILE_WORKERS", 4),
	}
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		BasePath:    getEnvOrDefault("UPLOAD_DIR", "uploads"),
		MaxFileSize: getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024),
		KeepUploads: getEnvBoolOrDefault("KEEP_UPLOADS", false),
	}
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unsupported DB_DRIVER %q (want %s or %s)",
			config.Database.Driver, DriverSQLite, DriverPostgres))
	}
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Profiling.SampleWindow <= 0 {
		return errors.ConfigInvalid("SAMPLE_WINDOW must be positive")
	}
	if config.Profiling.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	if config.Profiling.IntegritySampleRows <= 0 {
		return errors.ConfigInvalid("INTEGRITY_SAMPLE_ROWS must be positive")
	}
	if config.Profiling.Workers <= 0 {
		return errors.ConfigInvalid("PROFILE_WORKERS must be positive")
	}
	if config.Storage.MaxFileSize <= 0 {
		return errors.ConfigInvalid("MAX_FILE_SIZE must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
