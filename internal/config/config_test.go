package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscout/internal/errors"
)

var configEnv = []string{
	"PORT", "GIN_MODE", "DB_DRIVER", "DATABASE_URL", "SAMPLE_WINDOW", "PREVIEW_ROWS",
	"INTEGRITY_SAMPLE_ROWS", "PROFILE_WORKERS", "UPLOAD_DIR", "MAX_FILE_SIZE", "KEEP_UPLOADS", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ServerConfig{Port: "8080", GinMode: "release"}, cfg.Server)
	assert.Equal(t, DatabaseConfig{Driver: DriverSQLite, URL: "tabscout.db"}, cfg.Database)
	assert.Equal(t, ProfilingConfig{SampleWindow: 2000, PreviewRows: 50, IntegritySampleRows: 100, Workers: 4}, cfg.Profiling)
	assert.Equal(t, StorageConfig{BasePath: "uploads", MaxFileSize: 50 * 1024 * 1024, KeepUploads: false}, cfg.Storage)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/tabscout?sslmode=disable")
	t.Setenv("SAMPLE_WINDOW", "500")
	t.Setenv("PROFILE_WORKERS", "8")
	t.Setenv("MAX_FILE_SIZE", "1048576")
	t.Setenv("KEEP_UPLOADS", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/tabscout?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 500, cfg.Profiling.SampleWindow)
	assert.Equal(t, 8, cfg.Profiling.Workers)
	assert.Equal(t, int64(1048576), cfg.Storage.MaxFileSize)
	assert.True(t, cfg.Storage.KeepUploads)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadIgnoresUnparsableNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("PREVIEW_ROWS", "lots")
	t.Setenv("KEEP_UPLOADS", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Profiling.PreviewRows)
	assert.False(t, cfg.Storage.KeepUploads)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"zero sample window", "SAMPLE_WINDOW", "0"},
		{"negative preview", "PREVIEW_ROWS", "-1"},
		{"zero integrity sample", "INTEGRITY_SAMPLE_ROWS", "0"},
		{"zero workers", "PROFILE_WORKERS", "0"},
		{"zero max size", "MAX_FILE_SIZE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
