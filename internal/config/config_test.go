package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToml = `
[development]
host = "localhost"
port = 9000
log_level = "debug"
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "tigo_db"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_port = "2112"
login_rate_limit_allowed_per_min = 10
allowed_origins = ["http://localhost:3000"]
session_cleanup_interval = "30m"
media_backend = "disk"
media_disk_root_path = "/tmp/media"

[production]
host = "0.0.0.0"
port = 9000
log_level = "info"
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "tigo_db"
redis_host = "redis"
redis_port = "6379"
prometheus_metrics_port = "2112"
media_backend = "minio"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	path := writeConfig(t, testToml)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, MediaBackendDisk, cfg.MediaBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionCleanupEvery())
}

func TestLoad_ProductionMissingMinio(t *testing.T) {
	path := writeConfig(t, testToml)

	cfg, err := Load("production", path)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "MinioEndpoint")
}

func TestLoad_UnknownEnv(t *testing.T) {
	path := writeConfig(t, testToml)
	_, err := Load("staging", path)
	assert.EqualError(t, err, "unknown env: staging")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("dev", "/invalid/path/config.toml")
	assert.Error(t, err)
}

func TestConfig_SessionCleanupEvery_Default(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 8*time.Hour, cfg.SessionCleanupEvery())
	cfg.SessionCleanupInterval = "nonsense"
	assert.Equal(t, 8*time.Hour, cfg.SessionCleanupEvery())
}

func TestConfig_Validate_BadDuration(t *testing.T) {
	path := writeConfig(t, testToml)
	cfg, err := Load("dev", path)
	require.NoError(t, err)

	cfg.SessionCleanupInterval = "-5m"
	assert.Error(t, cfg.Validate())
	cfg.SessionCleanupInterval = "5 minutes"
	assert.Error(t, cfg.Validate())
}
