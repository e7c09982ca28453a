package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 9000
  env: production
  cors_origins: ["https://app.example.com"]
database:
  url: postgres://localhost/castboard
jwt:
  secret: from-file
  access_ttl: 15m
storage:
  type: s3
  bucket: talents
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("OTP_TTL", "5m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "postgres://localhost/castboard", cfg.Database.DSN)
	assert.Equal(t, "from-env", cfg.JWT.Secret, "окружение перекрывает файл")
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, "talents", cfg.Storage.Bucket)
	assert.Empty(t, cfg.Storage.BasePath, "для s3 локальный путь не подставляется")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "only-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 30*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "./media", cfg.Storage.BasePath)
	assert.Equal(t, "/media", cfg.Storage.BaseURL)
	assert.Equal(t, int64(3<<20), cfg.Upload.MaxImageSize)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	t.Setenv("JWT_SECRET", "x")

	_, err := Load(path)
	assert.Error(t, err)
}
