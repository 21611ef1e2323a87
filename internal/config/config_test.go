package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/xctimer/internal/config"
	"github.com/mcoot/xctimer/internal/factory"
	"github.com/mcoot/xctimer/internal/persist"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Addr)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, factory.StorageTypeMemory, cfg.StorageType)
	assert.Equal(t, persist.DefaultKey, cfg.StorageKey)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("XCTIMER_PORT", "9090")
	t.Setenv("XCTIMER_STORAGE_TYPE", "sqlite")
	t.Setenv("XCTIMER_SQLITE_PATH", "/tmp/xc.db")
	t.Setenv("XCTIMER_LOG_LEVEL", "debug")
	t.Setenv("XCTIMER_CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("XCTIMER_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, factory.StorageTypeSQLite, cfg.StorageType)
	assert.Equal(t, "/tmp/xc.db", cfg.SQLitePath)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "xctimer.yaml", `
port: 7000
storage_type: redis
redis_url: redis://cache:6379/2
storage_key: meet-2024
cors_origins:
  - https://timer.example.com
`)
	t.Setenv("XCTIMER_PORT", "7001")

	cfg, err := config.Load(config.Options{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Port, "environment wins over the file")
	assert.Equal(t, factory.StorageTypeRedis, cfg.StorageType)
	assert.Equal(t, "meet-2024", cfg.StorageKey)
	assert.Equal(t, []string{"https://timer.example.com"}, cfg.CORSOrigins)

	fc := cfg.Factory(nil)
	require.NotNil(t, fc.RedisConfig)
	assert.Equal(t, "redis://cache:6379/2", fc.RedisConfig.URL)
	assert.Equal(t, "meet-2024", fc.StorageKey)
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, ".env", "XCTIMER_STORAGE_KEY=from-dotenv\nXCTIMER_LOG_LEVEL=warn\n")
	t.Setenv("XCTIMER_LOG_LEVEL", "error")
	// godotenv sets variables directly; register them for cleanup
	t.Setenv("XCTIMER_STORAGE_KEY", "")
	require.NoError(t, os.Unsetenv("XCTIMER_STORAGE_KEY"))

	cfg, err := config.Load(config.Options{EnvFile: path})
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.StorageKey)
	assert.Equal(t, "error", cfg.LogLevel, "existing variables are not overridden")
}

func TestLoadMissingEnvFileIgnored(t *testing.T) {
	_, err := config.Load(config.Options{EnvFile: filepath.Join(t.TempDir(), ".env")})
	assert.NoError(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := config.Load(config.Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "redis without url",
			env:     map[string]string{"XCTIMER_STORAGE_TYPE": "redis"},
			wantErr: "XCTIMER_REDIS_URL required",
		},
		{
			name:    "sqlite without path",
			env:     map[string]string{"XCTIMER_STORAGE_TYPE": "sqlite"},
			wantErr: "XCTIMER_SQLITE_PATH required",
		},
		{
			name:    "unknown storage",
			env:     map[string]string{"XCTIMER_STORAGE_TYPE": "postgres"},
			wantErr: `invalid storage type "postgres"`,
		},
		{
			name:    "bad log level",
			env:     map[string]string{"XCTIMER_LOG_LEVEL": "loud"},
			wantErr: "invalid log level",
		},
		{
			name:    "bad port",
			env:     map[string]string{"XCTIMER_PORT": "70000"},
			wantErr: "invalid port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(config.Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerConfig(t *testing.T) {
	cfg := config.Config{Addr: "127.0.0.1", Port: 9000, ShutdownTimeout: time.Second}

	server := cfg.Server()
	assert.Equal(t, "127.0.0.1", server.Host)
	assert.Equal(t, 9000, server.Port)
	assert.Equal(t, time.Second, server.ShutdownTimeout)
	assert.NotZero(t, server.ReadTimeout)
}
