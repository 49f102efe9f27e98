package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_BACKEND", "")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "fieldservice:", cfg.Redis.KeyPrefix)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "fs.yaml", `
http:
  addr: ":9000"
store:
  backend: redis
redis:
  addr: "cache:6379"
  db: 2
log:
  level: debug
timezone: UTC
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "fieldservice:", cfg.Redis.KeyPrefix)
}

func TestLoad_TOMLFileWithEnvOverride(t *testing.T) {
	path := writeFile(t, "fs.toml", `
timezone = "America/Mexico_City"

[store]
backend = "postgres"

[database]
dsn = "postgres://file"
`)
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Mexico_City", loc.String())
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeFile(t, "fs.yml", "store:\n  backend: postgres\n")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
}

func TestLoad_Rejects(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "sqlite")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown store backend")
	})
	t.Run("unknown extension", func(t *testing.T) {
		_, err := Load(writeFile(t, "fs.ini", "x=1"))
		assert.ErrorContains(t, err, "unsupported config file type")
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("TZ_NAME", "Mars/Olympus")
		_, err := Load("")
		assert.ErrorContains(t, err, "invalid timezone")
	})
}
