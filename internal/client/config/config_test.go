package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, []string{"http://localhost:5000"}, c.BackendURLs)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 2*time.Second, c.ProbeTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 10*time.Second, c.WishlistRefreshInterval)
	assert.Equal(t, StorageSQLite, c.StorageDriver)
	assert.Equal(t, "voat.db", c.DatabasePath)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.Development)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	envFile = "does-not-exist.env"
	t.Cleanup(func() { envFile = ".env" })

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, []string{"http://localhost:5000"}, cfg.BackendURLs)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	envFile = "does-not-exist.env"
	t.Cleanup(func() { envFile = ".env" })

	t.Setenv("VOAT_DB_PATH", "env.db")
	t.Setenv("VOAT_STORAGE", "redis")
	path := writeTempJSON(t, "", "", map[string]any{
		"database_path":         "json.db",
		"online_check_interval": "7s",
	})
	os.Args = []string{"testbin", "-c", path, "-d", "flag.db"}

	cfg := LoadConfig()

	assert.Equal(t, "flag.db", cfg.DatabasePath)
	assert.Equal(t, StorageRedis, cfg.StorageDriver)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
}
