package config

import (
	"time"

	"github.com/voatnetwork/voat/internal/common"
)

// Storage drivers for the local key/value store.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config holds runtime settings for the VOAT terminal client.
//
// BackendURLs are candidate API base URLs, probed in order at startup. All
// durations are time.Duration.
type Config struct {
	BackendURLs             []string
	RequestTimeout          time.Duration
	ProbeTimeout            time.Duration
	OnlineCheckInterval     time.Duration
	WishlistRefreshInterval time.Duration

	StorageDriver string
	DatabasePath  string
	RedisURL      string

	RateLimit float64
	RateBurst int

	LogLevel    string
	Development bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURLs = []string{common.DefaultBackendURL}
	c.RequestTimeout = 10 * time.Second
	c.ProbeTimeout = 2 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.WishlistRefreshInterval = 10 * time.Second
	c.StorageDriver = StorageSQLite
	c.DatabasePath = "voat.db"
	c.RedisURL = "redis://localhost:6379/0"
	c.RateLimit = 10
	c.RateBurst = 5
	c.LogLevel = "info"
	c.Development = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and .env), JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
