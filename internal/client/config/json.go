package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/voatnetwork/voat/internal/flagx"
	"github.com/voatnetwork/voat/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Zero values leave the
// current setting untouched.
type JsonConfig struct {
	BackendURLs             []string       `json:"backend_urls"`
	RequestTimeout          timex.Duration `json:"request_timeout"`
	ProbeTimeout            timex.Duration `json:"probe_timeout"`
	OnlineCheckInterval     timex.Duration `json:"online_check_interval"`
	WishlistRefreshInterval timex.Duration `json:"wishlist_refresh_interval"`
	StorageDriver           string         `json:"storage_driver"`
	DatabasePath            string         `json:"database_path"`
	RedisURL                string         `json:"redis_url"`
	RateLimit               float64        `json:"rate_limit"`
	RateBurst               int            `json:"rate_burst"`
	LogLevel                string         `json:"log_level"`
	Development             *bool          `json:"development"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing happens. Read or decode errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if len(jc.BackendURLs) > 0 {
		cfg.BackendURLs = jc.BackendURLs
	}
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.ProbeTimeout, jc.ProbeTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.WishlistRefreshInterval, jc.WishlistRefreshInterval)
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RateLimit > 0 {
		cfg.RateLimit = jc.RateLimit
	}
	if jc.RateBurst > 0 {
		cfg.RateBurst = jc.RateBurst
	}
	if jc.Development != nil {
		cfg.Development = *jc.Development
	}
}

func setDuration(dst *time.Duration, d timex.Duration) {
	if d.Duration > 0 {
		*dst = time.Duration(d.Duration)
	}
}

func setString(dst *string, s string) {
	if s != "" {
		*dst = s
	}
}
