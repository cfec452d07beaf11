package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/voatnetwork/voat/internal/flagx"
)

// envFile is loaded into the process environment when present. Variables
// already set win over the file.
var envFile = ".env"

// parseEnv overlays Config with VOAT_* environment variables.
//
//	VOAT_API_URL          comma separated base URLs, tried before the current ones
//	VOAT_REQUEST_TIMEOUT  seconds or a Go duration ("15s")
//	VOAT_STORAGE          sqlite | redis
//	VOAT_DB_PATH          SQLite file
//	VOAT_REDIS_URL        redis://host:port/db
//	VOAT_LOG_LEVEL        debug | info | warn | error
//	VOAT_ENV              "development" enables console logging
//
// Malformed values panic, like the other loaders.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v := os.Getenv("VOAT_API_URL"); v != "" {
		urls := flagx.SplitList(v)
		cfg.BackendURLs = append(urls, without(cfg.BackendURLs, urls)...)
	}
	if v := os.Getenv("VOAT_REQUEST_TIMEOUT"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("VOAT_STORAGE"); v != "" {
		cfg.StorageDriver = strings.ToLower(v)
	}
	if v := os.Getenv("VOAT_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("VOAT_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("VOAT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("VOAT_ENV"); v != "" {
		cfg.Development = strings.EqualFold(v, "development")
	}
}

// parseSeconds accepts a bare number of seconds or a time.ParseDuration string.
func parseSeconds(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func without(in, drop []string) []string {
	var out []string
	for _, s := range in {
		found := false
		for _, d := range drop {
			if s == d {
				found = true
				break
			}
		}
		if !found {
			out = append(out, s)
		}
	}
	return out
}
