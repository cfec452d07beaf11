package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/voatnetwork/voat/internal/flagx"
)

var envFile = ".env"

// parseEnv overlays Config with MOCKAPI_* variables.
//
//	MOCKAPI_ADDR             listen address
//	MOCKAPI_ENV              development | production
//	MOCKAPI_ALLOWED_ORIGINS  comma separated CORS origins
//	MOCKAPI_FIXED_OTP        code handed to every signup
//	MOCKAPI_SEED_DEMO        true | false
//	MOCKAPI_LOG_LEVEL        debug | info | warn | error
func parseEnv(cfg *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v := os.Getenv("MOCKAPI_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("MOCKAPI_ENV"); v != "" {
		cfg.Environment = strings.ToLower(v)
	}
	if v := os.Getenv("MOCKAPI_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = flagx.SplitList(v)
	}
	if v := os.Getenv("MOCKAPI_FIXED_OTP"); v != "" {
		cfg.FixedOTP = v
	}
	if v := os.Getenv("MOCKAPI_SEED_DEMO"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.SeedDemo = b
	}
	if v := os.Getenv("MOCKAPI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}
