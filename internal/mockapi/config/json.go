package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/voatnetwork/voat/internal/flagx"
	"github.com/voatnetwork/voat/internal/timex"
)

// JsonConfig is the on-disk shape of the mock API configuration. Durations
// accept "10s" or integer nanoseconds.
type JsonConfig struct {
	Addr            string         `json:"addr"`
	Environment     string         `json:"environment"`
	AllowedOrigins  []string       `json:"allowed_origins"`
	FixedOTP        string         `json:"fixed_otp"`
	SeedDemo        *bool          `json:"seed_demo"`
	MaxUploadBytes  int64          `json:"max_upload_bytes"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogLevel        string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// non-zero field into config. Unreadable or invalid files panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.Environment != "" {
		config.Environment = c.Environment
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.FixedOTP != "" {
		config.FixedOTP = c.FixedOTP
	}
	if c.SeedDemo != nil {
		config.SeedDemo = *c.SeedDemo
	}
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = time.Duration(c.ShutdownTimeout.Duration)
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
