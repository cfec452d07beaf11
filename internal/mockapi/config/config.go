// Package config handles configuration for the mock API server: defaults,
// .env/environment, JSON overlay and command-line flags, in that order.
package config

import "time"

const EnvDevelopment = "development"

// Config holds runtime settings for the mock API.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - Environment: "development" allows any CORS origin.
//   - AllowedOrigins: CORS origins outside development.
//   - FixedOTP: when set every signup gets this code instead of a random one.
//   - SeedDemo: give verified accounts sample wishlist, booking and order rows.
//   - MaxUploadBytes: multipart body limit for profile and portfolio uploads.
//   - ShutdownTimeout: grace period for in-flight requests on stop.
type Config struct {
	Addr            string
	Environment     string
	AllowedOrigins  []string
	FixedOTP        string
	SeedDemo        bool
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	LogLevel        string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":5000"
	c.Environment = EnvDevelopment
	c.AllowedOrigins = nil
	c.FixedOTP = ""
	c.SeedDemo = true
	c.MaxUploadBytes = 32 << 20
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
}

func (c *Config) Development() bool { return c.Environment == EnvDevelopment }

// LoadConfig builds a Config by applying defaults, then overlaying the
// environment, an optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
