// Package config loads runtime configuration for the VOAT terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file, if present, and VOAT_* environment variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   comma separated backend base URLs
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-s string   local storage driver (sqlite or redis)
//	-d string   SQLite database path
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "backend_urls": ["http://localhost:5000"],
//	  "request_timeout": "10s",
//	  "probe_timeout": "2s",
//	  "online_check_interval": "3s",
//	  "wishlist_refresh_interval": "10s",
//	  "storage_driver": "sqlite",
//	  "database_path": "voat.db",
//	  "redis_url": "redis://localhost:6379/0",
//	  "rate_limit": 10,
//	  "rate_burst": 5,
//	  "log_level": "info",
//	  "development": false
//	}
package config
