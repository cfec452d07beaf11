package config

import (
	"flag"
	"os"
	"time"

	"github.com/voatnetwork/voat/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   comma separated backend base URLs
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//	-s string   local storage driver (sqlite, redis)
//	-d string   SQLite database path
//
// Only these flags are read from os.Args, via flagx.FilterArgs, so other
// loaders can share the command line.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-i", "-s", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	urls := fs.String("a", "", "comma separated backend base URLs")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "local storage driver: sqlite or redis")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local SQLite database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if list := flagx.SplitList(*urls); len(list) > 0 {
		cfg.BackendURLs = list
	}
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
