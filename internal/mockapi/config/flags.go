package config

import (
	"flag"
	"os"

	"github.com/voatnetwork/voat/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string     listen address (e.g. ":5000")
//	-e string     environment: development or production
//	-otp string   fixed OTP for every signup
//	-l string     log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-e", "-otp", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment (development, production)")
	fs.StringVar(&config.FixedOTP, "otp", config.FixedOTP, "fixed OTP for every signup")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
