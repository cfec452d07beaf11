package main

import (
	"context"
	"log"
	"os"

	"github.com/voatnetwork/voat/internal/buildinfo"
	"github.com/voatnetwork/voat/internal/client/cli"
	"github.com/voatnetwork/voat/internal/client/config"
	"github.com/voatnetwork/voat/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewZerologLogger(logging.Options{
		Level:       cfg.LogLevel,
		Development: cfg.Development,
		Out:         os.Stderr,
	})

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
