package main

import (
	"context"
	"log"
	"os"

	"github.com/voatnetwork/voat/internal/buildinfo"
	"github.com/voatnetwork/voat/internal/logging"
	"github.com/voatnetwork/voat/internal/mockapi"
	"github.com/voatnetwork/voat/internal/mockapi/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewZerologLogger(logging.Options{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})

	app := mockapi.NewApp(cfg, logger)
	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

}
