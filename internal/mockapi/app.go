// Package mockapi is an in-memory stand-in for the VOAT remote API. It
// serves the same JSON contract the client consumes so the terminal client
// and the end-to-end tests can run without the real backend.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voatnetwork/voat/internal/logging"
	"github.com/voatnetwork/voat/internal/mockapi/config"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
}

func NewApp(cfg *config.Config, log logging.Logger) *App {
	store := NewStore(StoreOptions{FixedOTP: cfg.FixedOTP, SeedDemo: cfg.SeedDemo})
	h := NewHandler(store, log, cfg.MaxUploadBytes)
	router := NewRouter(h, log, RouterOptions{
		Development:    cfg.Development(),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	return &App{config: cfg, logger: log, handler: router}
}

func (app *App) Handler() http.Handler { return app.handler }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// shuts down within the configured timeout.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)
	app.logger.Info(ctx, "starting mock api", "addr", app.config.Addr, "environment", app.config.Environment)

	return Serve(ctx, app.config.Addr, app.handler, app.config.ShutdownTimeout)
}

// Serve runs an HTTP server on addr until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
