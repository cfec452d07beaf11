package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/voatnetwork/voat/internal/client/client"
	"github.com/voatnetwork/voat/internal/client/config"
	"github.com/voatnetwork/voat/internal/client/events"
	"github.com/voatnetwork/voat/internal/client/repositories/localstorage"
	"github.com/voatnetwork/voat/internal/client/services"
	"github.com/voatnetwork/voat/internal/client/session"
	"github.com/voatnetwork/voat/internal/common"
	"github.com/voatnetwork/voat/internal/filex"
	"github.com/voatnetwork/voat/internal/logging"
	"github.com/voatnetwork/voat/internal/timex"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const redisKeyPrefix = "voat:"

type App struct {
	config  *config.Config
	log     logging.Logger
	client  client.Client
	store   *session.Store
	bus     *events.Bus
	sched   timex.Scheduler
	closers []func() error

	mu       sync.Mutex
	mode     Mode
	dash     *services.Dashboard
	userName string

	reader      *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewApp opens local storage, picks a backend and wires the client.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repo, closeRepo, err := openStorage(ctx, c)
	if err != nil {
		return nil, err
	}

	hc := &http.Client{}
	base := client.Discover(ctx, c.BackendURLs, c.ProbeTimeout, hc, log)
	api := client.NewHTTPClient(base, client.Options{
		Timeout:   c.RequestTimeout,
		RateLimit: c.RateLimit,
		RateBurst: c.RateBurst,
		HTTP:      hc,
	})

	a := newApp(c, log, api, session.NewStore(repo), timex.NewRealScheduler(), os.Stdin, os.Stdout)
	a.closers = append(a.closers, closeRepo)
	a.interactive = term.IsTerminal(int(os.Stdin.Fd()))
	return a, nil
}

func newApp(c *config.Config, log logging.Logger, api client.Client, store *session.Store, sched timex.Scheduler, in io.Reader, out io.Writer) *App {
	a := &App{
		config: c,
		log:    log.With("component", "cli"),
		client: api,
		store:  store,
		bus:    events.NewBus(),
		sched:  sched,
		reader: bufio.NewReader(in),
		out:    out,
	}
	a.bus.UserLoggedIn.Subscribe(func(e events.UserLoggedIn) {
		a.mu.Lock()
		a.userName = e.User.Name
		a.mu.Unlock()
	})
	return a
}

func openStorage(ctx context.Context, c *config.Config) (localstorage.Repository, func() error, error) {
	switch c.StorageDriver {
	case config.StorageRedis:
		rdb, err := localstorage.ConnectRedis(ctx, c.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return localstorage.NewRedisRepository(rdb, redisKeyPrefix), rdb.Close, nil
	case config.StorageSQLite, "":
		if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
			return nil, nil, fmt.Errorf("error preparing database directory: %w", err)
		}
		db, err := client.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return localstorage.NewSQLiteRepository(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// Run resumes a stored session if there is one, starts the connectivity
// watcher and blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.println("Welcome to VOAT Network CLI (type 'help' for commands)")

	if err := a.openDashboard(ctx); err != nil && !errors.Is(err, common.ErrNoSession) {
		a.log.Warn(ctx, "resume session", "error", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// Close tears down the dashboard and releases local storage.
func (a *App) Close() {
	a.mu.Lock()
	d := a.dash
	a.dash = nil
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	if d != nil {
		d.Close()
	}
	for _, c := range closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close storage", "error", err)
		}
	}
}

// openDashboard mounts a dashboard for the stored session user and makes it current.
func (a *App) openDashboard(ctx context.Context) error {
	d := services.NewDashboard(a.client, a.store, a.bus, a.sched, a.log, services.DashboardOptions{
		WishlistRefreshInterval: a.config.WishlistRefreshInterval,
	})
	if err := d.Mount(ctx); err != nil {
		d.Close()
		return err
	}
	user := d.State().User

	a.mu.Lock()
	prev := a.dash
	a.dash = d
	a.userName = user.Name
	a.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	a.printf("Signed in as %s (%s, %s badge)\n", user.Name, user.VoatID, user.Badge)
	return nil
}

func (a *App) dashboard() *services.Dashboard {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dash
}

func (a *App) isLoggedIn() bool {
	return a.dashboard() != nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var parts []string
	if a.dash != nil && a.userName != "" {
		parts = append(parts, a.userName)
	}
	if a.mode != "" {
		parts = append(parts, string(a.mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// StartOnlineStatusWatcher pings the backend every interval and switches
// between online and offline mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.client.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
