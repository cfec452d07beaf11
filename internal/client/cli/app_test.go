package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voatnetwork/voat/internal/client/client"
	"github.com/voatnetwork/voat/internal/client/config"
	"github.com/voatnetwork/voat/internal/client/repositories/localstorage"
	"github.com/voatnetwork/voat/internal/client/session"
	"github.com/voatnetwork/voat/internal/logging"
	"github.com/voatnetwork/voat/internal/mockapi"
	"github.com/voatnetwork/voat/internal/timex"
)

type noopTimer struct{}

func (noopTimer) Stop() bool { return false }

// instantScheduler fires one-shot callbacks right away and never ticks, so
// countdowns stay put and delayed follow-ups happen without waiting.
type instantScheduler struct{}

func (instantScheduler) AfterFunc(_ time.Duration, f func()) timex.Timer {
	go f()
	return noopTimer{}
}

func (instantScheduler) Every(time.Duration, func()) timex.Timer { return noopTimer{} }

type testEnv struct {
	app *App
	api *mockapi.Store
	srv *httptest.Server
	out *bytes.Buffer
}

// newTestEnv wires an App to a seeded mock API and a temp SQLite store.
// printlnFn is redirected into the same buffer as the command output.
func newTestEnv(t *testing.T, lines ...string) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil, lines...)
}

// newTestEnvWith is newTestEnv with the mock API router wrapped by wrap,
// letting a test inject server failures in front of it.
func newTestEnvWith(t *testing.T, wrap func(http.Handler) http.Handler, lines ...string) *testEnv {
	t.Helper()
	ctx := context.Background()

	api := mockapi.NewStore(mockapi.StoreOptions{FixedOTP: "123456", SeedDemo: true})
	h := mockapi.NewHandler(api, logging.Nop(), 1<<20)
	var router http.Handler = mockapi.NewRouter(h, logging.Nop(), mockapi.RouterOptions{Development: true})
	if wrap != nil {
		router = wrap(router)
	}
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "voat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.OnlineCheckInterval = 20 * time.Millisecond

	out := &bytes.Buffer{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(out, a...) }
	t.Cleanup(func() { printlnFn = orig })

	app := newApp(cfg, logging.Nop(), client.NewHTTPClient(srv.URL, client.Options{Timeout: 2 * time.Second}),
		session.NewStore(localstorage.NewSQLiteRepository(db)), instantScheduler{},
		strings.NewReader(strings.Join(lines, "\n")+"\n"), out)
	t.Cleanup(app.Close)

	return &testEnv{app: app, api: api, srv: srv, out: out}
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	app := &App{log: logging.FromZerolog(zerolog.New(&buf))}
	ctx := context.Background()

	app.setMode(ctx, ModeOnline)
	assert.Equal(t, ModeOnline, app.Mode())
	assert.Contains(t, buf.String(), `"mode":"online"`)

	buf.Reset()
	app.setMode(ctx, ModeOnline)
	assert.Empty(t, buf.String(), "no log when the mode does not change")

	app.setMode(ctx, ModeOffline)
	assert.Equal(t, ModeOffline, app.Mode())
	assert.Contains(t, buf.String(), `"mode":"offline"`)
}

func TestGetStatus(t *testing.T) {
	app := &App{}
	assert.Equal(t, "", app.getStatus())

	app.mode = ModeOnline
	assert.Equal(t, "(online)", app.getStatus())

	app.userName = "Jordan"
	assert.Equal(t, "(online)", app.getStatus(), "name only shows with a dashboard")
}

func TestCheckOnline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.app.checkOnline(ctx)
	assert.Equal(t, ModeOnline, env.app.Mode())

	env.srv.Close()
	env.app.checkOnline(ctx)
	assert.Equal(t, ModeOffline, env.app.Mode())
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		env.app.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return env.app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{StorageDriver: config.StorageSQLite, DatabasePath: filepath.Join(t.TempDir(), "nested", "a.db")}
		repo, closeFn, err := openStorage(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = closeFn() })
		require.NoError(t, repo.Set(ctx, "k", []byte("v")))
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{StorageDriver: config.StorageRedis, RedisURL: "redis://" + mr.Addr()}
		repo, closeFn, err := openStorage(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = closeFn() })
		require.NoError(t, repo.Set(ctx, "k", []byte("v")))
		assert.True(t, mr.Exists(redisKeyPrefix+"k"))
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, _, err := openStorage(ctx, &config.Config{StorageDriver: "bolt"})
		require.ErrorContains(t, err, `unknown storage driver "bolt"`)
	})
}

func TestRun_ResumesStoredSession(t *testing.T) {
	env := newTestEnv(t, "profile", "exit")
	ctx := context.Background()

	code := "123456"
	_, _, err := env.api.Signup(mockapi.SignupRequest{
		Name: "Jordan Lee", Email: "jordan@example.com", Password: "secret1", Role: "Freelancer", Location: "Lisbon",
	})
	require.NoError(t, err)
	u, err := env.api.VerifyOtp("jordan@example.com", code)
	require.NoError(t, err)
	require.NoError(t, env.app.store.ReplaceUser(ctx, u))

	require.NoError(t, env.app.Run(ctx))

	out := env.out.String()
	assert.Contains(t, out, "Welcome to VOAT Network CLI")
	assert.Contains(t, out, "Signed in as Jordan Lee (VOAT-")
	assert.Contains(t, out, "jordan@example.com")
	assert.Contains(t, out, "Bye!")
	assert.False(t, env.app.isLoggedIn(), "Run closes the dashboard on exit")
}
