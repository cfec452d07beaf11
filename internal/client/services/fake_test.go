package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voatnetwork/voat/internal/client/client"
	"github.com/voatnetwork/voat/internal/client/events"
	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/client/repositories/localstorage"
	"github.com/voatnetwork/voat/internal/client/session"
	"github.com/voatnetwork/voat/internal/logging"
	"github.com/voatnetwork/voat/internal/timex/timextest"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupRepo(t *testing.T) localstorage.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE local_storage (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return localstorage.NewSQLiteRepository(db)
}

type harness struct {
	client *fakeClient
	repo   localstorage.Repository
	store  *session.Store
	bus    *events.Bus
	clock  *timextest.Manual
}

func newHarness(t *testing.T) *harness {
	repo := setupRepo(t)
	return &harness{
		client: &fakeClient{},
		repo:   repo,
		store:  session.NewStore(repo),
		bus:    events.NewBus(),
		clock:  timextest.NewManual(),
	}
}

func (h *harness) registration() *Registration {
	return NewRegistration(h.client, h.store, h.bus, h.clock, logging.Nop())
}

func (h *harness) dashboard(t *testing.T) *Dashboard {
	d := NewDashboard(h.client, h.store, h.bus, h.clock, logging.Nop(), DashboardOptions{})
	t.Cleanup(d.Close)
	return d
}

func ptr[T any](v T) *T { return &v }

// ---- fake client ----

// fakeClient implements client.Client. Each hook is optional; unset hooks
// succeed with zero values. Calls are recorded by name.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	SignupFn             func(client.SignupRequest) (models.UserPatch, error)
	SendOTPFn            func(email string) error
	VerifyOTPFn          func(email, otp string) (models.UserPatch, error)
	LoginFn              func(email, password string) (models.UserPatch, error)
	GetUserFn            func(ctx context.Context, id string) (models.UserPatch, error)
	UpdateUserDataFn     func(client.UserDataUpdate) error
	UpdateProfileFn      func(client.ProfileUpdate) (string, error)
	GetWishlistFn        func(ctx context.Context, userID string) ([]models.WishlistItem, error)
	RemoveWishlistItemFn func(userID, itemID string) error
	ReplaceWishlistFn    func(userID string, items []models.WishlistItem) error
	GetBookingsFn        func(userID string) ([]models.Booking, error)
	BookingActionFn      func(id string, action models.BookingAction) error
	GetOrdersFn          func(userID string) ([]models.Order, error)
	GetPortfolioStatusFn func(userID string) (models.PortfolioStatus, error)
	GetUserPortfolioFn   func(userID string) (client.PortfolioRecord, error)
	SubmitPortfolioFn    func(models.PortfolioSubmission) error
	AddServiceFn         func(models.ServicePayload) error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeClient) BaseURL() string { return "http://api.test" }

func (f *fakeClient) Ping(context.Context) error {
	f.record("Ping")
	return nil
}

func (f *fakeClient) Signup(_ context.Context, req client.SignupRequest) (models.UserPatch, error) {
	f.record("Signup")
	if f.SignupFn != nil {
		return f.SignupFn(req)
	}
	return models.UserPatch{}, nil
}

func (f *fakeClient) SendOTP(_ context.Context, email string) error {
	f.record("SendOTP")
	if f.SendOTPFn != nil {
		return f.SendOTPFn(email)
	}
	return nil
}

func (f *fakeClient) VerifyOTP(_ context.Context, email, otp string) (models.UserPatch, error) {
	f.record("VerifyOTP")
	if f.VerifyOTPFn != nil {
		return f.VerifyOTPFn(email, otp)
	}
	return models.UserPatch{}, nil
}

func (f *fakeClient) Login(_ context.Context, email, password string) (models.UserPatch, error) {
	f.record("Login")
	if f.LoginFn != nil {
		return f.LoginFn(email, password)
	}
	return models.UserPatch{}, client.ErrRejected
}

func (f *fakeClient) GetUser(ctx context.Context, id string) (models.UserPatch, error) {
	f.record("GetUser")
	if f.GetUserFn != nil {
		return f.GetUserFn(ctx, id)
	}
	return models.UserPatch{}, client.ErrUnavailable
}

func (f *fakeClient) UpdateUserData(_ context.Context, upd client.UserDataUpdate) error {
	f.record("UpdateUserData")
	if f.UpdateUserDataFn != nil {
		return f.UpdateUserDataFn(upd)
	}
	return nil
}

func (f *fakeClient) UpdateProfile(_ context.Context, upd client.ProfileUpdate) (string, error) {
	f.record("UpdateProfile")
	if f.UpdateProfileFn != nil {
		return f.UpdateProfileFn(upd)
	}
	return "", nil
}

func (f *fakeClient) GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	f.record("GetWishlist")
	if f.GetWishlistFn != nil {
		return f.GetWishlistFn(ctx, userID)
	}
	return []models.WishlistItem{}, nil
}

func (f *fakeClient) RemoveWishlistItem(_ context.Context, userID, itemID string) error {
	f.record("RemoveWishlistItem")
	if f.RemoveWishlistItemFn != nil {
		return f.RemoveWishlistItemFn(userID, itemID)
	}
	return nil
}

func (f *fakeClient) ReplaceWishlist(_ context.Context, userID string, items []models.WishlistItem) error {
	f.record("ReplaceWishlist")
	if f.ReplaceWishlistFn != nil {
		return f.ReplaceWishlistFn(userID, items)
	}
	return nil
}

func (f *fakeClient) GetBookings(_ context.Context, userID string) ([]models.Booking, error) {
	f.record("GetBookings")
	if f.GetBookingsFn != nil {
		return f.GetBookingsFn(userID)
	}
	return nil, nil
}

func (f *fakeClient) BookingAction(_ context.Context, id string, action models.BookingAction) error {
	f.record("BookingAction")
	if f.BookingActionFn != nil {
		return f.BookingActionFn(id, action)
	}
	return nil
}

func (f *fakeClient) GetOrders(_ context.Context, userID string) ([]models.Order, error) {
	f.record("GetOrders")
	if f.GetOrdersFn != nil {
		return f.GetOrdersFn(userID)
	}
	return nil, nil
}

func (f *fakeClient) GetPortfolioStatus(_ context.Context, userID string) (models.PortfolioStatus, error) {
	f.record("GetPortfolioStatus")
	if f.GetPortfolioStatusFn != nil {
		return f.GetPortfolioStatusFn(userID)
	}
	return models.PortfolioNone, nil
}

func (f *fakeClient) GetUserPortfolio(_ context.Context, userID string) (client.PortfolioRecord, error) {
	f.record("GetUserPortfolio")
	if f.GetUserPortfolioFn != nil {
		return f.GetUserPortfolioFn(userID)
	}
	return client.PortfolioRecord{}, nil
}

func (f *fakeClient) SubmitPortfolio(_ context.Context, sub models.PortfolioSubmission) error {
	f.record("SubmitPortfolio")
	if f.SubmitPortfolioFn != nil {
		return f.SubmitPortfolioFn(sub)
	}
	return nil
}

func (f *fakeClient) AddService(_ context.Context, svc models.ServicePayload) error {
	f.record("AddService")
	if f.AddServiceFn != nil {
		return f.AddServiceFn(svc)
	}
	return nil
}
