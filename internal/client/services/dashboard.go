package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/voatnetwork/voat/internal/client/client"
	"github.com/voatnetwork/voat/internal/client/events"
	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/client/session"
	"github.com/voatnetwork/voat/internal/client/validation"
	"github.com/voatnetwork/voat/internal/common"
	"github.com/voatnetwork/voat/internal/logging"
	"github.com/voatnetwork/voat/internal/timex"
)

const (
	DefaultWishlistRefreshInterval = 10 * time.Second
	DefaultErrorClearDelay         = 3 * time.Second
	DefaultStatusRefetchDelay      = time.Second
)

type DashboardOptions struct {
	WishlistRefreshInterval time.Duration
	ErrorClearDelay         time.Duration
	StatusRefetchDelay      time.Duration
}

func (o DashboardOptions) withDefaults() DashboardOptions {
	if o.WishlistRefreshInterval <= 0 {
		o.WishlistRefreshInterval = DefaultWishlistRefreshInterval
	}
	if o.ErrorClearDelay <= 0 {
		o.ErrorClearDelay = DefaultErrorClearDelay
	}
	if o.StatusRefetchDelay <= 0 {
		o.StatusRefetchDelay = DefaultStatusRefetchDelay
	}
	return o
}

// DashboardState is a copy of the dashboard's state.
type DashboardState struct {
	Mounted         bool
	User            models.User
	Wishlist        []models.WishlistItem
	Bookings        []models.Booking
	Orders          []models.Order
	PortfolioStatus models.PortfolioStatus
	PortfolioErrors models.ErrorMap
	PortfolioError  string
	Submitting      bool
	Projects        []models.Project
	Notifications   []Notification
}

// Unread counts unread notifications.
func (s DashboardState) Unread() int {
	n := 0
	for _, x := range s.Notifications {
		if !x.Read {
			n++
		}
	}
	return n
}

// Dashboard keeps the account's profile, wishlist, bookings, orders,
// portfolio status and projects in memory, reconciled against the session
// cache and the remote API.
//
// The server is the source of truth, with two exceptions. A locally
// generated VOAT ID survives until the server returns one. Wishlist removal
// is client-wins-until-next-refetch: the item disappears from memory and
// cache at once, the remote delete is best-effort, nothing is rolled back,
// and the next successful fetch replaces whatever the client holds.
//
// Each resource has its own request sequence, so a response that completes
// after a newer one (or after a local mutation) is dropped.
type Dashboard struct {
	client   client.Client
	store    *session.Store
	bus      *events.Bus
	sched    timex.Scheduler
	validate *validation.Validator
	log      logging.Logger
	opts     DashboardOptions
	now      func() time.Time

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc

	mounted bool
	closed  bool

	user          models.User
	wishlist      []models.WishlistItem
	bookings      []models.Booking
	orders        []models.Order
	status        models.PortfolioStatus
	portfolioErrs models.ErrorMap
	portfolioErr  string
	submitting    bool
	projects      []models.Project
	notifications []Notification
	noteSeq       int

	userSeq, wishlistSeq, bookingsSeq, ordersSeq, statusSeq seqGuard

	// cacheMu is taken before mu by every path that writes the cache, and
	// held across the write, so writes land in the order state changed
	// while mu stays free during storage I/O.
	cacheMu sync.Mutex

	poll      timex.Timer
	clearErrs timex.Timer
	clearGen  int
	followUp  timex.Timer
	unsub     func()
}

func NewDashboard(c client.Client, store *session.Store, bus *events.Bus, sched timex.Scheduler, log logging.Logger, opts DashboardOptions) *Dashboard {
	return &Dashboard{
		client:        c,
		store:         store,
		bus:           bus,
		sched:         sched,
		validate:      validation.New(),
		log:           log.With("component", "dashboard"),
		opts:          opts.withDefaults(),
		now:           time.Now,
		ctx:           context.Background(),
		cancel:        func() {},
		portfolioErrs: models.ErrorMap{},
	}
}

// Mount loads the session user and then the account's collections, starts
// the wishlist poll and subscribes to wishlist events. It fails only when
// there is no usable session; every other failure degrades to cached data.
// ctx bounds the lifetime of the poll and timer driven requests.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.mounted {
		d.mu.Unlock()
		return fmt.Errorf("%w: already mounted", ErrWrongPhase)
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()

	if _, err := d.LoadUserData(ctx); err != nil {
		return err
	}

	d.FetchPortfolioStatus(ctx)
	d.RefreshOrders(ctx)
	d.RefreshWishlist(ctx)
	d.RefreshBookings(ctx)
	if _, err := d.CheckWishlistConsistency(ctx); err != nil {
		d.log.Debug(ctx, "wishlist consistency check skipped", "error", err)
	}
	d.loadProjects(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.mounted = true
	d.poll = d.sched.Every(d.opts.WishlistRefreshInterval, func() {
		if c := d.liveContext(); c != nil {
			d.RefreshWishlist(c)
		}
	})
	d.unsub = d.bus.WishlistUpdated.Subscribe(d.onWishlistUpdated)
	d.log.Info(ctx, "dashboard mounted", "user_id", string(d.user.ID))
	return nil
}

// Close stops the poll and every pending timer, unsubscribes from the bus
// and cancels in-flight timer driven requests. State stays readable.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, t := range []timex.Timer{d.poll, d.clearErrs, d.followUp} {
		if t != nil {
			t.Stop()
		}
	}
	d.poll, d.clearErrs, d.followUp = nil, nil, nil
	if d.unsub != nil {
		d.unsub()
		d.unsub = nil
	}
	d.cancel()
}

// State returns a snapshot.
func (d *Dashboard) State() DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()
	errs := make(models.ErrorMap, len(d.portfolioErrs))
	for k, v := range d.portfolioErrs {
		errs[k] = v
	}
	return DashboardState{
		Mounted:         d.mounted && !d.closed,
		User:            d.user,
		Wishlist:        slices.Clone(d.wishlist),
		Bookings:        slices.Clone(d.bookings),
		Orders:          slices.Clone(d.orders),
		PortfolioStatus: d.status,
		PortfolioErrors: errs,
		PortfolioError:  d.portfolioErr,
		Submitting:      d.submitting,
		Projects:        cloneProjects(d.projects),
		Notifications:   slices.Clone(d.notifications),
	}
}

// LoadUserData reads the session user, gives it a VOAT ID if it has none,
// then refreshes it from the API once. A failed refresh keeps the local
// record.
func (d *Dashboard) LoadUserData(ctx context.Context) (models.User, error) {
	user, err := d.store.LoadUser(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("load user data: %w", err)
	}

	if user.VoatID == "" {
		user.VoatID = models.GenerateVoatID()
		user.Normalize()
		if err := d.store.SaveUser(ctx, user); err != nil {
			d.log.Warn(ctx, "save generated voat id", "error", err)
		}
		d.log.Info(ctx, "generated voat id", "user_id", string(user.ID), "voat_id", user.VoatID)
		err := d.client.UpdateUserData(ctx, client.UserDataUpdate{
			UserID:     string(user.ID),
			VoatID:     user.VoatID,
			VoatPoints: user.VoatPoints,
			Badge:      user.Badge,
		})
		if err != nil {
			d.log.Warn(ctx, "push generated voat id", "error", err)
		}
	}

	d.mu.Lock()
	d.userSeq.local()
	d.user = user
	seq := d.userSeq.next()
	d.mu.Unlock()

	fetched, err := d.client.GetUser(ctx, string(user.ID))
	if err != nil {
		d.log.Warn(ctx, "refresh user from api, using local record", "error", err)
		return user, nil
	}
	return d.applyUser(ctx, seq, fetched), nil
}

func (d *Dashboard) applyUser(ctx context.Context, seq uint64, fetched models.UserPatch) models.User {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()

	d.mu.Lock()
	if !d.userSeq.apply(seq) {
		user := d.user
		d.mu.Unlock()
		d.log.Debug(ctx, "dropping stale user response", "seq", seq)
		return user
	}
	d.user = models.MergeUser(d.user, fetched)
	user := d.user
	d.mu.Unlock()

	if err := d.store.SaveUser(ctx, user); err != nil {
		d.log.Warn(ctx, "save merged user", "error", err)
	}
	return user
}

// UpdateProfile sends the edited profile (and optional new image), then
// refreshes the account from the API. If that refresh fails the form is
// merged over the local record instead.
func (d *Dashboard) UpdateProfile(ctx context.Context, form models.ProfileForm, image *models.MediaFile) (models.User, error) {
	d.mu.Lock()
	user := d.user
	d.mu.Unlock()
	if !user.HasID() {
		return models.User{}, fmt.Errorf("%w: %s", common.ErrNoSession, MsgLoginAgain)
	}
	if errs := d.validate.Profile(form); !errs.Empty() {
		return models.User{}, &models.ValidationError{Fields: errs}
	}

	img, err := d.client.UpdateProfile(ctx, client.ProfileUpdate{Form: form, User: user, Image: image})
	if err != nil {
		d.log.Warn(ctx, "update profile", "error", err)
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}

	d.mu.Lock()
	seq := d.userSeq.next()
	d.mu.Unlock()

	fetched, err := d.client.GetUser(ctx, string(user.ID))
	if err == nil {
		merged := d.applyUser(ctx, seq, fetched)
		d.notify(NotifySystem, "Your profile has been updated successfully!")
		return merged, nil
	}
	d.log.Warn(ctx, "refresh after profile update, merging form locally", "error", err)

	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	d.mu.Lock()
	updated := d.user
	updated.Name = form.Name
	updated.Email = form.Email
	if form.Role != "" {
		updated.Role = form.Role
	}
	updated.Profession = form.Profession
	updated.Phone = form.Phone
	if img != "" {
		updated.ProfileImage = &img
	}
	updated.Normalize()
	d.userSeq.local()
	d.user = updated
	d.mu.Unlock()

	if err := d.store.SaveUser(ctx, updated); err != nil {
		d.log.Warn(ctx, "save updated user", "error", err)
	}

	d.notify(NotifySystem, "Your profile has been updated successfully!")
	return updated, nil
}

// ImageURL resolves the user's profile image against the API base URL.
func (d *Dashboard) ImageURL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return models.ResolveImageURL(d.client.BaseURL(), d.user.Image())
}

// Logout clears the session reference and tears the dashboard down.
// Per-account caches are kept.
func (d *Dashboard) Logout(ctx context.Context) error {
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	if err := d.store.ClearUser(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	d.Close()
	d.mu.Lock()
	d.user = models.User{}
	d.mu.Unlock()
	d.log.Info(ctx, "logged out")
	return nil
}

// userID returns the current account id or common.ErrNoSession.
func (d *Dashboard) userID() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.user.HasID() {
		return "", common.ErrNoSession
	}
	return string(d.user.ID), nil
}

// liveContext returns the mount context, or nil once closed.
func (d *Dashboard) liveContext() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	return d.ctx
}

// IsSessionError reports errors that need the user to log in again.
func IsSessionError(err error) bool {
	return errors.Is(err, common.ErrNoSession) || errors.Is(err, common.ErrSessionCorrupt)
}

func cloneProjects(in []models.Project) []models.Project {
	if in == nil {
		return nil
	}
	out := make([]models.Project, len(in))
	for i, p := range in {
		p.Images = slices.Clone(p.Images)
		out[i] = p
	}
	return out
}
