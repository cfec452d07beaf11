// Package session is the typed view over local storage shared by the
// registration flow, the dashboard and logout. Writers follow a
// read-merge-write discipline; the last writer wins.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/client/repositories/localstorage"
	"github.com/voatnetwork/voat/internal/common"
)

type Store struct {
	repo localstorage.Repository
}

func NewStore(repo localstorage.Repository) *Store {
	return &Store{repo: repo}
}

// LoadUser returns the session user. It fails with common.ErrNoSession when
// nothing is stored or the record has no id, and common.ErrSessionCorrupt
// when the stored value cannot be decoded.
func (s *Store) LoadUser(ctx context.Context) (models.User, error) {
	var u models.User
	raw, err := s.repo.Get(ctx, common.SessionUserKey)
	if err != nil {
		return u, fmt.Errorf("load session user: %w", err)
	}
	if raw == nil {
		return u, common.ErrNoSession
	}
	if err := json.Unmarshal(raw, &u); err != nil {
		return u, fmt.Errorf("%w: %v", common.ErrSessionCorrupt, err)
	}
	if !u.HasID() {
		return u, common.ErrNoSession
	}
	return u, nil
}

// SaveUser writes u with its badge recomputed.
func (s *Store) SaveUser(ctx context.Context, u models.User) error {
	u.Normalize()
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	return s.repo.Set(ctx, common.SessionUserKey, b)
}

// ReplaceUser clears any previous session value and writes u atomically.
func (s *Store) ReplaceUser(ctx context.Context, u models.User) error {
	u.Normalize()
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	return s.repo.Replace(ctx, common.SessionUserKey, b)
}

// ClearUser removes only the session reference; per-account caches stay.
func (s *Store) ClearUser(ctx context.Context) error {
	return s.repo.Delete(ctx, common.SessionUserKey)
}

// Entries reports the size in bytes of every stored value, keyed by storage
// key.
func (s *Store) Entries(ctx context.Context) (map[string]int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local storage: %w", err)
	}
	sizes := make(map[string]int, len(all))
	for k, v := range all {
		sizes[k] = len(v)
	}
	return sizes, nil
}

// ClearAll wipes local storage: the session reference and every
// per-account cache.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear local storage: %w", err)
	}
	return nil
}

// Cache reads a per-account value. ok is false when nothing is cached or the
// cached value does not decode.
func Cache[T any](ctx context.Context, s *Store, prefix, userID string) (v T, ok bool, err error) {
	raw, err := s.repo.Get(ctx, common.AccountKey(prefix, userID))
	if err != nil || raw == nil {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, nil
	}
	return v, true, nil
}

// PutCache writes a per-account value.
func PutCache[T any](ctx context.Context, s *Store, prefix, userID string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s cache: %w", prefix, err)
	}
	return s.repo.Set(ctx, common.AccountKey(prefix, userID), b)
}

func (s *Store) Wishlist(ctx context.Context, userID string) ([]models.WishlistItem, bool, error) {
	return Cache[[]models.WishlistItem](ctx, s, common.WishlistKeyPrefix, userID)
}

func (s *Store) SaveWishlist(ctx context.Context, userID string, items []models.WishlistItem) error {
	if items == nil {
		items = []models.WishlistItem{}
	}
	return PutCache(ctx, s, common.WishlistKeyPrefix, userID, items)
}

func (s *Store) PortfolioStatus(ctx context.Context, userID string) (models.PortfolioStatus, bool, error) {
	raw, ok, err := Cache[string](ctx, s, common.PortfolioStatusKey, userID)
	if !ok || err != nil {
		return models.PortfolioNone, ok, err
	}
	return models.ParsePortfolioStatus(raw), true, nil
}

func (s *Store) SavePortfolioStatus(ctx context.Context, userID string, st models.PortfolioStatus) error {
	return PutCache(ctx, s, common.PortfolioStatusKey, userID, string(st))
}

func (s *Store) Projects(ctx context.Context, userID string) ([]models.Project, error) {
	p, _, err := Cache[[]models.Project](ctx, s, common.UserProjectsKey, userID)
	return p, err
}

func (s *Store) SaveProjects(ctx context.Context, userID string, p []models.Project) error {
	if p == nil {
		p = []models.Project{}
	}
	return PutCache(ctx, s, common.UserProjectsKey, userID, p)
}

func (s *Store) Bookings(ctx context.Context, userID string) ([]models.Booking, bool, error) {
	return Cache[[]models.Booking](ctx, s, common.BookingsKeyPrefix, userID)
}

func (s *Store) SaveBookings(ctx context.Context, userID string, b []models.Booking) error {
	return PutCache(ctx, s, common.BookingsKeyPrefix, userID, b)
}

func (s *Store) Orders(ctx context.Context, userID string) ([]models.Order, bool, error) {
	return Cache[[]models.Order](ctx, s, common.OrdersKeyPrefix, userID)
}

func (s *Store) SaveOrders(ctx context.Context, userID string, o []models.Order) error {
	return PutCache(ctx, s, common.OrdersKeyPrefix, userID, o)
}
