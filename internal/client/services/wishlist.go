package services

import (
	"context"
	"slices"

	"github.com/voatnetwork/voat/internal/client/events"
	"github.com/voatnetwork/voat/internal/client/models"
)

// RefreshWishlist fetches the wishlist and replaces memory and cache. On
// failure it falls back to the cached copy, else to an empty list. The
// cache is only written after a successful fetch.
func (d *Dashboard) RefreshWishlist(ctx context.Context) []models.WishlistItem {
	uid, err := d.userID()
	if err != nil {
		return nil
	}
	d.mu.Lock()
	seq := d.wishlistSeq.next()
	d.mu.Unlock()

	items, err := d.client.GetWishlist(ctx, uid)
	if err != nil {
		d.log.Warn(ctx, "fetch wishlist, using cache", "error", err)
		cached, ok, cerr := d.store.Wishlist(ctx, uid)
		if cerr != nil {
			d.log.Warn(ctx, "read wishlist cache", "error", cerr)
		}
		if !ok {
			cached = []models.WishlistItem{}
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.wishlistSeq.apply(seq) {
			d.wishlist = cached
		}
		return slices.Clone(d.wishlist)
	}

	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	d.mu.Lock()
	if !d.wishlistSeq.apply(seq) {
		stale := slices.Clone(d.wishlist)
		d.mu.Unlock()
		d.log.Debug(ctx, "dropping stale wishlist response", "seq", seq)
		return stale
	}
	items = d.setWishlistLocked(items)
	d.mu.Unlock()

	d.saveWishlist(ctx, uid, items)
	return slices.Clone(items)
}

// setWishlistLocked swaps in items and returns a copy for the cache write.
func (d *Dashboard) setWishlistLocked(items []models.WishlistItem) []models.WishlistItem {
	if items == nil {
		items = []models.WishlistItem{}
	}
	d.wishlist = items
	return slices.Clone(items)
}

// saveWishlist writes the cache. Callers hold cacheMu but not mu.
func (d *Dashboard) saveWishlist(ctx context.Context, uid string, items []models.WishlistItem) {
	if err := d.store.SaveWishlist(ctx, uid, items); err != nil {
		d.log.Warn(ctx, "write wishlist cache", "error", err)
	}
}

// onWishlistUpdated handles a change made elsewhere, e.g. by the cart. A
// payload is trusted as is; without one the wishlist is refetched.
func (d *Dashboard) onWishlistUpdated(ev events.WishlistUpdated) {
	uid, err := d.userID()
	if err != nil || (ev.UserID != "" && ev.UserID != uid) {
		return
	}
	ctx := d.liveContext()
	if ctx == nil {
		return
	}
	if !ev.HasItems {
		d.RefreshWishlist(ctx)
		return
	}

	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	d.mu.Lock()
	d.wishlistSeq.local()
	items := d.setWishlistLocked(slices.Clone(ev.Items))
	d.mu.Unlock()

	d.saveWishlist(ctx, uid, items)
	d.log.Debug(ctx, "wishlist updated from event", "items", len(ev.Items))
}

// RemoveWishlistItem drops itemID from memory and cache immediately, then
// deletes it remotely. If the targeted delete fails the remaining list is
// pushed as a bulk replace. Remote failures are logged and never rolled
// back; the next successful refresh decides.
func (d *Dashboard) RemoveWishlistItem(ctx context.Context, itemID string) error {
	uid, err := d.userID()
	if err != nil {
		return err
	}

	d.cacheMu.Lock()
	d.mu.Lock()
	remaining := models.WithoutWishlistItem(d.wishlist, itemID)
	d.wishlistSeq.local()
	remaining = d.setWishlistLocked(remaining)
	d.mu.Unlock()
	d.saveWishlist(ctx, uid, remaining)
	d.cacheMu.Unlock()

	d.notify(NotifySystem, "Item removed from your wishlist")

	if err := d.client.RemoveWishlistItem(ctx, uid, itemID); err != nil {
		d.log.Warn(ctx, "remote wishlist delete failed, replacing list", "item_id", itemID, "error", err)
		if err := d.client.ReplaceWishlist(ctx, uid, remaining); err != nil {
			d.log.Warn(ctx, "remote wishlist replace failed", "error", err)
		}
	}
	return nil
}

// CheckWishlistConsistency compares the cached wishlist with the server's
// and logs any divergence. It changes nothing.
func (d *Dashboard) CheckWishlistConsistency(ctx context.Context) (models.WishlistDivergence, error) {
	uid, err := d.userID()
	if err != nil {
		return models.WishlistDivergence{}, err
	}
	server, err := d.client.GetWishlist(ctx, uid)
	if err != nil {
		return models.WishlistDivergence{}, err
	}
	local, _, err := d.store.Wishlist(ctx, uid)
	if err != nil {
		return models.WishlistDivergence{}, err
	}

	div := models.CompareWishlists(server, local)
	if !div.Consistent() {
		d.log.Warn(ctx, "wishlist cache diverges from server",
			"server_count", div.ServerCount,
			"local_count", div.LocalCount,
			"only_server", div.OnlyServer,
			"only_local", div.OnlyLocal)
	}
	return div, nil
}
