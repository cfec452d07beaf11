package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/voatnetwork/voat/internal/client/models"
)

// RefreshBookings fetches incoming booking requests, falling back to the
// cached copy on failure.
func (d *Dashboard) RefreshBookings(ctx context.Context) []models.Booking {
	uid, err := d.userID()
	if err != nil {
		return nil
	}
	d.mu.Lock()
	seq := d.bookingsSeq.next()
	d.mu.Unlock()

	items, err := d.client.GetBookings(ctx, uid)
	fetched := err == nil
	if !fetched {
		d.log.Warn(ctx, "fetch bookings, using cache", "error", err)
		items, _, _ = d.store.Bookings(ctx, uid)
	}

	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	d.mu.Lock()
	if !d.bookingsSeq.apply(seq) {
		cur := slices.Clone(d.bookings)
		d.mu.Unlock()
		return cur
	}
	d.bookings = items
	d.mu.Unlock()

	if fetched {
		if err := d.store.SaveBookings(ctx, uid, items); err != nil {
			d.log.Warn(ctx, "write bookings cache", "error", err)
		}
	}
	return slices.Clone(items)
}

// Bookings returns the bookings with the given status; "all" or "" keeps
// everything.
func (d *Dashboard) Bookings(status string) []models.Booking {
	d.mu.Lock()
	defer d.mu.Unlock()
	return models.FilterBookings(d.bookings, status)
}

// BookingAction accepts or rejects a booking request and refreshes the list.
func (d *Dashboard) BookingAction(ctx context.Context, bookingID string, action models.BookingAction) error {
	if action != models.ActionAccept && action != models.ActionReject {
		return fmt.Errorf("unknown booking action %q", action)
	}
	if err := d.client.BookingAction(ctx, bookingID, action); err != nil {
		d.notify(NotifySystem, fmt.Sprintf("Failed to %s booking request", action))
		d.log.Warn(ctx, "booking action", "booking_id", bookingID, "action", string(action), "error", err)
		return fmt.Errorf("booking %s: %w", action, err)
	}
	d.notify(NotifySystem, fmt.Sprintf("Booking request %sed successfully!", action))
	d.RefreshBookings(ctx)
	return nil
}

// RefreshOrders fetches the account's orders, falling back to the cached
// copy on failure.
func (d *Dashboard) RefreshOrders(ctx context.Context) []models.Order {
	uid, err := d.userID()
	if err != nil {
		return nil
	}
	d.mu.Lock()
	seq := d.ordersSeq.next()
	d.mu.Unlock()

	items, err := d.client.GetOrders(ctx, uid)
	fetched := err == nil
	if !fetched {
		d.log.Warn(ctx, "fetch orders, using cache", "error", err)
		items, _, _ = d.store.Orders(ctx, uid)
	}

	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	d.mu.Lock()
	if !d.ordersSeq.apply(seq) {
		cur := slices.Clone(d.orders)
		d.mu.Unlock()
		return cur
	}
	d.orders = items
	d.mu.Unlock()

	if fetched {
		if err := d.store.SaveOrders(ctx, uid, items); err != nil {
			d.log.Warn(ctx, "write orders cache", "error", err)
		}
	}
	return slices.Clone(items)
}
