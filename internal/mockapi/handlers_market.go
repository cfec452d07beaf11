package mockapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voatnetwork/voat/internal/client/models"
)

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, h.store.Wishlist(chi.URLParam(r, "userId")))
}

func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId" validate:"required"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := h.validateStruct(&req); fields != nil {
		h.respondValidation(w, r, fields)
		return
	}

	if err := h.store.RemoveWishlistItem(req.UserID, chi.URLParam(r, "itemId")); err != nil {
		h.respondError(w, r, http.StatusNotFound, "Item not found in wishlist")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

// ReplaceWishlist is the bulk fallback used when a targeted delete fails.
func (h *Handler) ReplaceWishlist(w http.ResponseWriter, r *http.Request) {
	var items []models.WishlistItem
	if err := decodeJSON(r, &items); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.store.ReplaceWishlist(chi.URLParam(r, "userId"), items)
	h.respondJSON(w, r, http.StatusOK, map[string]any{"success": true, "count": len(items)})
}

func (h *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, h.store.Bookings(chi.URLParam(r, "userId")))
}

func (h *Handler) BookingAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action" validate:"required,oneof=accept reject"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := h.validateStruct(&req); fields != nil {
		h.respondValidation(w, r, fields)
		return
	}

	b, err := h.store.BookingAction(chi.URLParam(r, "bookingId"), models.BookingAction(req.Action))
	switch {
	case errors.Is(err, ErrBookingNotFound):
		h.respondError(w, r, http.StatusNotFound, "Booking not found")
		return
	case errors.Is(err, ErrBookingDecided):
		h.respondError(w, r, http.StatusConflict, "Booking has already been "+string(b.Status))
		return
	case err != nil:
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{"success": true, "booking": b})
}

func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, h.store.Orders(chi.URLParam(r, "userId")))
}
