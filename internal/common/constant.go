// Package common contains shared constants, sentinel errors and small helpers
// used by the VOAT client and the mock API.
package common

// Local storage keys. Per-account caches are namespaced by user id.
const (
	SessionUserKey       = "user"
	WishlistKeyPrefix    = "wishlist_"
	PortfolioStatusKey   = "portfolio_status_"
	UserProjectsKey      = "user_projects_"
	BookingsKeyPrefix    = "bookings_"
	OrdersKeyPrefix      = "orders_"
	DefaultBackendURL    = "http://localhost:5000"
	VoatIDPrefix         = "VOAT"
	OtpLength            = 6
	OtpResendCooldownSec = 600
)

// AccountKey builds a namespaced local storage key, e.g. "wishlist_42".
func AccountKey(prefix, userID string) string {
	return prefix + userID
}
