package models

type WishlistItem struct {
	ID           FlexString `json:"id"`
	Service      string     `json:"service,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	Price        FlexString `json:"price,omitempty"`
	Rating       float64    `json:"rating,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`
}

// WithoutWishlistItem returns a copy of items without the given id.
func WithoutWishlistItem(items []WishlistItem, id string) []WishlistItem {
	out := make([]WishlistItem, 0, len(items))
	for _, it := range items {
		if string(it.ID) != id {
			out = append(out, it)
		}
	}
	return out
}

// WishlistDivergence describes how a cached wishlist differs from the server's.
type WishlistDivergence struct {
	ServerCount int
	LocalCount  int
	OnlyServer  []string
	OnlyLocal   []string
}

func (d WishlistDivergence) Consistent() bool {
	return d.ServerCount == d.LocalCount && len(d.OnlyServer) == 0 && len(d.OnlyLocal) == 0
}

// CompareWishlists reports count and id-set differences between two snapshots.
func CompareWishlists(server, local []WishlistItem) WishlistDivergence {
	d := WishlistDivergence{ServerCount: len(server), LocalCount: len(local)}
	inServer := make(map[string]struct{}, len(server))
	for _, it := range server {
		inServer[string(it.ID)] = struct{}{}
	}
	inLocal := make(map[string]struct{}, len(local))
	for _, it := range local {
		id := string(it.ID)
		inLocal[id] = struct{}{}
		if _, ok := inServer[id]; !ok {
			d.OnlyLocal = append(d.OnlyLocal, id)
		}
	}
	for _, it := range server {
		if _, ok := inLocal[string(it.ID)]; !ok {
			d.OnlyServer = append(d.OnlyServer, string(it.ID))
		}
	}
	return d
}

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingAccepted BookingStatus = "accepted"
	BookingRejected BookingStatus = "rejected"
)

type BookingAction string

const (
	ActionAccept BookingAction = "accept"
	ActionReject BookingAction = "reject"
)

type Booking struct {
	ID                 FlexString    `json:"id"`
	ClientName         string        `json:"clientName,omitempty"`
	ClientEmail        string        `json:"clientEmail,omitempty"`
	ClientProfileImage string        `json:"clientProfileImage,omitempty"`
	ServiceName        string        `json:"serviceName,omitempty"`
	ServicePrice       FlexString    `json:"servicePrice,omitempty"`
	RequestDate        string        `json:"requestDate,omitempty"`
	Status             BookingStatus `json:"status"`
}

// FilterBookings keeps bookings with the given status; "" or "all" keeps everything.
func FilterBookings(bookings []Booking, status string) []Booking {
	if status == "" || status == "all" {
		return append([]Booking(nil), bookings...)
	}
	var out []Booking
	for _, b := range bookings {
		if string(b.Status) == status {
			out = append(out, b)
		}
	}
	return out
}

type Order struct {
	ID       FlexString `json:"id"`
	Service  string     `json:"service,omitempty"`
	Provider string     `json:"provider,omitempty"`
	Amount   FlexString `json:"amount,omitempty"`
	Date     string     `json:"date,omitempty"`
	Status   string     `json:"status"`
}
