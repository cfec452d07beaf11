package client

import (
	"context"

	"github.com/voatnetwork/voat/internal/client/models"
)

// SignupRequest is the payload of POST /api/signup.
type SignupRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Location string      `json:"location"`
}

// UserDataUpdate pushes a locally generated identifier to the server.
type UserDataUpdate struct {
	UserID     string       `json:"userId"`
	VoatID     string       `json:"voatId"`
	VoatPoints int          `json:"voatPoints"`
	Badge      models.Badge `json:"badge"`
}

// ProfileUpdate is the multipart profile edit. Image is optional.
type ProfileUpdate struct {
	Form  models.ProfileForm
	User  models.User
	Image *models.MediaFile
}

// PortfolioRecord is the reply of GET /api/portfolio/user/:id.
type PortfolioRecord struct {
	HasPortfolio bool
	Status       models.PortfolioStatus
}

type Client interface {
	BaseURL() string
	Ping(ctx context.Context) error

	Signup(ctx context.Context, req SignupRequest) (models.UserPatch, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (models.UserPatch, error)
	Login(ctx context.Context, email, password string) (models.UserPatch, error)

	GetUser(ctx context.Context, userID string) (models.UserPatch, error)
	UpdateUserData(ctx context.Context, upd UserDataUpdate) error
	UpdateProfile(ctx context.Context, upd ProfileUpdate) (profileImage string, err error)

	GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error)
	RemoveWishlistItem(ctx context.Context, userID, itemID string) error
	ReplaceWishlist(ctx context.Context, userID string, items []models.WishlistItem) error

	GetBookings(ctx context.Context, userID string) ([]models.Booking, error)
	BookingAction(ctx context.Context, bookingID string, action models.BookingAction) error
	GetOrders(ctx context.Context, userID string) ([]models.Order, error)

	GetPortfolioStatus(ctx context.Context, userID string) (models.PortfolioStatus, error)
	GetUserPortfolio(ctx context.Context, userID string) (PortfolioRecord, error)
	SubmitPortfolio(ctx context.Context, sub models.PortfolioSubmission) error
	AddService(ctx context.Context, svc models.ServicePayload) error
}
