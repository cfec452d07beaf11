package mockapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voatnetwork/voat/internal/client/models"
)

func signupReq() SignupRequest {
	return SignupRequest{
		Name:     "Jordan Lee",
		Email:    "Jordan@Example.com",
		Password: "secret1",
		Role:     "Freelancer",
		Location: "Lisbon",
	}
}

func TestStore_SignupAndVerify(t *testing.T) {
	s := NewStore(StoreOptions{FixedOTP: "123456"})

	pending, code, err := s.Signup(signupReq())
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
	assert.Empty(t, pending.ID, "no id before verification")
	assert.Equal(t, models.BadgeBronze, pending.Badge)

	_, err = s.VerifyOtp("jordan@example.com", "000000")
	require.ErrorIs(t, err, ErrInvalidOtp)

	u, err := s.VerifyOtp(" jordan@example.com ", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Jordan Lee", u.Name)

	_, err = s.VerifyOtp("jordan@example.com", "123456")
	require.ErrorIs(t, err, ErrNoPendingSignup, "code is single use")

	_, _, err = s.Signup(signupReq())
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestStore_RandomOtpAndResend(t *testing.T) {
	s := NewStore(StoreOptions{})
	_, first, err := s.Signup(signupReq())
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, first)

	_, err = s.ResendOtp("nobody@example.com")
	require.ErrorIs(t, err, ErrNoPendingSignup)

	second, err := s.ResendOtp("jordan@example.com")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, second)

	_, err = s.VerifyOtp("jordan@example.com", second)
	require.NoError(t, err)
}

func TestStore_OtpExpires(t *testing.T) {
	s := NewStore(StoreOptions{FixedOTP: "123456"})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, _, err := s.Signup(signupReq())
	require.NoError(t, err)

	now = now.Add(OtpTTL + time.Second)
	_, err = s.VerifyOtp("jordan@example.com", "123456")
	require.ErrorIs(t, err, ErrOtpExpired)

	_, err = s.ResendOtp("jordan@example.com")
	require.NoError(t, err)
	_, err = s.VerifyOtp("jordan@example.com", "123456")
	require.NoError(t, err)
}

func TestStore_Login(t *testing.T) {
	s := NewStore(StoreOptions{FixedOTP: "123456"})
	_, _, err := s.Signup(signupReq())
	require.NoError(t, err)

	_, err = s.Login("jordan@example.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials, "pending signups cannot log in")

	created, err := s.VerifyOtp("jordan@example.com", "123456")
	require.NoError(t, err)

	u, err := s.Login("JORDAN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = s.Login("jordan@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func verified(t *testing.T, s *Store) models.User {
	t.Helper()
	_, code, err := s.Signup(signupReq())
	require.NoError(t, err)
	u, err := s.VerifyOtp("jordan@example.com", code)
	require.NoError(t, err)
	return u
}

func TestStore_SeedDemo(t *testing.T) {
	s := NewStore(StoreOptions{SeedDemo: true})
	u := verified(t, s)
	id := string(u.ID)

	assert.Len(t, s.Wishlist(id), 3)
	assert.Len(t, s.Orders(id), 2)
	bookings := s.Bookings(id)
	require.Len(t, bookings, 3)
	assert.Len(t, models.FilterBookings(bookings, "pending"), 2)

	empty := NewStore(StoreOptions{})
	u2 := verified(t, empty)
	assert.Empty(t, empty.Wishlist(string(u2.ID)))
	assert.Empty(t, empty.Bookings(string(u2.ID)))
}

func TestStore_UserDataAndProfile(t *testing.T) {
	s := NewStore(StoreOptions{})
	u := verified(t, s)
	id := string(u.ID)

	got, err := s.UpdateUserData(id, "VOAT-AAAA-BBBB", 260)
	require.NoError(t, err)
	assert.Equal(t, "VOAT-AAAA-BBBB", got.VoatID)
	assert.Equal(t, models.BadgeGold, got.Badge)

	_, err = s.UpdateUserData("missing", "x", 0)
	require.ErrorIs(t, err, ErrUserNotFound)

	img := "/uploads/a.png"
	got, err = s.UpdateProfile(id, ProfileChange{Name: "Jordan L", Email: "new@example.com", Phone: "555", Image: &img})
	require.NoError(t, err)
	assert.Equal(t, "Jordan L", got.Name)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, img, got.Image())

	_, err = s.Login("new@example.com", "secret1")
	require.NoError(t, err, "email index follows the change")

	got, err = s.UpdateProfile(id, ProfileChange{Name: "Jordan"})
	require.NoError(t, err)
	assert.Equal(t, img, got.Image(), "nil image keeps the current one")
}

func TestStore_Wishlist(t *testing.T) {
	s := NewStore(StoreOptions{})
	s.ReplaceWishlist("u1", []models.WishlistItem{{ID: "a"}, {ID: "b"}})

	require.NoError(t, s.RemoveWishlistItem("u1", "a"))
	require.ErrorIs(t, s.RemoveWishlistItem("u1", "a"), ErrItemNotFound)
	assert.Equal(t, []models.WishlistItem{{ID: "b"}}, s.Wishlist("u1"))

	got := s.Wishlist("u1")
	got[0].ID = "mutated"
	assert.Equal(t, models.FlexString("b"), s.Wishlist("u1")[0].ID, "callers get a copy")
}

func TestStore_BookingAction(t *testing.T) {
	s := NewStore(StoreOptions{})
	b := s.AddBooking("u1", models.Booking{ClientName: "Sam"})
	assert.Equal(t, models.BookingPending, b.Status)

	_, err := s.BookingAction(string(b.ID), "maybe")
	require.ErrorIs(t, err, ErrInvalidAction)

	_, err = s.BookingAction("missing", models.ActionAccept)
	require.ErrorIs(t, err, ErrBookingNotFound)

	got, err := s.BookingAction(string(b.ID), models.ActionReject)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, got.Status)

	_, err = s.BookingAction(string(b.ID), models.ActionAccept)
	require.ErrorIs(t, err, ErrBookingDecided)
}

func TestStore_PortfolioAndUploads(t *testing.T) {
	s := NewStore(StoreOptions{})

	_, ok := s.Portfolio("u1")
	assert.False(t, ok)
	require.ErrorIs(t, s.ReviewPortfolio("u1", models.PortfolioApproved), ErrPortfolioMissing)

	saved := s.SubmitPortfolio(Portfolio{UserID: "u1", Name: "Jordan"})
	assert.Equal(t, models.PortfolioPending, saved.Status)
	require.NoError(t, s.ReviewPortfolio("u1", models.PortfolioApproved))
	p, ok := s.Portfolio("u1")
	require.True(t, ok)
	assert.Equal(t, models.PortfolioApproved, p.Status)

	name := s.SaveUpload("Me.PNG", []byte("x"), "image/png")
	assert.Regexp(t, `^[0-9a-f-]{36}\.png$`, name)
	data, mime, err := s.Upload(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
	assert.Equal(t, "image/png", mime)

	_, _, err = s.Upload("nope")
	require.ErrorIs(t, err, ErrUploadNotFound)
}
