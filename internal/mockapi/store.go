package mockapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/common"
	"github.com/voatnetwork/voat/internal/cryptox"
)

// OtpTTL matches the client's resend cooldown.
const OtpTTL = common.OtpResendCooldownSec * time.Second

var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrNoPendingSignup  = errors.New("no pending signup for email")
	ErrInvalidOtp       = errors.New("invalid otp")
	ErrOtpExpired       = errors.New("otp expired")
	ErrUserNotFound     = errors.New("user not found")
	ErrItemNotFound     = errors.New("wishlist item not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrBookingDecided   = errors.New("booking already decided")
	ErrInvalidAction    = errors.New("invalid booking action")
	ErrUploadNotFound   = errors.New("upload not found")
	ErrPortfolioMissing = errors.New("portfolio not found")

	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SignupRequest is the body of POST /api/signup.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=Freelancer Client"`
	Location string `json:"location" validate:"required"`
}

type account struct {
	user         models.User
	passwordHash string
}

type pendingSignup struct {
	req          SignupRequest
	passwordHash string
	otp          string
	expires      time.Time
}

// Portfolio is a stored submission.
type Portfolio struct {
	UserID         string                 `json:"userId"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	Profession     string                 `json:"profession"`
	Headline       string                 `json:"headline"`
	About          string                 `json:"about"`
	WorkExperience string                 `json:"workExperience"`
	PortfolioLink  string                 `json:"portfolioLink,omitempty"`
	ProfileImage   string                 `json:"profileImage,omitempty"`
	Initials       string                 `json:"profileInitials,omitempty"`
	Service        *models.ServicePayload `json:"service,omitempty"`
	CatalogueTags  []string               `json:"catalogueTags"`
	Grid           []models.GridRow       `json:"portfolioGrid"`
	Status         models.PortfolioStatus `json:"status"`
	SubmittedAt    time.Time              `json:"submittedAt"`
}

type upload struct {
	data []byte
	mime string
}

// Store keeps every mock API resource in memory behind one mutex.
type Store struct {
	mu         sync.Mutex
	accounts   map[string]*account
	byEmail    map[string]string
	pending    map[string]*pendingSignup
	wishlists  map[string][]models.WishlistItem
	bookings   map[string]*models.Booking
	bookingsBy map[string][]string
	orders     map[string][]models.Order
	portfolios map[string]*Portfolio
	services   map[string][]models.ServicePayload
	uploads    map[string]upload

	seedDemo bool
	otp      func() (string, error)
	now      func() time.Time
}

type StoreOptions struct {
	// FixedOTP, when set, is handed to every signup.
	FixedOTP string
	SeedDemo bool
}

func NewStore(opts StoreOptions) *Store {
	s := &Store{
		accounts:   map[string]*account{},
		byEmail:    map[string]string{},
		pending:    map[string]*pendingSignup{},
		wishlists:  map[string][]models.WishlistItem{},
		bookings:   map[string]*models.Booking{},
		bookingsBy: map[string][]string{},
		orders:     map[string][]models.Order{},
		portfolios: map[string]*Portfolio{},
		services:   map[string][]models.ServicePayload{},
		uploads:    map[string]upload{},
		seedDemo:   opts.SeedDemo,
		now:        time.Now,
	}
	s.otp = func() (string, error) { return common.RandomDigits(common.OtpLength) }
	if opts.FixedOTP != "" {
		code := opts.FixedOTP
		s.otp = func() (string, error) { return code, nil }
	}
	return s
}

func normEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Signup records a pending account and issues its first code. A repeated
// signup for the same email replaces the pending one.
func (s *Store) Signup(req SignupRequest) (models.User, string, error) {
	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return models.User{}, "", err
	}
	code, err := s.otp()
	if err != nil {
		return models.User{}, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := normEmail(req.Email)
	if _, ok := s.byEmail[email]; ok {
		return models.User{}, "", ErrEmailTaken
	}
	s.pending[email] = &pendingSignup{
		req:          req,
		passwordHash: hash,
		otp:          code,
		expires:      s.now().Add(OtpTTL),
	}
	return models.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     models.Role(req.Role),
		Location: req.Location,
		Badge:    models.BadgeBronze,
	}, code, nil
}

// ResendOtp replaces the code of a pending signup.
func (s *Store) ResendOtp(email string) (string, error) {
	code, err := s.otp()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[normEmail(email)]
	if !ok {
		return "", ErrNoPendingSignup
	}
	p.otp = code
	p.expires = s.now().Add(OtpTTL)
	return code, nil
}

// VerifyOtp turns a pending signup into an account.
func (s *Store) VerifyOtp(email, code string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normEmail(email)
	p, ok := s.pending[key]
	if !ok {
		return models.User{}, ErrNoPendingSignup
	}
	if s.now().After(p.expires) {
		return models.User{}, ErrOtpExpired
	}
	if p.otp != code {
		return models.User{}, ErrInvalidOtp
	}
	delete(s.pending, key)

	id := uuid.NewString()
	u := models.User{
		ID:       models.FlexString(id),
		Name:     p.req.Name,
		Email:    p.req.Email,
		Role:     models.Role(p.req.Role),
		Location: p.req.Location,
	}
	u.Normalize()
	s.accounts[id] = &account{user: u, passwordHash: p.passwordHash}
	s.byEmail[key] = id
	if s.seedDemo {
		s.seedLocked(id)
	}
	return u, nil
}

// Login returns the account whose password matches. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Store) Login(email, password string) (models.User, error) {
	s.mu.Lock()
	id, ok := s.byEmail[normEmail(email)]
	var a account
	if ok {
		a = *s.accounts[id]
	}
	s.mu.Unlock()
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	match, err := cryptox.VerifyPassword(password, a.passwordHash)
	if err != nil {
		return models.User{}, err
	}
	if !match {
		return models.User{}, ErrInvalidCredentials
	}
	return a.user, nil
}

func (s *Store) User(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return a.user, nil
}

// UpdateUserData stores the client generated identifier and points.
func (s *Store) UpdateUserData(id, voatID string, points int) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if voatID != "" {
		a.user.VoatID = voatID
	}
	a.user.VoatPoints = points
	a.user.Normalize()
	return a.user, nil
}

// ProfileChange carries the editable profile fields. A nil Image keeps the
// current one.
type ProfileChange struct {
	Name       string
	Email      string
	Role       string
	Profession string
	Phone      string
	Image      *string
}

func (s *Store) UpdateProfile(id string, ch ProfileChange) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if ch.Email != "" && normEmail(ch.Email) != normEmail(a.user.Email) {
		if _, taken := s.byEmail[normEmail(ch.Email)]; taken {
			return models.User{}, ErrEmailTaken
		}
		delete(s.byEmail, normEmail(a.user.Email))
		s.byEmail[normEmail(ch.Email)] = id
		a.user.Email = ch.Email
	}
	if ch.Name != "" {
		a.user.Name = ch.Name
	}
	if ch.Role != "" {
		a.user.Role = models.Role(ch.Role)
	}
	a.user.Profession = ch.Profession
	a.user.Phone = ch.Phone
	if ch.Image != nil {
		img := *ch.Image
		a.user.ProfileImage = &img
	}
	return a.user, nil
}

func (s *Store) Wishlist(userID string) []models.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WishlistItem, len(s.wishlists[userID]))
	copy(out, s.wishlists[userID])
	return out
}

func (s *Store) RemoveWishlistItem(userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.wishlists[userID]
	rest := models.WithoutWishlistItem(items, itemID)
	if len(rest) == len(items) {
		return ErrItemNotFound
	}
	s.wishlists[userID] = rest
	return nil
}

func (s *Store) ReplaceWishlist(userID string, items []models.WishlistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlists[userID] = append([]models.WishlistItem{}, items...)
}

// Bookings returns the provider's bookings in creation order.
func (s *Store) Bookings(userID string) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.bookingsBy[userID]
	out := make([]models.Booking, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.bookings[id])
	}
	return out
}

// AddBooking stores b for the provider userID, assigning an id when empty.
func (s *Store) AddBooking(userID string, b models.Booking) models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addBookingLocked(userID, b)
}

func (s *Store) addBookingLocked(userID string, b models.Booking) models.Booking {
	if b.ID == "" {
		b.ID = models.FlexString(uuid.NewString())
	}
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	s.bookings[string(b.ID)] = &b
	s.bookingsBy[userID] = append(s.bookingsBy[userID], string(b.ID))
	return b
}

// BookingAction accepts or rejects a pending booking.
func (s *Store) BookingAction(bookingID string, action models.BookingAction) (models.Booking, error) {
	var status models.BookingStatus
	switch action {
	case models.ActionAccept:
		status = models.BookingAccepted
	case models.ActionReject:
		status = models.BookingRejected
	default:
		return models.Booking{}, ErrInvalidAction
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return models.Booking{}, ErrBookingNotFound
	}
	if b.Status != models.BookingPending {
		return *b, ErrBookingDecided
	}
	b.Status = status
	return *b, nil
}

func (s *Store) Orders(userID string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders[userID]))
	copy(out, s.orders[userID])
	return out
}

// SubmitPortfolio stores p as pending review, replacing any earlier one.
func (s *Store) SubmitPortfolio(p Portfolio) Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Status = models.PortfolioPending
	p.SubmittedAt = s.now()
	s.portfolios[p.UserID] = &p
	return p
}

// Portfolio returns the stored submission, if any.
func (s *Store) Portfolio(userID string) (Portfolio, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.portfolios[userID]
	if !ok {
		return Portfolio{}, false
	}
	return *p, true
}

// ReviewPortfolio sets the review outcome of a stored submission.
func (s *Store) ReviewPortfolio(userID string, status models.PortfolioStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.portfolios[userID]
	if !ok {
		return ErrPortfolioMissing
	}
	p.Status = status
	return nil
}

func (s *Store) AddService(svc models.ServicePayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.UserID] = append(s.services[svc.UserID], svc)
}

func (s *Store) Services(userID string) []models.ServicePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ServicePayload(nil), s.services[userID]...)
}

// SaveUpload stores data under a fresh name that keeps the original
// extension and returns that name.
func (s *Store) SaveUpload(filename string, data []byte, mime string) string {
	ext := ""
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		ext = strings.ToLower(filename[i:])
	}
	name := uuid.NewString() + ext

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[name] = upload{data: data, mime: mime}
	return name
}

func (s *Store) Upload(name string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.uploads[name]
	if !ok {
		return nil, "", ErrUploadNotFound
	}
	return u.data, u.mime, nil
}

// seedLocked gives a new account something to reconcile.
func (s *Store) seedLocked(userID string) {
	s.wishlists[userID] = []models.WishlistItem{
		{ID: models.FlexString(uuid.NewString()), Service: "Logo Design", Provider: "Ada Studio", Price: "120", Rating: 4.8},
		{ID: models.FlexString(uuid.NewString()), Service: "Landing Page", Provider: "Brightline", Price: "450", Rating: 4.6},
		{ID: models.FlexString(uuid.NewString()), Service: "Podcast Editing", Provider: "Wavecraft", Price: "80", Rating: 4.9},
	}
	day := s.now().Format("2006-01-02")
	s.addBookingLocked(userID, models.Booking{ClientName: "Sam Rivera", ClientEmail: "sam@example.com", ServiceName: "Logo Design", ServicePrice: "120", RequestDate: day})
	s.addBookingLocked(userID, models.Booking{ClientName: "Priya Nair", ClientEmail: "priya@example.com", ServiceName: "Brand Kit", ServicePrice: "300", RequestDate: day})
	s.addBookingLocked(userID, models.Booking{ClientName: "Lee Chen", ClientEmail: "lee@example.com", ServiceName: "Icon Set", ServicePrice: "90", RequestDate: day, Status: models.BookingAccepted})
	s.orders[userID] = []models.Order{
		{ID: models.FlexString(uuid.NewString()), Service: "Copywriting", Provider: "Inkwell", Amount: "60", Date: day, Status: "completed"},
		{ID: models.FlexString(uuid.NewString()), Service: "Video Intro", Provider: "Framewise", Amount: "200", Date: day, Status: "in_progress"},
	}
}
