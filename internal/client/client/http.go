package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/voatnetwork/voat/internal/client/models"
)

const (
	DefaultRequestTimeout = 10 * time.Second
	maxResponseBytes      = 10 << 20
)

type Options struct {
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	HTTP      *http.Client
}

// HTTPClient implements Client over JSON/HTTP. Every call is bounded by the
// configured timeout and waits on a shared token bucket before sending.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}
	if opts.HTTP == nil {
		opts.HTTP = &http.Client{}
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: opts.Timeout,
		http:    opts.HTTP,
		limiter: rate.NewLimiter(limit, opts.RateBurst),
	}
}

func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/test-connection", map[string]bool{"test": true}, nil)
}

type userEnvelope struct {
	Success *bool             `json:"success,omitempty"`
	User    *models.UserPatch `json:"user,omitempty"`
	Message string            `json:"message,omitempty"`
}

func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (models.UserPatch, error) {
	var out userEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/signup", req, &out); err != nil {
		return models.UserPatch{}, err
	}
	if out.Success == nil || !*out.Success {
		return models.UserPatch{}, fmt.Errorf("signup: %w", ErrInvalidResponse)
	}
	if out.User == nil {
		return models.UserPatch{}, nil
	}
	return *out.User, nil
}

func (c *HTTPClient) SendOTP(ctx context.Context, email string) error {
	var out userEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/send-otp", map[string]string{"email": email}, &out); err != nil {
		return err
	}
	if out.Success != nil && !*out.Success {
		return fmt.Errorf("send otp: %w", ErrRejected)
	}
	return nil
}

// VerifyOTP succeeds only when the reply has success=true and a user.
func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) (models.UserPatch, error) {
	var out userEnvelope
	body := map[string]string{"email": email, "otp": otp}
	if err := c.doJSON(ctx, http.MethodPost, "/api/verify-otp", body, &out); err != nil {
		return models.UserPatch{}, err
	}
	if out.Success == nil || !*out.Success || out.User == nil {
		return models.UserPatch{}, fmt.Errorf("verify otp: %w", ErrRejected)
	}
	return *out.User, nil
}

// Login follows the same envelope rules as VerifyOTP.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.UserPatch, error) {
	var out userEnvelope
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return models.UserPatch{}, err
	}
	if out.Success == nil || !*out.Success || out.User == nil {
		return models.UserPatch{}, fmt.Errorf("login: %w", ErrRejected)
	}
	return *out.User, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, userID string) (models.UserPatch, error) {
	var out userEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return models.UserPatch{}, err
	}
	if out.User == nil {
		return models.UserPatch{}, fmt.Errorf("get user: %w", ErrInvalidResponse)
	}
	return *out.User, nil
}

func (c *HTTPClient) UpdateUserData(ctx context.Context, upd UserDataUpdate) error {
	return c.doJSON(ctx, http.MethodPost, "/api/update-user-data", upd, nil)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd ProfileUpdate) (string, error) {
	fields := [][2]string{
		{"name", upd.Form.Name},
		{"email", upd.Form.Email},
		{"role", string(upd.Form.Role)},
		{"profession", upd.Form.Profession},
		{"phone", upd.Form.Phone},
		{"userId", string(upd.User.ID)},
		{"voatId", upd.User.VoatID},
		{"voatPoints", strconv.Itoa(upd.User.VoatPoints)},
		{"badge", string(upd.User.Badge)},
	}

	body, contentType, err := buildMultipart(fields, func(w *multipart.Writer) error {
		if upd.Image == nil {
			return nil
		}
		return writeMediaPart(w, "profileImage", upd.Image)
	})
	if err != nil {
		return "", err
	}

	var out struct {
		ProfileImage string `json:"profileImage"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/update-profile", body, contentType, &out); err != nil {
		return "", err
	}
	return out.ProfileImage, nil
}

func (c *HTTPClient) GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	var out []models.WishlistItem
	if err := c.doJSON(ctx, http.MethodGet, "/api/wishlist/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.WishlistItem{}
	}
	return out, nil
}

func (c *HTTPClient) RemoveWishlistItem(ctx context.Context, userID, itemID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/wishlist/remove/"+url.PathEscape(itemID),
		map[string]string{"userId": userID}, nil)
}

func (c *HTTPClient) ReplaceWishlist(ctx context.Context, userID string, items []models.WishlistItem) error {
	if items == nil {
		items = []models.WishlistItem{}
	}
	return c.doJSON(ctx, http.MethodPost, "/api/wishlist/"+url.PathEscape(userID), items, nil)
}

func (c *HTTPClient) GetBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) BookingAction(ctx context.Context, bookingID string, action models.BookingAction) error {
	return c.doJSON(ctx, http.MethodPut, "/api/booking/"+url.PathEscape(bookingID)+"/action",
		map[string]string{"action": string(action)}, nil)
}

func (c *HTTPClient) GetOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetPortfolioStatus(ctx context.Context, userID string) (models.PortfolioStatus, error) {
	var out struct {
		Status *string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/portfolio-status/"+url.PathEscape(userID), nil, &out); err != nil {
		return models.PortfolioNone, err
	}
	if out.Status == nil {
		return models.PortfolioNone, nil
	}
	return models.ParsePortfolioStatus(*out.Status), nil
}

func (c *HTTPClient) GetUserPortfolio(ctx context.Context, userID string) (PortfolioRecord, error) {
	var out struct {
		HasPortfolio bool `json:"hasPortfolio"`
		Portfolio    *struct {
			Status string `json:"status"`
		} `json:"portfolio"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/portfolio/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return PortfolioRecord{}, err
	}
	rec := PortfolioRecord{HasPortfolio: out.HasPortfolio}
	if out.Portfolio != nil {
		rec.Status = models.ParsePortfolioStatus(out.Portfolio.Status)
	}
	return rec, nil
}

func (c *HTTPClient) SubmitPortfolio(ctx context.Context, sub models.PortfolioSubmission) error {
	f := sub.Form
	fields := [][2]string{
		{"name", f.Name},
		{"profession", f.Profession},
		{"headline", f.Headline},
		{"email", f.Email},
		{"workExperience", f.WorkExperience},
		{"portfolioLink", f.PortfolioLink},
		{"about", f.About},
		{"userId", sub.UserID},
	}
	if sub.ProfileImage != "" {
		fields = append(fields, [2]string{"profileImagePath", sub.ProfileImage}, [2]string{"hasProfileImage", "true"})
	} else {
		name := sub.UserName
		if name == "" {
			name = "User"
		}
		fields = append(fields,
			[2]string{"profileInitials", models.Initials(sub.UserName)},
			[2]string{"userName", name},
			[2]string{"hasProfileImage", "false"})
	}
	fields = append(fields, [2]string{"isNewSubmission", "true"})

	jsonFields := map[string]any{
		"catalogueTags": sub.Tags,
		"portfolioGrid": sub.Grid,
	}
	if f.ServiceName != "" && f.ServiceDescription != "" {
		jsonFields["service"] = sub.Service()
	}
	for _, k := range []string{"service", "catalogueTags", "portfolioGrid"} {
		v, ok := jsonFields[k]
		if !ok {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		fields = append(fields, [2]string{k, string(b)})
	}

	body, contentType, err := buildMultipart(fields, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/portfolio", body, contentType, nil)
}

func (c *HTTPClient) AddService(ctx context.Context, svc models.ServicePayload) error {
	if svc.Pricing == nil {
		svc.Pricing = []models.PricingTier{}
	}
	return c.doJSON(ctx, http.MethodPost, "/api/add-service", svc, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, method, path, err)
	}
	return nil
}

// serverMessage extracts "message", else "error", from an error payload.
func serverMessage(data []byte) string {
	var p struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return ""
	}
	if p.Message != "" {
		return p.Message
	}
	return p.Error
}

func buildMultipart(fields [][2]string, extra func(*multipart.Writer) error) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if extra != nil {
		if err := extra(w); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeMediaPart(w *multipart.Writer, field string, m *models.MediaFile) error {
	data, err := m.Bytes()
	if err != nil {
		return fmt.Errorf("decode %s: %w", m.Name, err)
	}
	part, err := w.CreateFormFile(field, m.Name)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	return nil
}

// IsUnavailable reports a transport-level failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
