package mockapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/voatnetwork/voat/internal/logging"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Development    bool
	AllowedOrigins []string
}

// NewRouter mounts every endpoint of the remote API on a chi router with
// CORS, request ids, request logging and panic recovery.
func NewRouter(h *Handler, log logging.Logger, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if opts.Development {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "service": "VOAT mock API"})
	})
	r.Get("/uploads/{name}", h.Upload)

	r.Route("/api", func(r chi.Router) {
		r.Post("/test-connection", h.TestConnection)

		r.Post("/signup", h.Signup)
		r.Post("/send-otp", h.SendOTP)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/login", h.Login)

		r.Get("/user/{userId}", h.GetUser)
		r.Post("/update-user-data", h.UpdateUserData)
		r.Post("/update-profile", h.UpdateProfile)

		r.Get("/wishlist/{userId}", h.GetWishlist)
		r.Post("/wishlist/{userId}", h.ReplaceWishlist)
		r.Delete("/wishlist/remove/{itemId}", h.RemoveWishlistItem)

		r.Get("/bookings/{userId}", h.GetBookings)
		r.Put("/booking/{bookingId}/action", h.BookingAction)
		r.Get("/orders/{userId}", h.GetOrders)

		r.Get("/portfolio-status/{userId}", h.PortfolioStatus)
		r.Put("/portfolio-status/{userId}", h.ReviewPortfolio)
		r.Get("/portfolio/user/{userId}", h.UserPortfolio)
		r.Post("/portfolio", h.SubmitPortfolio)
		r.Post("/add-service", h.AddService)
	})

	return r
}
