package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/RentalGo/internal/service"
	"github.com/utafrali/RentalGo/internal/view"
	"github.com/utafrali/RentalGo/pkg/health"
	"github.com/utafrali/RentalGo/pkg/middleware"
)

// Services groups the application services the router exposes.
type Services struct {
	Vehicles *service.VehicleService
	Bookings *service.BookingService
	Accounts *service.AccountService
	Contact  *service.ContactService
}

// RouterConfig holds the HTTP-level collaborators of the router.
type RouterConfig struct {
	Views              *view.Renderer
	Visitors           *middleware.Visitors
	FormLimiter        *middleware.RateLimiter
	Health             *health.Handler
	LoginRedirectDelay time.Duration
}

// RequestTimeout bounds the context of every routed request. It must stay
// below the server WriteTimeout so the timeout response can still be written.
const RequestTimeout = 10 * time.Second

// NewRouter creates a chi router with all rental routes registered.
func NewRouter(svc Services, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("rental"))
	r.Use(middleware.Tracing("rental"))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	pages := NewPageHandler(svc, cfg.Views, logger, cfg.LoginRedirectDelay)
	api := NewVehicleAPIHandler(svc.Vehicles, logger)

	r.NotFound(pages.NotFound)

	r.Group(func(r chi.Router) {
		r.Use(cfg.Visitors.Middleware)
		r.Use(middleware.RequestLogger(logger))

		// Pages read the visitor's store, so nothing here is cacheable.
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(cfg.FormLimiter.Middleware)

			r.Get("/", pages.Home)
			r.Get("/vehicles", pages.Vehicles)
			r.Get("/vehicles/grid", pages.Grid)
			r.Get("/details", pages.Details)

			r.Get("/booking", pages.BookingForm)
			r.Post("/booking", pages.SubmitBooking)
			r.Get("/contact", pages.ContactForm)
			r.Post("/contact", pages.SubmitContact)
			r.Get("/signup", pages.SignupForm)
			r.Post("/signup", pages.SubmitSignup)
			r.Get("/login", pages.LoginForm)
			r.Post("/login", pages.SubmitLogin)
			r.Post("/quick-search", pages.QuickSearch)
		})

		r.Route("/api/v1/vehicles", func(r chi.Router) {
			// List and stats answers name a server-side snapshot, so only the
			// requesting client may reuse them.
			r.Use(middleware.Cacheable(middleware.CachePolicy{MaxAge: time.Minute, Private: true}))

			r.Get("/", api.ListVehicles)
			r.Get("/stats", api.Stats)
			r.Get("/{id}", api.GetVehicle)
		})
	})

	return r
}
