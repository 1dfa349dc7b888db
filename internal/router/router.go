// Package router sets up all HTTP routes and middleware chains for Houston
// Texas Pro. It organizes routes into the public directory, the auth
// pages and the contractor dashboard, each with its own middleware stack.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"houstonpro/internal/handlers"
	"houstonpro/internal/imaging"
	"houstonpro/internal/middleware"
	"houstonpro/internal/session"
)

// maxDashboardBody bounds dashboard request bodies before the CSRF check
// parses them. It leaves room for a full-size photo upload.
const maxDashboardBody = imaging.MaxUploadSize + 1<<20

// Config holds everything the router wires together. LeadLimiter may be
// nil to disable rate limiting of quote requests. TrustProxy mounts
// chi's RealIP so the limiter and access log see the forwarded client
// address; leave it off unless a proxy sets those headers.
type Config struct {
	Sessions      *session.Store
	SecureCookies bool
	TrustProxy    bool
	ImageOrigins  []string
	Static        fs.FS
	LeadLimiter   *middleware.RateLimiter

	Public    *handlers.Public
	Pages     *handlers.Pages
	Auth      *handlers.Auth
	Dashboard *handlers.Dashboard
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(cfg Config) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(cfg.ImageOrigins...))

	r.NotFound(cfg.Public.NotFound)

	// Health check, no session, no CSRF.
	r.Get("/health", healthHandler)

	if cfg.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(cfg.Static))))
	}

	// Public directory. Pages are cached per contractor, so nothing here
	// may depend on the visitor's session.
	r.Get("/", cfg.Public.Home)
	r.Get("/categories", cfg.Public.Categories)
	r.Get("/categories/{category}", cfg.Public.Category)
	r.Get("/contractors", cfg.Public.Contractors)
	r.Get("/contractors/{slug}", cfg.Public.Profile)
	r.Get("/search", cfg.Public.Search)
	for _, name := range cfg.Pages.Names() {
		r.Get("/"+name, cfg.Pages.Show)
	}

	// Quote requests come from cached pages that carry no CSRF token;
	// they are rate limited per IP and filtered with a honeypot instead.
	r.Group(func(r chi.Router) {
		if cfg.LeadLimiter != nil {
			r.Use(cfg.LeadLimiter.Middleware)
		}
		r.Post("/contractors/{slug}/leads", cfg.Public.LeadSubmit)
	})

	csrf := middleware.NewCSRF(cfg.SecureCookies)

	// Auth pages, accessible without a session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(cfg.Sessions))
		r.Use(csrf)

		r.Get("/login", cfg.Auth.LoginPage)
		r.Post("/login", cfg.Auth.LoginSubmit)
		r.Get("/register", cfg.Auth.RegisterPage)
		r.Post("/register", cfg.Auth.RegisterSubmit)
		r.Post("/logout", cfg.Auth.Logout)

		// 2FA, requires a session but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/verify", cfg.Auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", cfg.Auth.TwoFAVerifySubmit)
		})
	})

	// Authenticated + 2FA-verified contractor dashboard.
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(chimw.RequestSize(maxDashboardBody))
		r.Use(middleware.LoadSession(cfg.Sessions))
		r.Use(csrf)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)
		r.Use(middleware.RequireContractor)

		d := cfg.Dashboard
		r.Get("/", d.Overview)
		r.Get("/qrcode.png", d.QRCode)

		r.Get("/leads", d.Leads)
		r.Post("/leads/{id}/status", d.LeadStatus)

		r.Get("/reviews", d.Reviews)
		r.Post("/reviews/{id}/response", d.ReviewRespond)

		r.Get("/profile", d.Profile)
		r.Post("/profile", d.ProfileSave)

		r.Get("/template", d.Template)
		r.Post("/template", d.TemplateSave)
		r.Post("/template/trade-defaults", d.TemplateTradeDefaults)

		r.Get("/gallery", d.Gallery)
		r.Post("/gallery", d.GalleryUpload)
		r.Post("/gallery/{id}/delete", d.GalleryDelete)

		r.Get("/security", d.Security)
		r.Post("/security/2fa", d.TwoFAEnable)
		r.Post("/security/2fa/disable", d.TwoFADisable)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
