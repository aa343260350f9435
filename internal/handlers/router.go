package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mirelio/api-console/internal/auth"
	"github.com/mirelio/api-console/pkg/ratelimit"
)

// Deps carries everything the router needs.
type Deps struct {
	Auth      *AuthHandler
	AuthSvc   *auth.Service
	Keys      *KeyHandler
	Usage     *UsageHandler
	Dashboard *DashboardHandler
	Flags     *FlagHandler
	Docs      *DocsHandler
	Live      *LiveHandler
	Limiter   ratelimit.Limiter
}

// NewRouter assembles the full HTTP surface.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", d.Auth.Login)

		// Docs are readable without a session.
		r.Get("/docs", d.Docs.List)
		r.Get("/docs/{id}", d.Docs.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(d.AuthSvc))

			r.Get("/auth/session", d.Auth.Session)
			r.Post("/auth/logout", d.Auth.Logout)

			r.Get("/dashboard/metrics", d.Dashboard.Metrics)
			r.Get("/live/metrics", d.Live.Metrics)

			r.Route("/usage", func(r chi.Router) {
				r.Get("/chart", d.Usage.Chart)
				r.Get("/chart.png", d.Usage.ChartPNG)
				r.Get("/table", d.Usage.Table)
				r.Get("/summary", d.Usage.Summary)
				r.Get("/breakdown/{date}", d.Usage.Breakdown)
				r.Get("/export", d.Usage.Export)
			})

			r.Route("/keys", func(r chi.Router) {
				r.Get("/", d.Keys.List)
				r.Get("/{id}", d.Keys.Get)

				// Mutations are additionally throttled.
				r.Group(func(r chi.Router) {
					r.Use(RateLimitMiddleware(d.Limiter))

					r.Post("/", d.Keys.Create)
					r.Post("/{id}/regenerate", d.Keys.Regenerate)
					r.Post("/{id}/revoke", d.Keys.Revoke)
					r.Delete("/{id}", d.Keys.Delete)
				})
			})

			r.Route("/flags", func(r chi.Router) {
				r.Get("/", d.Flags.List)
				r.Post("/{name}/toggle", d.Flags.Toggle)
				r.Post("/reset", d.Flags.Reset)
			})
		})
	})

	return r
}
