package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wadjakorntonsri/folio/pkg/catalog"
	"github.com/wadjakorntonsri/folio/pkg/config"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

const requestTimeout = 10 * time.Second

// Deps are the services the router dispatches to
type Deps struct {
	Links      ports.LinkService
	Profiles   ports.ProfileService
	Engagement ports.EngagementService
	Catalog    *catalog.Catalog
	Ready      func(ctx context.Context) error // nil means always ready
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, log logger.Logger, d Deps) http.Handler {
	links := NewLinkHandler(d.Links, log)
	profiles := NewProfileHandler(d.Profiles, d.Catalog, log)
	public := NewPublicHandler(d.Profiles, d.Engagement, log)
	analytics := NewAnalyticsHandler(d.Engagement, log)
	auth := NewAuthHandler(cfg, d.Profiles, log)
	mw := NewMiddleware(cfg)

	tracking := RateLimit(RateLimitConfig{
		Burst:      cfg.RateLimitBurst,
		PerMinute:  cfg.RateLimitPerMin,
		TrustProxy: cfg.TrustProxy,
	})

	r := chi.NewRouter()
	r.Use(middleware.GetHead)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(AccessLog(log))

	// Public routes
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				log.Warn("readiness check failed", logger.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "ready"})
	})
	r.Get("/auth/google/login", auth.Login)
	r.Get("/auth/google/callback", auth.Callback)
	r.Get("/auth/logout", auth.Logout)
	r.With(tracking).Get("/l/{username}/{id}", public.Redirect)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", profiles.Catalog)

		r.Route("/public/{username}", func(r chi.Router) {
			r.Get("/", public.Page)
			r.With(tracking).Post("/views", public.RecordView)
			r.With(tracking).Post("/links/{id}/clicks", public.RecordClick)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware)

			r.Get("/me", profiles.Me)
			r.Put("/me", profiles.Update)
			r.Put("/me/username", profiles.SetUsername)

			r.Get("/links", links.List)
			r.Post("/links", links.Create)
			r.Put("/links/order", links.Reorder)
			r.Post("/links/move", links.Move)
			r.Patch("/links/{id}", links.Update)
			r.Delete("/links/{id}", links.Delete)
			r.Post("/links/{id}/toggle", links.Toggle)

			r.Get("/analytics", analytics.Report)
			r.Get("/analytics/events", analytics.Events)
		})
	})

	return r
}
