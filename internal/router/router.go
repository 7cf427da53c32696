// Package router sets up all HTTP routes and middleware chains for
// thumbcraft. Generation endpoints sit behind a per-client rate limiter.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thumbcraft/internal/handlers"
	"thumbcraft/internal/middleware"
)

// New creates and returns the configured Chi router. downloads may be nil
// when no blob cache is configured; limiter may be nil to disable rate
// limiting.
func New(thumbs *handlers.Thumbnails, catalog *handlers.Catalog, downloads *handlers.Downloads, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Get("/sizes", catalog.Sizes)
		r.Get("/presets", catalog.Presets)
		r.Get("/presets/{id}", catalog.Preset)
		r.Post("/effects/preview", catalog.EffectsPreview)

		r.Route("/thumbnails", func(r chi.Router) {
			r.Get("/", thumbs.List)

			// Generation calls the image provider.
			r.Group(func(r chi.Router) {
				if limiter != nil {
					r.Use(limiter.Middleware)
				}
				r.Post("/", thumbs.Create)
				r.Post("/live", thumbs.Live)
			})

			r.Get("/{id}", thumbs.Get)
			r.Put("/{id}", thumbs.Update)
			r.Delete("/{id}", thumbs.Delete)
			r.Get("/{id}/download", thumbs.Download)
		})

		if downloads != nil {
			r.Get("/downloads/{token}", downloads.Serve)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not Found"}`))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"Method Not Allowed"}`))
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
