// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/plberthet/agenda-go/internal/auth"
	"github.com/plberthet/agenda-go/internal/middleware"
	"github.com/plberthet/agenda-go/internal/model"
)

// RouterConfig carries the wiring the router needs beyond the handlers
// themselves.
type RouterConfig struct {
	Issuer    *auth.TokenIssuer
	UploadDir string
	StaticDir string
	// ServeStatic enables SPA serving from StaticDir (production mode).
	ServeStatic bool
}

// NewRouter assembles the full HTTP surface: the JSON API under /api,
// uploaded images under /uploads/, and optionally the SPA bundle.
func NewRouter(h *Handler, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RoleHeader},
		MaxAge:         300,
	}))

	staff := []string{model.RoleEditor, model.RoleModerator, model.RoleAdmin}
	moderators := []string{model.RoleModerator, model.RoleAdmin}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.Issuer))

		r.Get("/health", h.Health)
		r.Get("/categories", h.ListCategories)
		r.Get("/settings", h.GetSettings)

		// Login is rate limited per IP against brute force.
		r.With(httprate.LimitByIP(10, time.Minute)).Post("/auth/login", h.Login)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Get("/{id}", h.GetEvent)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(staff...))
				r.Post("/", h.CreateEvent)
				r.Put("/{id}", h.UpdateEvent)
				r.Delete("/{id}", h.DeleteEvent)
				r.Post("/{id}/submit", h.SubmitEvent)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(moderators...))
				r.Post("/{id}/publish", h.PublishEvent)
				r.Post("/{id}/reject", h.RejectEvent)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(staff...))
			r.Post("/uploads", h.UploadImage)
			r.Get("/geocoding", h.Geocode)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))

			r.Get("/users", h.ListUsers)
			r.Post("/users", h.CreateUser)
			r.Put("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.DeleteUser)

			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.UpdateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)

			r.Put("/settings", h.UpdateSettings)
		})
	})

	// Uploaded images are served as-is from the upload directory.
	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		uploads.ServeHTTP(w, req)
	})

	if cfg.ServeStatic && cfg.StaticDir != "" {
		r.NotFound(spaHandler(cfg.StaticDir))
	}

	return r
}

// spaHandler serves the built frontend, falling back to index.html for
// client-side routes. API paths never reach it thanks to route order.
func spaHandler(staticDir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(staticDir))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			WriteErrors(w, http.StatusNotFound, "Ressource introuvable.")
			return
		}
		path := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	}
}
