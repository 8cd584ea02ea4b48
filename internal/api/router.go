// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/middleware"
)

// Router assembles the HTTP routes.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
	prefix        string
}

// NewRouter creates a router serving under prefix ("" or "/" for the root).
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, mw *ChiMiddleware, prefix string) *Router {
	if prefix == "/" {
		prefix = ""
	}
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		chiMiddleware: mw,
		prefix:        prefix,
	}
}

// Handler returns the configured chi router.
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDWithLogging)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	h := router.handler
	mount := func(sub chi.Router) {
		sub.Route("/health", func(hr chi.Router) {
			hr.Get("/live", h.HealthLive)
			hr.Get("/ready", h.HealthReady)
		})
		sub.Handle("/metrics", promhttp.Handler())

		sub.Group(func(api chi.Router) {
			api.Use(router.chiMiddleware.RateLimit())
			api.Use(middleware.PrometheusMetrics)
			api.Use(router.auth.Authenticate)

			api.Get("/", h.Root)

			api.Route("/auth", func(ar chi.Router) {
				ar.With(router.chiMiddleware.RateLimitAuth()).Group(func(login chi.Router) {
					login.Post("/session", h.AuthSession)
					login.Post("/demo", h.AuthDemo)
					login.Post("/magic-link", h.AuthMagicLink)
					login.Post("/magic-link/verify", h.AuthMagicLinkVerify)
				})
				ar.With(router.auth.RequireAuth).Get("/me", h.AuthMe)
				ar.Post("/logout", h.AuthLogout)
			})

			api.Route("/movies", func(mr chi.Router) {
				mr.Post("/validate", h.ValidateQuery)
				mr.Post("/recommend", h.Recommend)
				mr.Get("/{id}", h.MovieDetail)
			})

			api.Group(func(pr chi.Router) {
				pr.Use(router.auth.RequireAuth)

				pr.Post("/onboarding", h.Onboarding)
				pr.Put("/profile", h.UpdateProfile)
				pr.Post("/profile/generate-avatar", h.GenerateAvatar)

				pr.Get("/history", h.ListHistory)
				pr.Delete("/history", h.ClearHistory)

				pr.Get("/favorites", h.ListFavorites)
				pr.Post("/favorites", h.AddFavorite)
				pr.Delete("/favorites/{movie_id}", h.RemoveFavorite)
			})
		})
	}

	if router.prefix == "" {
		mount(r)
	} else {
		r.Route(router.prefix, mount)
	}
	return r
}
