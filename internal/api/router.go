// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/curatus/internal/config"
	"github.com/tomtom215/curatus/internal/profile"
	"github.com/tomtom215/curatus/internal/recommend"
)

// Router assembles the HTTP surface.
type Router struct {
	handler    *Handler
	middleware *ChiMiddleware
}

// NewRouter creates a router over the engine and profile store.
func NewRouter(engine *recommend.Engine, profiles *profile.Store, cfg *config.Config) *Router {
	return &Router{
		handler:    NewHandler(engine, profiles, cfg),
		middleware: NewChiMiddleware(&cfg.API),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// global middleware, applied to all routes in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(RequestMetrics())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())

		r.Get("/health", router.handler.Health)
		r.Get("/survey", router.handler.Survey)

		r.Post("/recommendations", router.handler.PersonalizedRecommendations)
		r.Get("/recommendations/content/{title}", router.handler.ContentRecommendations)
		r.Get("/recommendations/collaborative/{userID}", router.handler.CollaborativeRecommendations)
		r.Get("/recommendations/hybrid/{userID}", router.handler.HybridRecommendations)

		r.Post("/evaluate", router.handler.Evaluate)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/profile", router.handler.GetProfile)

			// profile mutations get the stricter write limiter
			r.Group(func(r chi.Router) {
				r.Use(router.middleware.RateLimitWrite())
				r.Post("/ratings", router.handler.RateTitle)
				r.Post("/watch", router.handler.AddWatchEvent)
			})
		})
	})

	return r
}
