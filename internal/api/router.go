// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calderonm/vianda/internal/auth"
	"github.com/calderonm/vianda/internal/middleware"
)

// Router sets up the HTTP routes on a Chi router.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router around the handler set. The Chi middleware
// factory is built from the same security configuration the auth
// middleware was.
func NewRouter(handler *Handler, middleware *auth.Middleware) *Router {
	return &Router{
		handler:       handler,
		middleware:    middleware,
		chiMiddleware: NewChiMiddlewareFromSecurity(handler.config.Security),
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler, so the HandlerFunc-style middleware
// package works with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order: request IDs
	// first so all later log lines carry one, RealIP before rate limiting
	// so limits key on the client address, CORS global so OPTIONS
	// preflight works on every path.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Probes and the Prometheus scrape target stay outside auth: the
	// orchestrator and the scraper hold no tokens.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/health", router.handler.Health)
		r.Get("/ready", router.handler.Ready)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(router.middleware.RequireAuth)

		// Analytics reads: cached, compressed, permissive limits so a
		// dashboard loading every panel at once stays inside them.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAnalytics())
			if timeout := router.handler.config.API.RequestTimeout; timeout > 0 {
				r.Use(chimiddleware.Timeout(timeout))
			}
			r.Use(chiMiddleware(middleware.Compression))

			r.Get("/summary", router.handler.Summary)
			r.Get("/dimensions/{dimension}/metrics", router.handler.DimensionMetrics)
			r.Get("/dimensions/{dimension}/distributions", router.handler.DimensionDistributions)
			r.Get("/dimensions/{dimension}/trend", router.handler.DimensionTrend)
			r.Get("/problems", router.handler.Problems)
			r.Get("/recommendations", router.handler.Recommendations)
			r.Get("/rankings", router.handler.Rankings)
			r.Get("/compliance/crosstab", router.handler.ComplianceCrossTab)
			r.Get("/costs", router.handler.Costs)
			r.Get("/filters/options", router.handler.FilterOptions)
			r.Get("/dataset/status", router.handler.DatasetStatus)
		})

		// Manual refresh hits the upstream sheet, so the limit is tight
		// on top of the store's own trigger throttle.
		r.With(router.chiMiddleware.RateLimitRefresh()).Post("/dataset/refresh", router.handler.DatasetRefresh)

		// The limit covers upgrade attempts; established sockets are
		// outside HTTP rate limiting.
		r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", router.handler.WebSocket)
	})

	return r
}
