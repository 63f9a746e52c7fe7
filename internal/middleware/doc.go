// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Package middleware provides HandlerFunc-style HTTP middleware shared by the
API route groups.

Key Components:

  - Compression: Gzip compression for JSON responses
  - PrometheusMetrics: HTTP request/response instrumentation

Both are written against http.HandlerFunc; the api package adapts them to
Chi's func(http.Handler) http.Handler form when mounting route groups.

Usage Example:

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(chiMiddleware(middleware.PrometheusMetrics))
	    r.Use(chiMiddleware(middleware.Compression))
	    r.Get("/summary", handler.Summary)
	})

Performance Characteristics:

  - Compression: 70-90% size reduction for the JSON analytics payloads
  - Compression overhead: ~1-2ms for typical responses
  - Metrics overhead: <0.1ms per request

Thread Safety:

All middleware components are safe for concurrent use:
  - Compression pools gzip writers with sync.Pool
  - Prometheus metrics use the client library's atomic collectors

See Also:

  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
