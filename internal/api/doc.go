// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Package api provides the HTTP REST API layer for Vianda.

It exposes the analytics engine over a Chi router, versioned under
/api/v1, with a standard JSON envelope on every response. The dashboard
frontend is the only intended consumer.

Key Components:

  - Router: route table and middleware stack (CORS, rate limits, auth,
    security headers, Prometheus instrumentation, gzip)
  - Handler: request handlers for every endpoint
  - executeQuery: the shared filter-cache-compute pipeline behind the
    analytics endpoints
  - Error handling: domain errors mapped to envelope codes with errors.Is

Endpoint Groups:

1. Analytics (/api/v1/): summary, per-dimension metrics, distributions
and trends, problems, recommendations, rankings, compliance cross-tab,
cost statistics, and filter options. All accept the shared filter query
params (start_date, end_date, and one param per filterable label).

2. Dataset (/api/v1/dataset/): snapshot status, which works before the
first load, and manual refresh, which runs the load synchronously
through the store's single-flight path.

3. WebSocket (/api/v1/ws): pushes dataset_refreshed events so open
dashboard tabs know their panels are stale.

4. Probes (/health, /ready) and the Prometheus scrape target (/metrics),
outside authentication.

Usage Example:

	import (
	    "github.com/calderonm/vianda/internal/api"
	    "github.com/calderonm/vianda/internal/auth"
	)

	authmw, _ := auth.NewMiddleware(cfg.Security)
	handler := api.NewHandler(cfg, store, engine, resultCache, hub, version)
	router := api.NewRouter(handler, authmw)

	http.ListenAndServe(":8080", router.SetupChi())

Responses are cacheable for a minute and carry ETags; on top of that the
executor's result cache means repeated dashboard queries against the same
snapshot never recompute. Cached hits are marked cached:true with
query_time_ms 0 in the response metadata.
*/
package api
