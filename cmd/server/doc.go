// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Server runtime reference for operators.

# Supervision

The server implements a layered architecture with Suture v4 process
supervision:

	RootSupervisor ("vianda")
	├── DataSupervisor ("data-layer")
	│   ├── Refresh scheduler (startup load + periodic reload)
	│   └── Query cache janitor (TTL sweeps)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event router (dataset.refreshed fan-out)
	│   └── WebSocket hub (dashboard notifications)
	└── APISupervisor ("api-layer")
	    └── HTTP server

# Environment Variables

Core environment variables:

	# Server
	VIANDA_HTTP_HOST=0.0.0.0
	VIANDA_HTTP_PORT=8642
	VIANDA_HTTP_TIMEOUT=30s
	VIANDA_ENVIRONMENT=development   # development, staging, production

	# Report source
	VIANDA_SOURCE_TYPE=file          # file or http
	VIANDA_SOURCE_PATH=/data/vercoal.csv
	VIANDA_SOURCE_URL=               # required for the http source
	VIANDA_SOURCE_TIMEOUT=30s

	# Snapshot refresh
	VIANDA_REFRESH_INTERVAL=10m      # 0 disables periodic refresh
	VIANDA_REFRESH_ON_STARTUP=true
	VIANDA_REFRESH_MIN_INTERVAL=30s  # manual trigger throttle

	# Results cache
	VIANDA_CACHE_ENABLED=true
	VIANDA_CACHE_TTL=10m
	VIANDA_CACHE_CLEANUP_INTERVAL=5m

	# Security
	VIANDA_AUTH_MODE=none            # none or token
	VIANDA_JWT_SECRET=<32+ chars>    # required for token mode
	VIANDA_TOKEN_TTL=24h
	VIANDA_RATE_LIMIT_REQUESTS=100
	VIANDA_RATE_LIMIT_WINDOW=1m
	VIANDA_CORS_ORIGINS=*            # set dashboard origins in production

	# Analysis thresholds
	VIANDA_CRITICAL_THRESHOLD=70
	VIANDA_ALERT_THRESHOLD=80
	VIANDA_TREND_MONTHS=3
	VIANDA_STABLE_BAND_PCT=5
	VIANDA_RANKING_SIZE=3

	# Logging
	VIANDA_LOG_LEVEL=info            # trace, debug, info, warn, error
	VIANDA_LOG_FORMAT=json           # json or console

The survey sheet schema (column names, date formats) and the quality
dimensions with their indicator weights are configured in config.yaml,
searched in the working directory and /etc/vianda (override the path
with CONFIG_PATH). Environment variables cover the deployment-specific
knobs above.

# Endpoints

	GET  /health                                 liveness and dataset state
	GET  /ready                                  readiness (dataset loaded)
	GET  /metrics                                Prometheus exposition

	GET  /api/v1/summary                         general index and per-dimension composites
	GET  /api/v1/dimensions/{dimension}/metrics  one dimension in depth
	GET  /api/v1/dimensions/{dimension}/distributions
	GET  /api/v1/dimensions/{dimension}/trend    monthly scores with direction
	GET  /api/v1/problems                        indicators under thresholds
	GET  /api/v1/recommendations                 suggested actions per horizon
	GET  /api/v1/rankings                        best/worst groups by composite
	GET  /api/v1/compliance/crosstab             schedule vs verification compliance
	GET  /api/v1/costs                           transfer and support cost totals
	GET  /api/v1/filters/options                 filterable values for the UI
	GET  /api/v1/dataset/status                  snapshot version and source health
	POST /api/v1/dataset/refresh                 manual reload (throttled)
	GET  /api/v1/ws                              WebSocket refresh notifications

All /api/v1 read endpoints accept the shared filter parameters (site,
route, weekday, delivery_time, driver, manager, start_date, end_date).

# Docker

	docker run -d \
	  -e VIANDA_SOURCE_TYPE=http \
	  -e VIANDA_SOURCE_URL=https://sheets.example.org/export/vercoal.csv \
	  -e VIANDA_AUTH_MODE=none \
	  -p 8642:8642 \
	  ghcr.io/calderonm/vianda

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/dataset: Report loading and snapshots
*/
package main
