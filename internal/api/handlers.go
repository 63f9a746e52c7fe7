// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/calderonm/vianda/internal/analytics"
	"github.com/calderonm/vianda/internal/cache"
	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/metrics"
	ws "github.com/calderonm/vianda/internal/websocket"
)

// Handler carries the dependencies shared by every HTTP endpoint: the
// record store serving snapshots, the analytics engine computing over them,
// the result cache, and the WebSocket hub for refresh notifications.
type Handler struct {
	config    *config.Config
	store     *dataset.Store
	engine    *analytics.Engine
	cache     *cache.Cache
	hub       *ws.Hub
	version   string
	startTime time.Time
}

// NewHandler creates the endpoint handler set. hub may be nil when the
// WebSocket surface is not wired, for instance in tests; the ws endpoint
// then answers 503.
func NewHandler(cfg *config.Config, store *dataset.Store, engine *analytics.Engine, resultCache *cache.Cache, hub *ws.Hub, version string) *Handler {
	return &Handler{
		config:    cfg,
		store:     store,
		engine:    engine,
		cache:     resultCache,
		hub:       hub,
		version:   version,
		startTime: time.Now(),
	}
}

// getUpgrader returns a WebSocket upgrader bound to this handler's origin
// check.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates the Origin header against the configured
// CORS origins. Browsers always send Origin on WebSocket upgrades, so an
// empty header means a non-browser client trying to skip the check.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logger := logging.Ctx(r.Context())
		logger.Warn().
			Str("remote_addr", r.RemoteAddr).
			Msg("WebSocket upgrade rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logger := logging.Ctx(r.Context())
	logger.Warn().
		Str("origin", sanitizeLogValue(origin)).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket upgrade rejected: origin not allowed")
	return false
}

// WebSocket upgrades the connection and registers the client with the hub.
// Connected dashboards receive a dataset_refreshed message whenever a new
// snapshot is published, and reload their panels in response.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_ERROR", "WebSocket service not available", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Msg("WebSocket upgrade failed")
		metrics.WSErrors.WithLabelValues("upgrade_failed").Inc()
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()

	logger := logging.Ctx(r.Context())
	logger.Debug().
		Uint64("client_id", client.ID()).
		Int("clients", h.hub.GetClientCount()).
		Msg("WebSocket client connected")
}
