// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

// Package main is the entry point for the Vianda server application.
//
// Vianda is the monitoring backend for school meal delivery programs. It
// loads delivery supervision reports exported from field survey sheets,
// computes service quality metrics across configurable dimensions, and
// serves them through a filtered REST API with refresh notifications
// pushed to dashboards over WebSocket.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and optional YAML file (Koanf v2)
//  2. Report source: CSV file or HTTP export, the latter behind a circuit breaker
//  3. Dataset store: immutable snapshots with a background refresh scheduler
//  4. Metrics engine and versioned query cache
//  5. Event bus and router: dataset.refreshed fan-out (Watermill GoChannel)
//  6. WebSocket hub: refresh notifications for connected dashboards
//  7. Authentication: JWT bearer tokens or open mode
//  8. HTTP Server: REST API under /api/v1 plus health and Prometheus metrics
//
// All long-running components run under a suture supervisor tree organized
// into data, messaging, and API layers, so a crash in one layer is
// restarted without taking down the rest.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (VIANDA_* prefix)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// The survey sheet schema, the quality dimensions, and their indicator
// weights all live in configuration, so a season with a reworked survey
// form needs a config change rather than a release.
//
// # Token Issuance
//
// For deployments with VIANDA_AUTH_MODE=token, the server binary doubles
// as the token issuer:
//
//	VIANDA_JWT_SECRET=... ./vianda -issue-token ops-dashboard
//
// prints a signed bearer token for the given subject and exits.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests and loads to complete (10s timeout)
//   - Reports services that failed to stop in time
//
// # Example Usage
//
// Local file source (default):
//
//	export VIANDA_SOURCE_PATH=/data/vercoal.csv
//	export VIANDA_AUTH_MODE=none  # For development
//	./vianda
//
// Published sheet export over HTTP:
//
//	export VIANDA_SOURCE_TYPE=http
//	export VIANDA_SOURCE_URL=https://sheets.example.org/export/vercoal.csv
//	./vianda
//
// Production with token auth:
//
//	export VIANDA_SOURCE_TYPE=http
//	export VIANDA_SOURCE_URL=https://sheets.example.org/export/vercoal.csv
//	export VIANDA_AUTH_MODE=token
//	export VIANDA_JWT_SECRET=$(openssl rand -base64 32)
//	export VIANDA_CORS_ORIGINS=https://panel.example.org
//	./vianda
//
// The default port is 8642.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calderonm/vianda/internal/analytics"
	"github.com/calderonm/vianda/internal/api"
	"github.com/calderonm/vianda/internal/auth"
	"github.com/calderonm/vianda/internal/cache"
	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/events"
	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/models"
	"github.com/calderonm/vianda/internal/supervisor"
	"github.com/calderonm/vianda/internal/supervisor/services"
	ws "github.com/calderonm/vianda/internal/websocket"
)

// version is the release identifier surfaced by the health endpoint.
// Stamped at build time: go build -ldflags "-X main.version=v1.2.0".
var version = "dev"

func main() {
	issueToken := flag.String("issue-token", "", "print a signed API token for the given subject and exit")
	flag.Parse()

	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Default logger for config errors, the configured one is not available yet
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if *issueToken != "" {
		runIssueToken(cfg, *issueToken)
		return
	}

	logging.Info().Str("version", version).Msg("Starting Vianda with supervisor tree")

	logging.Info().
		Str("source_type", cfg.Source.Type).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("environment", cfg.Server.Environment).
		Int("dimensions", len(cfg.Dimensions)).
		Msg("Configuration loaded")

	logSecurityPosture(cfg)

	// Report source, with a circuit breaker around HTTP fetches
	source, err := dataset.NewSource(&cfg.Source)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize report source")
	}
	logging.Info().Str("source", source.Describe()).Msg("Report source initialized")

	store := dataset.NewStore(cfg, source)
	engine := analytics.New(cfg)
	queryCache := cache.New(cfg.Cache)

	// Event bus and router for dataset.refreshed fan-out
	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	eventRouter, err := events.NewRouter(bus)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event router")
	}

	// WebSocket hub for dashboard push
	hub := ws.NewHub()

	// Every successful load publishes one refresh event
	store.SetOnRefreshCompleted(func(status models.DatasetStatus, durationMs int64) {
		if err := bus.PublishRefresh(events.NewRefreshEvent(status, durationMs)); err != nil {
			logging.Error().Err(err).Msg("Failed to publish refresh event")
		}
	})

	// Consumers: drop cached results for superseded versions, then tell
	// connected dashboards to re-query
	eventRouter.OnRefresh("cache-invalidator", func(_ context.Context, event *events.RefreshEvent) error {
		queryCache.Invalidate(event.Dataset.Version)
		return nil
	})
	eventRouter.OnRefresh("ws-notifier", func(_ context.Context, event *events.RefreshEvent) error {
		hub.BroadcastDatasetRefreshed(event.Dataset, event.DurationMS)
		return nil
	})

	authMiddleware, err := auth.NewMiddleware(cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}

	handler := api.NewHandler(cfg, store, engine, queryCache, hub, version)
	router := api.NewRouter(handler, authMiddleware)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer. The scheduler waits for the event router before the first
	// load so the startup refresh event has its subscribers in place.
	tree.AddDataService(services.NewRefreshSchedulerService(store, eventRouter.Running()))
	tree.AddDataService(queryCache)

	// Messaging layer
	tree.AddMessagingService(eventRouter)
	tree.AddMessagingService(hub)

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// logSecurityPosture warns about configurations that are acceptable for
// development but dangerous on shared networks.
func logSecurityPosture(cfg *config.Config) {
	if cfg.Security.AuthMode == "none" {
		logging.Warn().Msg("Authentication is DISABLED (VIANDA_AUTH_MODE=none)")
		logging.Warn().Msg("All endpoints are publicly accessible. Use token mode outside isolated networks.")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (VIANDA_RATE_LIMIT_DISABLED=true)")
	}

	if cfg.Security.AuthMode == "token" {
		for _, origin := range cfg.Security.CORSOrigins {
			if origin == "*" {
				logging.Warn().Msg("CORS allows any origin while token auth is enabled (VIANDA_CORS_ORIGINS=*)")
				logging.Warn().Msg("Set the dashboard origins explicitly in production")
				break
			}
		}
	}
}

// runIssueToken signs a bearer token for the given subject and prints it
// to stdout. Requires a configured VIANDA_JWT_SECRET.
func runIssueToken(cfg *config.Config, subject string) {
	manager, err := auth.NewJWTManager(cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}

	token, err := manager.GenerateToken(subject)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to sign token")
	}

	fmt.Println(token)
}
