// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Package supervisor provides process supervision for Vianda using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of all long-running components in the application. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation, and
graceful shutdown.

# Overview

The supervisor tree organizes services into three layers for failure isolation:

	RootSupervisor ("vianda")
	├── DataSupervisor ("data-layer")
	│   ├── RefreshSchedulerService (dataset store scheduler)
	│   └── Cache janitor (query cache TTL sweeper)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event router (refresh event fan-out)
	│   └── WebSocket hub (dashboard push)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that:
  - A crash in the refresh scheduler doesn't affect WebSocket connections
  - Event routing failures don't impact API availability
  - Each layer can restart independently while the API keeps serving the
    current dataset snapshot

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - Services are organized into logical groups
  - Child supervisor failures don't propagate upward
  - Each layer has independent failure counting

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Event hooks via the sutureslog adapter
  - The slog.Logger is backed by zerolog through logging.NewSlogLogger, so
    supervision events land in the same sink as the rest of the application

# Usage Example

Basic setup in main.go:

	import (
	    "github.com/calderonm/vianda/internal/logging"
	    "github.com/calderonm/vianda/internal/supervisor"
	    "github.com/calderonm/vianda/internal/supervisor/services"
	)

	func run() error {
	    tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	    if err != nil {
	        return err
	    }

	    tree.AddDataService(services.NewRefreshSchedulerService(store, router.Running()))
	    tree.AddDataService(queryCache)
	    tree.AddMessagingService(router)
	    tree.AddMessagingService(hub)
	    tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	    // Blocks until the context is canceled
	    return tree.Serve(ctx)
	}

Background operation:

	errChan := tree.ServeBackground(ctx)

	// Do other setup...

	if err := <-errChan; err != nil {
	    log.Printf("Supervisor stopped: %v", err)
	}

# Configuration

The TreeConfig controls restart behavior:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,              // Failures before backoff
	    FailureDecay:     30.0,             // Seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // Backoff duration
	    ShutdownTimeout:  10 * time.Second, // Per-service shutdown timeout
	}

Default values match suture's production-ready defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

# Failure Handling

The supervisor uses a failure counter with exponential decay:

 1. Each service failure increments the counter
 2. Counter decays exponentially over time (FailureDecay seconds)
 3. When counter exceeds FailureThreshold, supervisor enters backoff
 4. During backoff, restarts are delayed by FailureBackoff duration
 5. If failures continue, the child supervisor may be restarted by parent

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return while the context is live: treated as a failure, restarted
    (suture.ErrDoNotRestart opts out)
  - Return after context cancellation: shutdown requested, not restarted;
    return promptly

The query cache, the event router, and the WebSocket hub implement this
interface directly and are added to the tree without wrappers. The dataset
store (Start/Stop lifecycle) and the HTTP server (ListenAndServe/Shutdown
lifecycle) are adapted by the wrappers in the services subpackage.

# What Is NOT Supervised

The dataset snapshot itself is not supervised: it is an immutable in-memory
value swapped atomically by the store, not a long-running process. A failed
load keeps the previous snapshot in place, so there is nothing to restart.

The delivery report source (file or HTTP) is not supervised either. Fetch
failures are handled inside the store with a circuit breaker and surface as
degraded health, not as process crashes.

# Debugging Shutdown Issues

If services don't stop within the timeout:

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("Service didn't stop: %v", svc)
	}

Common causes:
  - Goroutines not respecting context cancellation
  - Blocked network I/O without deadlines
  - Mutex deadlocks during shutdown

# Thread Safety

The SupervisorTree is safe for concurrent use:
  - Services can be added from any goroutine
  - Multiple services can crash simultaneously

# See Also

  - internal/supervisor/services: Service wrappers
  - github.com/thejerf/suture/v4: Underlying library
*/
package supervisor
