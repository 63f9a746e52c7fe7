// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Package services provides suture.Service wrappers for Vianda components.

This package adapts components with their own lifecycle conventions to the
suture v4 supervision model, translating Start/Stop and ListenAndServe
patterns into suture's context-aware Serve pattern.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the blocking ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Refresh Scheduler (RefreshSchedulerService):
  - Wraps the dataset store's Start/Stop scheduler lifecycle
  - Optionally waits for the refresh event router to be running before the
    first load, so startup refresh events are not published into the void
  - Propagates start failures so the supervisor retries with backoff

Components that already implement suture.Service (the query cache janitor,
the refresh event router, and the WebSocket hub) are added to the tree
directly and need no wrapper here.

# Lifecycle Patterns

Start/Stop:

	type StartStopScheduler interface {
	    Start(ctx context.Context) error
	    Stop() error
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    if err := s.scheduler.Start(ctx); err != nil {
	        return err
	    }
	    <-ctx.Done()
	    if err := s.scheduler.Stop(); err != nil {
	        return err
	    }
	    return ctx.Err()
	}

ListenAndServe:

	type HTTPServer interface {
	    ListenAndServe() error
	    Shutdown(ctx context.Context) error
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    go s.server.ListenAndServe()
	    <-ctx.Done()
	    return s.server.Shutdown(shutdownCtx)
	}

# Error Handling

Return values determine supervisor behavior:

	return before ctx is done -> treated as a failure, restarted
	suture.ErrDoNotRestart    -> service removed instead of restarted
	return after ctx is done  -> shutdown requested, normal termination

Both wrappers return ctx.Err() on the shutdown path so the supervisor can
tell an ordered stop from a crash.

# Service Identification

All services implement fmt.Stringer. Suture uses this for log messages:

	INFO http-server: starting
	INFO refresh-scheduler: stopped

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - internal/dataset: the store wrapped by RefreshSchedulerService
  - github.com/thejerf/suture/v4: Underlying supervision library
*/
package services
