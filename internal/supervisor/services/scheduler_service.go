// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package services

import (
	"context"
	"fmt"
)

// StartStopScheduler interface matches the dataset store's refresh
// scheduler lifecycle.
//
// This interface abstracts the store's Start/Stop pattern, allowing the
// RefreshSchedulerService wrapper to adapt it to suture's Serve pattern
// without modifying the store code.
//
// Satisfied by *dataset.Store from internal/dataset/store.go.
type StartStopScheduler interface {
	Start(ctx context.Context) error
	Stop() error
}

// RefreshSchedulerService wraps the dataset refresh scheduler as a
// supervised service.
//
// It adapts the Start/Stop lifecycle pattern to suture's Serve pattern:
//  1. Waits for the ready gate, if one was given
//  2. Calls Start(ctx) to launch the scheduler goroutines
//  3. Waits for context cancellation
//  4. Calls Stop() for graceful shutdown
//
// The store handles its own goroutines internally via WaitGroup, so this
// wrapper simply orchestrates the lifecycle transitions.
type RefreshSchedulerService struct {
	scheduler StartStopScheduler
	ready     <-chan struct{}
	name      string
}

// NewRefreshSchedulerService creates a new refresh scheduler wrapper.
//
// When ready is non-nil, Serve waits for it to close before starting the
// scheduler. Passing the event router's Running() channel here keeps the
// startup load from publishing its refresh event before any subscriber is
// listening. A nil gate starts the scheduler immediately.
//
// Example usage:
//
//	svc := services.NewRefreshSchedulerService(store, router.Running())
//	tree.AddDataService(svc)
func NewRefreshSchedulerService(scheduler StartStopScheduler, ready <-chan struct{}) *RefreshSchedulerService {
	return &RefreshSchedulerService{
		scheduler: scheduler,
		ready:     ready,
		name:      "refresh-scheduler",
	}
}

// Serve implements suture.Service.
//
// If Start() fails, the error is returned immediately, causing suture to
// restart the service according to its backoff policy.
func (s *RefreshSchedulerService) Serve(ctx context.Context) error {
	if s.ready != nil {
		select {
		case <-s.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Start spawns the scheduler goroutines and returns immediately
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("refresh scheduler start failed: %w", err)
	}

	<-ctx.Done()

	// Stop blocks until in-flight loads complete
	if err := s.scheduler.Stop(); err != nil {
		return fmt.Errorf("refresh scheduler stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *RefreshSchedulerService) String() string {
	return s.name
}
