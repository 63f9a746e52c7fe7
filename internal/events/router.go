// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/metrics"
)

// RefreshHandler consumes one refresh event. Returning an error triggers
// the router's retry middleware.
type RefreshHandler func(ctx context.Context, event *RefreshEvent) error

// Router fans dataset.refreshed events out to the registered consumers.
// Register every consumer with OnRefresh before Serve; the router runs
// under the supervisor for the life of the process.
type Router struct {
	router *message.Router
	bus    *Bus
}

// NewRouter builds the router with panic recovery and bounded retry.
// Shutdown is owned by the supervisor's context, so the watermill signal
// handler plugin is deliberately not installed.
func NewRouter(bus *Bus) (*Router, error) {
	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 10 * time.Second,
	}, bus.Logger())
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	retry := middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
		Logger:          bus.Logger(),
	}
	wmRouter.AddMiddleware(retry.Middleware)

	return &Router{router: wmRouter, bus: bus}, nil
}

// OnRefresh registers a named consumer for dataset.refreshed events.
func (r *Router) OnRefresh(name string, handler RefreshHandler) {
	r.router.AddConsumerHandler(
		name,
		TopicDatasetRefreshed,
		r.bus.Subscriber(),
		func(msg *message.Message) error {
			event, err := UnmarshalRefreshEvent(msg.Payload)
			if err != nil {
				// A malformed event never gets better; drop instead of retrying.
				logging.Error().Err(err).Str("handler", name).Msg("Dropping malformed refresh event")
				return nil
			}
			if err := handler(msg.Context(), event); err != nil {
				return err
			}
			metrics.EventsHandled.WithLabelValues(TopicDatasetRefreshed, name).Inc()
			return nil
		},
	)
}

// Serve runs the router until the context is canceled. Implements
// suture.Service.
func (r *Router) Serve(ctx context.Context) error {
	if err := r.router.Run(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

// String identifies the router in supervisor logs.
func (r *Router) String() string {
	return "event-router"
}

// Running returns a channel that closes once subscriptions are active.
// Start-up waits on it so the first load's event cannot be missed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}
