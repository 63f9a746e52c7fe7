// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/metrics"
)

// Bus wraps a single GoChannel pub/sub. Nothing leaves the process:
// subscribers only see events published while they are subscribed, so the
// router must be running before the first load completes.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates the bus.
func NewBus() *Bus {
	logger := logging.NewWatermillLogger(logging.Logger())
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, logger),
		logger: logger,
	}
}

// PublishRefresh emits one dataset.refreshed event. The event ID doubles
// as the message UUID so bus logs correlate with load logs.
func (b *Bus) PublishRefresh(event *RefreshEvent) error {
	payload, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal refresh event: %w", err)
	}

	msg := message.NewMessage(event.EventID, payload)
	if err := b.pubsub.Publish(TopicDatasetRefreshed, msg); err != nil {
		return fmt.Errorf("publish refresh event: %w", err)
	}

	metrics.EventsPublished.WithLabelValues(TopicDatasetRefreshed).Inc()
	return nil
}

// Subscriber exposes the subscribe side for the router.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Logger returns the bus's watermill logger so the router shares it.
func (b *Bus) Logger() watermill.LoggerAdapter {
	return b.logger
}

// Close shuts the bus down. Undelivered events are dropped.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
