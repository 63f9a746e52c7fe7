// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

// Package events is the in-process event bus: a watermill GoChannel
// pub/sub carrying one topic, dataset.refreshed. The store publishes
// after every successful load; the router fans the event out to the
// result cache and the WebSocket hub.
package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/calderonm/vianda/internal/models"
)

// TopicDatasetRefreshed carries one event per successful dataset load.
const TopicDatasetRefreshed = "dataset.refreshed"

// SchemaVersion is the current refresh event schema version.
const SchemaVersion = 1

// RefreshEvent announces a new dataset snapshot. Consumers use
// Dataset.Version both to invalidate cached results and to tell connected
// clients which snapshot they are now served from.
type RefreshEvent struct {
	SchemaVersion int                  `json:"schema_version"`
	EventID       string               `json:"event_id"`
	Timestamp     time.Time            `json:"timestamp"`
	Dataset       models.DatasetStatus `json:"dataset"`
	DurationMS    int64                `json:"duration_ms"`
}

// NewRefreshEvent builds the event for one completed load.
func NewRefreshEvent(status models.DatasetStatus, durationMS int64) *RefreshEvent {
	return &RefreshEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Timestamp:     time.Now().UTC(),
		Dataset:       status,
		DurationMS:    durationMS,
	}
}

// Validate checks the fields consumers rely on.
func (e *RefreshEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("refresh event: missing event_id")
	}
	if e.Dataset.Version == 0 {
		return fmt.Errorf("refresh event %s: missing dataset version", e.EventID)
	}
	return nil
}

// Marshal serializes the event for the bus.
func (e *RefreshEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalRefreshEvent parses and validates an event payload from the
// bus. Events without an explicit schema version are treated as version 1.
func UnmarshalRefreshEvent(data []byte) (*RefreshEvent, error) {
	var e RefreshEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal refresh event: %w", err)
	}
	if e.SchemaVersion == 0 {
		e.SchemaVersion = 1
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
