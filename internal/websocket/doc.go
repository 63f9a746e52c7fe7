// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Package websocket pushes dataset refresh notifications to open dashboard tabs.

The dashboard polls nothing. A tab opens one socket on /api/v1/ws and waits;
when a scheduled or manual refresh lands a new dataset snapshot, the hub
broadcasts a dataset_refreshed message and the tab refetches whatever views
it has open. The package uses gorilla/websocket with a hub-client layout.

Components:

  - Hub: registers clients and fans broadcasts out to all of them. It runs
    as a supervised service; cancellation closes every client.
  - Client: one connection, with a read goroutine (application-level pings)
    and a write goroutine (messages plus protocol-level keepalive pings).
  - Message: the {type, data} envelope for everything on the wire.

Message types:

  - dataset_refreshed: a new snapshot is live (version, rows, skipped_rows,
    loaded_at, duration_ms). Sent by the dataset.refreshed event consumer.
  - ping / pong: application-level liveness, client initiated.

Usage:

	hub := websocket.NewHub()
	// run under the supervisor: hub.Serve(ctx)

	// in the upgrade handler:
	client := websocket.NewClient(hub, conn)
	hub.Register <- client
	client.Start()

	// from the refresh event consumer:
	hub.BroadcastDatasetRefreshed(status, durationMS)

A client that stops draining its send buffer is dropped rather than allowed
to stall the broadcast loop. Connection count, messages sent, and error
counts are exported through internal/metrics.

The HTTP upgrade itself lives in internal/api, next to the origin check and
the rest of the route table.
*/
package websocket
