// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/metrics"
	"github.com/calderonm/vianda/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path
	// (e.g. SIGTERM propagated through the supervisor).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was
	// exceeded, which may point at a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types pushed to dashboard clients.
const (
	MessageTypeDatasetRefreshed = "dataset_refreshed"
	MessageTypePing             = "ping"
	MessageTypePong             = "pong"
)

// Message is the envelope for everything sent over a dashboard socket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
// The dashboard uses it for one thing: telling open browser tabs that the
// dataset they are looking at has been superseded.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub. Run it under the supervisor via Serve.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Serve runs the hub loop until ctx is canceled, then closes every
// connected client and returns ctx.Err().
//
// Shutdown is checked first, then client lifecycle, then broadcasts.
// Go's select picks randomly among ready channels, so the ordering is
// made explicit: client state is always settled before a message goes
// out, and shutdown never loses to a pending broadcast.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String identifies the hub in supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		metrics.WSConnections.Dec()
		logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// broadcastToClients delivers a message to every connected client in
// client-ID order, so delivery order is reproducible in tests and logs.
// A client whose send buffer is full is dropped; a reader that cannot
// drain 256 queued messages is not coming back.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
		metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
	}
}

// closeAllClients closes every connected client in ID order and returns
// how many were closed. Called once, during shutdown.
func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}

	count := len(clients)
	if count > 0 {
		metrics.WSConnections.Sub(float64(count))
	}
	return count
}

// shutdown closes all clients and logs the reason. Context cancellation
// is expected during graceful shutdown, so it is not logged as an error.
func (h *Hub) shutdown(ctx context.Context) {
	closed := h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// DatasetRefreshedData is the payload of a dataset_refreshed message.
// It carries enough for the dashboard to decide whether to refetch.
type DatasetRefreshedData struct {
	Timestamp      string `json:"timestamp"`
	DatasetVersion uint64 `json:"dataset_version"`
	Rows           int    `json:"rows"`
	SkippedRows    int    `json:"skipped_rows"`
	LoadedAt       string `json:"loaded_at"`
	DurationMS     int64  `json:"duration_ms"`
}

// BroadcastDatasetRefreshed notifies all clients that a new dataset
// snapshot is live. Wired to the dataset.refreshed event consumer.
func (h *Hub) BroadcastDatasetRefreshed(status models.DatasetStatus, durationMS int64) {
	data := DatasetRefreshedData{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		DatasetVersion: status.Version,
		Rows:           status.Rows,
		SkippedRows:    status.SkippedRows,
		LoadedAt:       status.LoadedAt.UTC().Format(time.RFC3339),
		DurationMS:     durationMS,
	}

	if h.enqueue(Message{Type: MessageTypeDatasetRefreshed, Data: data}) {
		logging.Info().
			Int("clients", h.GetClientCount()).
			Uint64("dataset_version", status.Version).
			Msg("broadcast dataset_refreshed")
	}
}

// BroadcastJSON sends an arbitrary typed message to all connected clients.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	h.enqueue(Message{Type: messageType, Data: data})
}

func (h *Hub) enqueue(message Message) bool {
	select {
	case h.broadcast <- message:
		return true
	default:
		metrics.WSErrors.WithLabelValues("broadcast_buffer_full").Inc()
		logging.Warn().Str("message_type", message.Type).Msg("broadcast channel full, dropping message")
		return false
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
