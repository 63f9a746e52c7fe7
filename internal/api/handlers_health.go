// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

import (
	"net/http"
	"time"

	"github.com/calderonm/vianda/internal/models"
)

// Health handles GET /health. healthy means the last load attempt
// succeeded; degraded means the source is currently failing while the
// previous snapshot, if any, keeps being served. The endpoint always
// answers 200: process liveness is its only hard claim, readiness is
// Ready's job.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.store.Status()

	state := "healthy"
	if status.LastError != "" {
		state = "degraded"
	}

	health := models.HealthStatus{
		Status:        state,
		Version:       h.version,
		SourceType:    status.SourceType,
		DatasetLoaded: status.Dataset != nil,
		Uptime:        time.Since(h.startTime).Seconds(),
	}
	if status.Dataset != nil {
		health.LastLoadTime = &status.Dataset.LoadedAt
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// Ready handles GET /ready. Ready means at least one load has succeeded,
// so every analytics endpoint can answer from a snapshot. Until then the
// probe returns 503 and load balancers keep traffic away.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.store.Status()
	ready := status.Dataset != nil

	statusCode := http.StatusOK
	state := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		state = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: state,
		Data: map[string]interface{}{
			"dataset_loaded": ready,
			"source_state":   status.SourceState,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}
