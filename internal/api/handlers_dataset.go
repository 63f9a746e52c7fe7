// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

import (
	"net/http"
	"time"

	"github.com/calderonm/vianda/internal/auth"
	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/models"
)

// DatasetStatus handles GET /api/v1/dataset/status. Unlike the analytics
// endpoints it works before the first load: the dashboard polls it during
// startup and outages to show what the load pipeline is doing.
func (h *Handler) DatasetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.store.Status()

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   status,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			Dataset:   status.Dataset,
		},
	})
}

// DatasetRefresh handles POST /api/v1/dataset/refresh. The call runs the
// load synchronously through the store's single-flight path and answers
// with the resulting snapshot, so the caller knows immediately whether the
// source is reachable and the schema still matches. Concurrent triggers
// share one fetch; triggers inside the minimum interval get 429.
func (h *Handler) DatasetRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	triggeredBy := "anonymous"
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.Name != "" {
		triggeredBy = claims.Name
	}
	logger := logging.Ctx(r.Context())
	logger.Info().
		Str("triggered_by", sanitizeLogValue(triggeredBy)).
		Msg("Manual dataset refresh triggered")

	ds, err := h.store.TriggerRefresh(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	status := ds.Status()
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: &models.RefreshResult{
			Triggered: true,
			Dataset:   &status,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Dataset:     &status,
		},
	})
}
