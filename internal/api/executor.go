// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

import (
	"net/http"
	"time"

	"github.com/calderonm/vianda/internal/cache"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/filter"
	"github.com/calderonm/vianda/internal/metrics"
	"github.com/calderonm/vianda/internal/models"
)

// computeFunc computes one analytics result over a filtered view. It runs
// only on cache misses.
type computeFunc func(v dataset.View) (interface{}, error)

// cacheParams is the cache key payload: the canonical filter spec, the
// dimension when the operation takes one, and any operation-specific
// parameters. Spec is already canonicalized by filter.Parse, so equivalent
// query strings produce equal keys.
type cacheParams struct {
	Spec      filter.Spec `json:"spec"`
	Dimension string      `json:"dimension,omitempty"`
	Params    interface{} `json:"params,omitempty"`
}

// executeQuery runs the shared pipeline behind every analytics endpoint:
// parse the filter, resolve the current snapshot, try the cache, and only
// then filter and compute. Cached responses carry query_time_ms 0 and
// cached true so dashboards can tell a 2ms cache hit from a 2ms compute.
//
// operation names the endpoint in cache keys and metrics; dimension labels
// the compute metric and is empty for cross-dimension operations. params
// must contain every request parameter that changes the result, otherwise
// two distinct requests would collide on one cache entry.
func (h *Handler) executeQuery(w http.ResponseWriter, r *http.Request, operation, dimension string, params interface{}, compute computeFunc) {
	start := time.Now()

	spec, err := filter.Parse(r.URL.Query(), h.config.API.MaxFilterValues)
	if err != nil {
		metrics.RecordComputeError(operation, errorMetricType(err))
		respondDomainError(w, r, err)
		return
	}

	ds, err := h.store.Current()
	if err != nil {
		metrics.RecordComputeError(operation, errorMetricType(err))
		respondDomainError(w, r, err)
		return
	}
	status := ds.Status()

	key := cache.Key(operation, ds.Version, cacheParams{Spec: spec, Dimension: dimension, Params: params})
	if cached, ok := h.cache.Get(key); ok {
		respondJSON(w, http.StatusOK, &models.APIResponse{
			Status: "success",
			Data:   cached,
			Metadata: models.Metadata{
				Timestamp: time.Now().UTC(),
				Cached:    true,
				Dataset:   &status,
			},
		})
		return
	}

	view, err := filter.Apply(ds, spec)
	if err != nil {
		metrics.RecordComputeError(operation, errorMetricType(err))
		respondDomainError(w, r, err)
		return
	}
	metrics.FilteredRecords.Observe(float64(view.Len()))

	data, err := compute(view)
	if err != nil {
		metrics.RecordComputeError(operation, errorMetricType(err))
		respondDomainError(w, r, err)
		return
	}

	h.cache.Set(key, data)
	metrics.RecordCompute(operation, dimension, time.Since(start))

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Dataset:     &status,
		},
	})
}
