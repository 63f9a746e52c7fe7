// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/calderonm/vianda/internal/cache"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/filter"
	"github.com/calderonm/vianda/internal/models"
)

// Summary handles GET /api/v1/summary. It returns the general service
// index, each dimension's composite, and the delivery volume over the
// filtered view.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	h.executeQuery(w, r, "summary", "", nil, func(v dataset.View) (interface{}, error) {
		return h.engine.Summary(v), nil
	})
}

// DimensionMetrics handles GET /api/v1/dimensions/{dimension}/metrics.
func (h *Handler) DimensionMetrics(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")
	h.executeQuery(w, r, "dimension_metrics", dimension, nil, func(v dataset.View) (interface{}, error) {
		return h.engine.Compute(v, dimension)
	})
}

// DimensionDistributions handles GET /api/v1/dimensions/{dimension}/distributions.
func (h *Handler) DimensionDistributions(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")
	h.executeQuery(w, r, "dimension_distributions", dimension, nil, func(v dataset.View) (interface{}, error) {
		return h.engine.Distributions(v, dimension)
	})
}

// DimensionTrend handles GET /api/v1/dimensions/{dimension}/trend.
// months bounds the window (0 = configured default); indicator narrows the
// series to one question instead of the dimension's composite index.
func (h *Handler) DimensionTrend(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")

	params := trendParams{
		Months:    getIntParam(r, "months", 0),
		Indicator: r.URL.Query().Get("indicator"),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	h.executeQuery(w, r, "dimension_trend", dimension, params, func(v dataset.View) (interface{}, error) {
		return h.engine.Trend(v, dimension, params.Indicator, params.Months)
	})
}

// Problems handles GET /api/v1/problems. It reports every indicator whose
// current value crosses the alert or critical threshold, across all
// dimensions.
func (h *Handler) Problems(w http.ResponseWriter, r *http.Request) {
	h.executeQuery(w, r, "problems", "", nil, func(v dataset.View) (interface{}, error) {
		return h.engine.Problems(v), nil
	})
}

// Recommendations handles GET /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	h.executeQuery(w, r, "recommendations", "", nil, func(v dataset.View) (interface{}, error) {
		return h.engine.Recommendations(v), nil
	})
}

// Rankings handles GET /api/v1/rankings. group_by selects the grouping
// label, dimension optionally narrows the indicator set, limit caps how
// many best and worst groups come back.
func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	params := rankingsParams{
		GroupBy:   r.URL.Query().Get("group_by"),
		Dimension: r.URL.Query().Get("dimension"),
		Limit:     getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	h.executeQuery(w, r, "rankings", params.GroupBy, params, func(v dataset.View) (interface{}, error) {
		return h.engine.Rankings(v, params.GroupBy, params.Dimension, params.Limit)
	})
}

// ComplianceCrossTab handles GET /api/v1/compliance/crosstab.
func (h *Handler) ComplianceCrossTab(w http.ResponseWriter, r *http.Request) {
	h.executeQuery(w, r, "compliance_crosstab", "", nil, func(v dataset.View) (interface{}, error) {
		return h.engine.ComplianceCrossTab(v), nil
	})
}

// Costs handles GET /api/v1/costs. Cost statistics cover only records
// flagged with the corresponding problem, so a transfer amount on a record
// that reported no transfer never skews the numbers.
func (h *Handler) Costs(w http.ResponseWriter, r *http.Request) {
	h.executeQuery(w, r, "costs", "", nil, func(v dataset.View) (interface{}, error) {
		return h.engine.CostStats(v), nil
	})
}

// FilterOptions handles GET /api/v1/filters/options. The response lists
// the label values present in the current snapshot, its date range, and
// the dimension catalog, everything the dashboard needs to build its
// filter controls. The listing ignores filter params: options always
// reflect the whole snapshot, not the filtered view.
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ds, err := h.store.Current()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	status := ds.Status()

	key := cache.Key("filter_options", ds.Version, nil)
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

	options := &models.FilterOptions{
		Labels:     filter.Options(ds),
		Dimensions: h.engine.Dimensions(),
	}
	if from, to, ok := ds.DateRange(); ok {
		options.DateRange = &models.DateRange{From: from, To: to}
	}

	h.cache.Set(key, options)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   options,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Dataset:     &status,
		},
	})
}
