// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

import (
	"net/http"
	"testing"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/models"
)

func TestQueryCacheScopedToDatasetVersion(t *testing.T) {
	env := newTestEnv(t, testRow(nil))
	env.load(t)

	if resp := decodeEnvelope(t, env.get(t, "/api/v1/summary")); resp.Metadata.Cached {
		t.Fatal("first request unexpectedly cached")
	}
	if resp := decodeEnvelope(t, env.get(t, "/api/v1/summary")); !resp.Metadata.Cached {
		t.Fatal("repeat request should hit the cache")
	}

	// A new snapshot version must leave the old entries behind.
	if rec := env.post(t, "/api/v1/dataset/refresh"); rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d (body %q)", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, env.get(t, "/api/v1/summary"))
	if resp.Metadata.Cached {
		t.Error("request against the new snapshot must not reuse version 1 entries")
	}
	if resp.Metadata.Dataset == nil || resp.Metadata.Dataset.Version != 2 {
		t.Errorf("metadata dataset = %+v, want version 2", resp.Metadata.Dataset)
	}
}

func TestQueryCacheDisabled(t *testing.T) {
	env := newTestEnvConfigured(t, func(cfg *config.Config) {
		cfg.Cache.Enabled = false
	}, testRow(nil))
	env.load(t)

	for i := 0; i < 2; i++ {
		if resp := decodeEnvelope(t, env.get(t, "/api/v1/summary")); resp.Metadata.Cached {
			t.Fatalf("request %d served from cache with caching disabled", i+1)
		}
	}
}

func TestQueryComputeErrorsAreNotCached(t *testing.T) {
	env := newTestEnv(t, testRow(nil))
	env.load(t)

	// A cached error would come back as a success envelope on the repeat.
	for i := 0; i < 2; i++ {
		rec := env.get(t, "/api/v1/dimensions/punctuality/metrics")
		wantEnvelopeError(t, rec, http.StatusNotFound, "UNKNOWN_DIMENSION")
	}
}

func TestQueryAppliesDateWindow(t *testing.T) {
	env := newTestEnv(t,
		testRow(map[string]string{"fecha": "2026-01-15"}),
		testRow(map[string]string{"fecha": "2026-03-10"}),
		testRow(map[string]string{"fecha": "2026-03-20"}),
	)
	env.load(t)

	resp := decodeEnvelope(t, env.get(t, "/api/v1/summary?start_date=2026-03-01&end_date=2026-03-31"))

	var summary models.Summary
	dataAs(t, resp, &summary)
	if summary.Deliveries != 2 {
		t.Errorf("deliveries in window = %d, want 2", summary.Deliveries)
	}
	if summary.DateRange == nil {
		t.Fatal("date range missing")
	}
	if got := summary.DateRange.From.Format("2006-01-02"); got != "2026-03-10" {
		t.Errorf("range from = %s, want 2026-03-10", got)
	}
}

func TestQueryRejectsOversizedFilter(t *testing.T) {
	env := newTestEnvConfigured(t, func(cfg *config.Config) {
		cfg.API.MaxFilterValues = 2
	}, testRow(nil))
	env.load(t)

	rec := env.get(t, "/api/v1/summary?site=A&site=B&site=C")
	wantEnvelopeError(t, rec, http.StatusBadRequest, "INVALID_FILTER")
}
