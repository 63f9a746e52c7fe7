// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Package cache holds computed analysis results between requests.

Every data endpoint answers from the same immutable dataset snapshot, so a
result is valid exactly as long as its snapshot is current: the cache keys
each entry by (operation, dataset version, filter parameters) and drops
everything the moment a refresh advances the version. The TTL is a bound
on memory between refreshes, not a freshness mechanism.

# Keys

Key serializes the request parameters with goccy/go-json and hashes them
with SHA-256:

	key := cache.Key("trend", version, struct {
	    Spec   filter.Spec `json:"spec"`
	    Months int         `json:"months"`
	}{spec, months})

The filter spec is canonical by construction, so two requests asking the
same question always produce the same key.

# Usage

The executor in internal/api wraps every computation:

	if cached, ok := c.Get(key); ok {
	    return cached, true
	}
	result := compute()
	c.Set(key, result)

Invalidate is driven by the refresh event on the internal bus. The janitor
runs as a supervised service (Serve) and sweeps expired entries on the
configured interval.

Hits, misses, evictions (by reason) and entry count are exported through
internal/metrics; GetStats feeds the dataset status endpoint.
*/
package cache
