// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"
)

// Key derives the canonical cache key for one computation from the
// operation name, the dataset version, and the request parameters.
//
// params must serialize deterministically: the filter spec is canonical by
// construction (sorted values, day-granularity dates) and map keys marshal
// in sorted order, so equal queries land on the same entry. The version is
// part of the key, which keeps a computation that finishes after a refresh
// from ever answering a request against the new snapshot.
func Key(operation string, version uint64, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fall back to a plain string key.
		return fmt.Sprintf("%s:v%d:%v", operation, version, params)
	}

	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:v%d:%x", operation, version, sum[:16])
}
