// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

// Package filter translates query params into zero-copy dataset views.
//
// A Spec combines an optional day-granular date range with multi-select
// values per label key: AND across keys, OR within one key's values. Apply
// walks the snapshot once and returns an index-subset view, so filtering
// ten thousand records allocates one int slice and copies nothing.
//
// Two laws the engine guarantees:
//
//   - identity: the empty Spec returns a view equal to the dataset in
//     content and order
//   - absent categories match zero records rather than failing, so a site
//     removed by a later refresh degrades to an empty (correct) result
//
// An inverted date range is ErrInvalidFilter instead, because silently
// returning an empty view would make a caller bug indistinguishable from
// a genuinely empty slice of data.
//
// Parse produces canonical Specs (sorted deduplicated values, normalized
// dates); the result cache hashes Specs, so two spellings of the same
// filter hit the same entry.
package filter
