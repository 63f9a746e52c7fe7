// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package filter

import (
	"strings"
	"time"

	"github.com/calderonm/vianda/internal/dataset"
)

// Apply evaluates the spec against a snapshot and returns a zero-copy view
// of the matching records, in dataset order. The empty spec returns the
// full-dataset view unchanged. Values referencing categories absent from
// the snapshot simply match nothing; that is an empty result, not an error.
func Apply(ds *dataset.Dataset, spec Spec) (dataset.View, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.IsEmpty() {
		return dataset.NewView(ds), nil
	}

	// Label matching is case-insensitive: sheets are hand-typed and the
	// same comuna appears as "COMUNA 4" and "Comuna 4" across months.
	sets := make(map[string]map[string]bool, len(spec.Labels))
	for key, values := range spec.Labels {
		if len(values) == 0 {
			continue
		}
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[strings.ToLower(v)] = true
		}
		sets[key] = set
	}

	var endExclusive time.Time
	if spec.To != nil {
		// End date is inclusive through the end of its day.
		endExclusive = spec.To.AddDate(0, 0, 1)
	}

	indices := make([]int, 0, len(ds.Records))
	for i := range ds.Records {
		r := &ds.Records[i]

		if spec.From != nil && r.Timestamp.Before(*spec.From) {
			continue
		}
		if spec.To != nil && !r.Timestamp.Before(endExclusive) {
			continue
		}

		pass := true
		for key, set := range sets {
			if !set[strings.ToLower(r.Label(key))] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return dataset.NewSubView(ds, indices), nil
}
