// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package dataset

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/calderonm/vianda/internal/models"
)

// Dataset is one immutable snapshot of the survey sheet. The store swaps
// whole snapshots on refresh; nothing mutates a Dataset after construction,
// so concurrent readers share it without locking.
type Dataset struct {
	// Version increases by one on every successful load. The result cache
	// keys on it, so a version advance invalidates all cached results.
	Version uint64

	// SnapshotID identifies this snapshot in logs and refresh events.
	SnapshotID uuid.UUID

	// LoadedAt is the UTC completion time of the load.
	LoadedAt time.Time

	// Source describes where the rows came from ("file:/data/x.csv",
	// "http:export?format=csv").
	Source string

	// Records holds the normalized rows in source order.
	Records []Record

	// SkippedRows counts source rows excluded by row validation. Surfaced
	// to clients so dashboards can show data-quality warnings.
	SkippedRows int

	minDate     time.Time
	maxDate     time.Time
	labelValues map[string][]string
}

// NewDataset builds a snapshot and precomputes the lookups the filter
// options endpoint needs: the observed date range and the distinct values
// per label key. The store assigns versions; tests construct snapshots
// directly.
func NewDataset(version uint64, source string, loadedAt time.Time, records []Record, skipped int) *Dataset {
	d := &Dataset{
		Version:     version,
		SnapshotID:  uuid.New(),
		LoadedAt:    loadedAt.UTC(),
		Source:      source,
		Records:     records,
		SkippedRows: skipped,
		labelValues: make(map[string][]string),
	}

	seen := make(map[string]map[string]struct{})
	for i := range records {
		r := &records[i]
		if d.minDate.IsZero() || r.Timestamp.Before(d.minDate) {
			d.minDate = r.Timestamp
		}
		if d.maxDate.IsZero() || r.Timestamp.After(d.maxDate) {
			d.maxDate = r.Timestamp
		}
		for key, value := range r.Labels {
			if value == "" {
				continue
			}
			if seen[key] == nil {
				seen[key] = make(map[string]struct{})
			}
			seen[key][value] = struct{}{}
		}
	}

	for key, values := range seen {
		list := make([]string, 0, len(values))
		for v := range values {
			list = append(list, v)
		}
		sort.Strings(list)
		d.labelValues[key] = list
	}

	return d
}

// Len returns the number of records in the snapshot.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// DateRange returns the earliest and latest observation dates. ok is false
// for an empty snapshot.
func (d *Dataset) DateRange() (from, to time.Time, ok bool) {
	if len(d.Records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return d.minDate, d.maxDate, true
}

// LabelValues returns the sorted distinct non-empty values observed for a
// label key. The returned slice is shared; callers must not modify it.
func (d *Dataset) LabelValues(key string) []string {
	return d.labelValues[key]
}

// Status summarizes the snapshot for API metadata and the status endpoint.
func (d *Dataset) Status() models.DatasetStatus {
	return models.DatasetStatus{
		Version:     d.Version,
		SnapshotID:  d.SnapshotID.String(),
		LoadedAt:    d.LoadedAt,
		Rows:        len(d.Records),
		SkippedRows: d.SkippedRows,
		Source:      d.Source,
	}
}
