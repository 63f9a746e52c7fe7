// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/models"
)

// Summary computes the dashboard front page: every dimension's composite
// index plus the general index, the unweighted mean of the defined
// composites. Undefined dimensions are left out of the mean rather than
// dragging it to zero; a dataset covering only some questionnaires still
// gets an honest general index over the dimensions it covers.
func (e *Engine) Summary(v dataset.View) *models.Summary {
	out := &models.Summary{
		Dimensions: make(map[string]models.Metric, len(e.dims)),
		Deliveries: v.Len(),
		DateRange:  viewDateRange(v),
	}

	var sum float64
	var defined int
	for i := range e.dims {
		dim := &e.dims[i]
		tally := tallyDimension(v, dim)
		index, ok := compositeIndex(dim, tally.counts)
		out.Dimensions[dim.Key] = models.Metric{
			Key:        dim.Key,
			Label:      dim.Label,
			Value:      round2(index),
			Defined:    ok,
			SampleSize: tally.sampled,
			Unit:       "percent",
		}
		if ok {
			sum += index
			defined++
		}
	}

	general := models.Metric{
		Key:   "general_index",
		Label: "Índice General de Calidad",
		Unit:  "percent",
	}
	if defined > 0 {
		general.Value = round2(sum / float64(defined))
		general.Defined = true
		general.SampleSize = v.Len()
	}
	out.GeneralIndex = general

	return out
}

// viewDateRange returns the observed timestamp range of the view, nil when
// the view is empty.
func viewDateRange(v dataset.View) *models.DateRange {
	if v.Len() == 0 {
		return nil
	}
	r := models.DateRange{From: v.Record(0).Timestamp, To: v.Record(0).Timestamp}
	for i := 1; i < v.Len(); i++ {
		ts := v.Record(i).Timestamp
		if ts.Before(r.From) {
			r.From = ts
		}
		if ts.After(r.To) {
			r.To = ts
		}
	}
	return &r
}
