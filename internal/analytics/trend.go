// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/filter"
	"github.com/calderonm/vianda/internal/models"
)

// Trend computes the monthly evolution of a dimension's composite index,
// or of a single indicator's yes-rate when indicator is non-empty. The
// series covers the last months calendar months with any answered data
// (months <= 0 uses the configured window). Direction compares the first
// and last point of the window; changes inside the stable band report
// "stable", and a window of fewer than two months is stable with zero
// change and Defined false.
func (e *Engine) Trend(v dataset.View, dimension, indicator string, months int) (*models.Trend, error) {
	dim, err := e.dimension(dimension)
	if err != nil {
		return nil, err
	}
	var ind *config.IndicatorConfig
	if indicator != "" {
		for i := range dim.Indicators {
			if dim.Indicators[i].Key == indicator {
				ind = &dim.Indicators[i]
				break
			}
		}
		if ind == nil {
			return nil, fmt.Errorf("%w: indicator %q in dimension %q",
				filter.ErrUnknownDimension, indicator, dimension)
		}
	}
	if months <= 0 {
		months = e.analysis.TrendMonths
	}

	byMonth := make(map[time.Time]*dimensionTally)
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		m := monthOf(r.Timestamp)
		t, ok := byMonth[m]
		if !ok {
			t = newDimensionTally(dim)
			byMonth[m] = t
		}
		t.add(r, dim)
	}

	keys := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		keys = append(keys, m)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	// Monthly values before windowing, unrounded. Months where nothing
	// relevant was answered yield no point.
	type monthValue struct {
		month  time.Time
		value  float64
		sample int
	}
	series := make([]monthValue, 0, len(keys))
	for _, m := range keys {
		t := byMonth[m]
		var value float64
		var defined bool
		var sample int
		if ind != nil {
			c := t.counts[ind.Key]
			value, defined = c.yesRate()
			sample = c.answered()
		} else {
			value, defined = compositeIndex(dim, t.counts)
			sample = t.sampled
		}
		if !defined {
			continue
		}
		series = append(series, monthValue{month: m, value: value, sample: sample})
	}
	if len(series) > months {
		series = series[len(series)-months:]
	}

	out := &models.Trend{
		Dimension: dimension,
		Indicator: indicator,
		Direction: models.TrendStable,
		Points:    make([]models.TrendPoint, 0, len(series)),
	}
	for _, p := range series {
		out.Points = append(out.Points, models.TrendPoint{
			Month:      p.month,
			Value:      round2(p.value),
			SampleSize: p.sample,
		})
	}
	if len(series) < 2 {
		return out, nil
	}

	first, last := series[0].value, series[len(series)-1].value
	var changePct float64
	if first > 0 {
		changePct = (last - first) / first * 100
	}
	out.ChangePct = round2(changePct)
	out.Defined = true
	switch {
	case math.Abs(changePct) < e.analysis.StableBandPct:
		out.Direction = models.TrendStable
	case changePct > 0:
		out.Direction = models.TrendImproving
	default:
		out.Direction = models.TrendDeclining
	}

	return out, nil
}

// monthOf truncates a timestamp to the first of its calendar month in UTC.
func monthOf(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
}
