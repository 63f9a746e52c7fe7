// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"sort"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/models"
)

// answerTally counts yes/no answers for one question. Missing answers are
// not counted anywhere; rates divide by answered records only, so a
// question nobody answered is undefined rather than zero.
type answerTally struct {
	yes int
	no  int
}

func (t answerTally) answered() int { return t.yes + t.no }

// yesRate returns the percentage of favorable answers over answered
// records. The second result is false when nothing was answered.
func (t answerTally) yesRate() (float64, bool) {
	n := t.answered()
	if n == 0 {
		return 0, false
	}
	return float64(t.yes) / float64(n) * 100, true
}

// dimensionTally aggregates one dimension's questions over a set of
// records: per-question counts plus the number of records that answered at
// least one question, which is the composite's effective sample.
type dimensionTally struct {
	counts  map[string]answerTally
	sampled int
	records int
}

func newDimensionTally(dim *config.DimensionConfig) *dimensionTally {
	return &dimensionTally{counts: make(map[string]answerTally, len(dim.Indicators))}
}

func (t *dimensionTally) add(r *dataset.Record, dim *config.DimensionConfig) {
	t.records++
	answered := false
	for _, ind := range dim.Indicators {
		c := t.counts[ind.Key]
		switch r.Answer(ind.Key) {
		case dataset.AnswerYes:
			c.yes++
			answered = true
		case dataset.AnswerNo:
			c.no++
			answered = true
		default:
			continue
		}
		t.counts[ind.Key] = c
	}
	if answered {
		t.sampled++
	}
}

// tallyDimension walks the view once, counting every question of dim.
func tallyDimension(v dataset.View, dim *config.DimensionConfig) *dimensionTally {
	t := newDimensionTally(dim)
	for i := 0; i < v.Len(); i++ {
		t.add(v.Record(i), dim)
	}
	return t
}

// indicatorScore returns the indicator's favorable score: the yes-rate, or
// its complement when the question is inverted (where "yes" reports a
// problem, being free of it is what scores).
func indicatorScore(ind *config.IndicatorConfig, t answerTally) (float64, bool) {
	rate, ok := t.yesRate()
	if !ok {
		return 0, false
	}
	if ind.Invert {
		return 100 - rate, true
	}
	return rate, true
}

// compositeIndex is the weighted mean of the defined indicator scores, with
// weights renormalized over the defined subset. All indicators undefined
// gives an undefined index.
func compositeIndex(dim *config.DimensionConfig, counts map[string]answerTally) (float64, bool) {
	var sum, weight float64
	for i := range dim.Indicators {
		ind := &dim.Indicators[i]
		score, ok := indicatorScore(ind, counts[ind.Key])
		if !ok {
			continue
		}
		sum += score * ind.Weight
		weight += ind.Weight
	}
	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}

// Compute returns one dimension's metrics over the view: the raw yes-rate
// per question, the weighted composite index, and the per-site breakdown.
func (e *Engine) Compute(v dataset.View, dimension string) (*models.DimensionMetrics, error) {
	dim, err := e.dimension(dimension)
	if err != nil {
		return nil, err
	}

	tally := tallyDimension(v, dim)

	out := &models.DimensionMetrics{
		Dimension:  dim.Key,
		Label:      dim.Label,
		Records:    tally.records,
		Indicators: make(map[string]models.Metric, len(dim.Indicators)),
	}

	for i := range dim.Indicators {
		ind := &dim.Indicators[i]
		t := tally.counts[ind.Key]
		rate, defined := t.yesRate()
		out.Indicators[ind.Key] = models.Metric{
			Key:        ind.Key,
			Label:      ind.Label,
			Value:      round1(rate),
			Defined:    defined,
			SampleSize: t.answered(),
			Unit:       "percent",
		}
	}

	index, defined := compositeIndex(dim, tally.counts)
	out.Composite = models.Metric{
		Key:        "index",
		Label:      dim.Label,
		Value:      round2(index),
		Defined:    defined,
		SampleSize: tally.sampled,
		Unit:       "percent",
	}

	out.BySite = e.siteBreakdown(v, dim)
	return out, nil
}

// siteBreakdown computes the dimension index per site, descending by value
// with ties on site name. Sites where nothing was answered are left out.
func (e *Engine) siteBreakdown(v dataset.View, dim *config.DimensionConfig) []models.BreakdownEntry {
	bySite := make(map[string]*dimensionTally)
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		site := r.Label(config.LabelSite)
		if site == "" {
			continue
		}
		t, ok := bySite[site]
		if !ok {
			t = newDimensionTally(dim)
			bySite[site] = t
		}
		t.add(r, dim)
	}

	entries := make([]models.BreakdownEntry, 0, len(bySite))
	for site, t := range bySite {
		index, defined := compositeIndex(dim, t.counts)
		if !defined {
			continue
		}
		entries = append(entries, models.BreakdownEntry{
			Category: site,
			Value:    round2(index),
			Count:    t.records,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Category < entries[j].Category
	})
	return entries
}
