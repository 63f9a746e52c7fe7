// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"fmt"
	"sort"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/filter"
	"github.com/calderonm/vianda/internal/models"
)

// Distributions returns the raw yes/no/missing split for each of a
// dimension's questions. Unlike the rate metrics, percentages here are
// over all visible records, so the three shares of one question sum to 100
// and missing answers stay visible to the dashboard.
func (e *Engine) Distributions(v dataset.View, dimension string) (*models.DimensionDistributions, error) {
	dim, err := e.dimension(dimension)
	if err != nil {
		return nil, err
	}

	tally := tallyDimension(v, dim)
	out := &models.DimensionDistributions{
		Dimension: dim.Key,
		Label:     dim.Label,
		Records:   tally.records,
		Answers:   make([]models.AnswerCounts, 0, len(dim.Indicators)),
	}

	for i := range dim.Indicators {
		ind := &dim.Indicators[i]
		t := tally.counts[ind.Key]
		a := models.AnswerCounts{
			Indicator: ind.Key,
			Label:     ind.Label,
			Yes:       t.yes,
			No:        t.no,
			Missing:   tally.records - t.answered(),
		}
		if tally.records > 0 {
			total := float64(tally.records)
			a.YesPct = round1(float64(a.Yes) / total * 100)
			a.NoPct = round1(float64(a.No) / total * 100)
			a.MissingPct = round1(float64(a.Missing) / total * 100)
		}
		out.Answers = append(out.Answers, a)
	}
	return out, nil
}

// distributableLabels are the label keys the dashboard charts as
// categorical distributions.
var distributableLabels = map[string]bool{
	config.LabelSite:         true,
	config.LabelRoute:        true,
	config.LabelNode:         true,
	config.LabelWeekday:      true,
	config.LabelDriver:       true,
	config.LabelDeliveryTime: true,
	config.LabelVehicle:      true,
	config.LabelManager:      true,
}

// LabelDistribution counts records per value of one label. Weekdays come
// back Monday through Sunday and delivery-time buckets shortest to
// longest; other labels sort by descending count. Records with an empty
// value for the label are left out of the buckets.
func (e *Engine) LabelDistribution(v dataset.View, labelKey string) (*models.Distribution, error) {
	if !distributableLabels[labelKey] {
		return nil, fmt.Errorf("%w: label %q", filter.ErrUnknownDimension, labelKey)
	}

	counts := make(map[string]int)
	total := 0
	for i := 0; i < v.Len(); i++ {
		value := v.Record(i).Label(labelKey)
		if value == "" {
			continue
		}
		counts[value]++
		total++
	}

	values := make([]string, 0, len(counts))
	for value := range counts {
		values = append(values, value)
	}

	switch labelKey {
	case config.LabelWeekday:
		sort.Strings(values)
		values = filter.OrderValues(values, filter.WeekdayOrder)
	case config.LabelDeliveryTime:
		sort.Strings(values)
		values = filter.OrderValues(values, filter.DeliveryTimeOrder)
	default:
		sort.Slice(values, func(i, j int) bool {
			if counts[values[i]] != counts[values[j]] {
				return counts[values[i]] > counts[values[j]]
			}
			return values[i] < values[j]
		})
	}

	out := &models.Distribution{
		Label:   labelKey,
		Buckets: make([]models.DistributionBucket, 0, len(values)),
		Total:   total,
	}
	for _, value := range values {
		b := models.DistributionBucket{Value: value, Count: counts[value]}
		if total > 0 {
			b.Pct = round1(float64(b.Count) / float64(total) * 100)
		}
		out.Buckets = append(out.Buckets, b)
	}
	return out, nil
}
