// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"sort"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/filter"
	"github.com/calderonm/vianda/internal/models"
)

// crossTabLabels are the display names for the joint compliance categories.
var crossTabLabels = map[string]string{
	models.ComplianceFull:             "Cumplimiento Total",
	models.ComplianceScheduleOnly:     "Solo Día Programado",
	models.ComplianceVerificationOnly: "Solo Verificación",
	models.ComplianceNone:             "Incumplimiento Total",
}

// ComplianceCrossTab crosses the two compliance questions, scheduled-day
// delivery and food verification, by delivery-time bucket. Only records
// answering both questions enter the categories; the rest are counted in
// Excluded. The headline percentages are over the categorized records.
func (e *Engine) ComplianceCrossTab(v dataset.View) *models.ComplianceCrossTab {
	categories := []string{
		models.ComplianceFull,
		models.ComplianceScheduleOnly,
		models.ComplianceVerificationOnly,
		models.ComplianceNone,
	}

	buckets := make(map[string]map[string]int)
	var answered, both, neither int
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		scheduled := r.Answer(config.IndicatorDeliveredOnSchedule)
		verified := r.Answer(config.IndicatorDeliveryVerified)
		if !scheduled.Answered() || !verified.Answered() {
			continue
		}
		answered++

		var category string
		switch {
		case scheduled == dataset.AnswerYes && verified == dataset.AnswerYes:
			category = models.ComplianceFull
			both++
		case scheduled == dataset.AnswerYes:
			category = models.ComplianceScheduleOnly
		case verified == dataset.AnswerYes:
			category = models.ComplianceVerificationOnly
		default:
			category = models.ComplianceNone
			neither++
		}

		bucket := r.Label(config.LabelDeliveryTime)
		if bucket == "" {
			continue
		}
		counts, ok := buckets[bucket]
		if !ok {
			counts = make(map[string]int, len(categories))
			buckets[bucket] = counts
		}
		counts[category]++
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	names = filter.OrderValues(names, filter.DeliveryTimeOrder)

	out := &models.ComplianceCrossTab{
		Categories:     categories,
		CategoryLabels: crossTabLabels,
		Buckets:        make([]models.CrossTabBucket, 0, len(names)),
		Excluded:       v.Len() - answered,
	}
	for _, name := range names {
		counts := buckets[name]
		total := 0
		for _, c := range counts {
			total += c
		}
		out.Buckets = append(out.Buckets, models.CrossTabBucket{
			DeliveryTime: name,
			Counts:       counts,
			Total:        total,
		})
	}

	out.BothPct = crossTabPct(both, answered)
	out.NeitherPct = crossTabPct(neither, answered)
	return out
}

func crossTabPct(count, answered int) models.Metric {
	m := models.Metric{Unit: "percent", SampleSize: answered}
	if answered > 0 {
		m.Value = round2(float64(count) / float64(answered) * 100)
		m.Defined = true
	}
	return m
}
