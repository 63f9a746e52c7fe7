// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"sort"

	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/models"
)

// Problems evaluates every configured indicator against the severity
// thresholds. Inverted indicators are scored by the absence of the problem
// and renamed accordingly, so a 15% transfer rate reads "Ausencia de
// Necesidad de Trasbordo: 85". Indicators nobody answered appear in
// neither list; no data is not evidence of a problem. Each list comes back
// worst first.
func (e *Engine) Problems(v dataset.View) *models.ProblemsReport {
	report := &models.ProblemsReport{
		Critical:   []models.Problem{},
		Alerts:     []models.Problem{},
		Thresholds: e.Thresholds(),
	}

	for i := range e.dims {
		dim := &e.dims[i]
		tally := tallyDimension(v, dim)
		for j := range dim.Indicators {
			ind := &dim.Indicators[j]
			t := tally.counts[ind.Key]
			score, defined := indicatorScore(ind, t)
			if !defined || score >= e.analysis.AlertThreshold {
				continue
			}
			name := ind.Label
			if ind.Invert {
				name = "Ausencia de " + ind.Label
			}
			p := models.Problem{
				Dimension:      dim.Key,
				DimensionLabel: dim.Label,
				Indicator:      ind.Key,
				Name:           name,
				Score:          round1(score),
				SampleSize:     t.answered(),
			}
			if score < e.analysis.CriticalThreshold {
				report.Critical = append(report.Critical, p)
			} else {
				report.Alerts = append(report.Alerts, p)
			}
		}
	}

	sortProblems(report.Critical)
	sortProblems(report.Alerts)
	return report
}

func sortProblems(list []models.Problem) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score < list[j].Score
		}
		return list[i].Name < list[j].Name
	})
}
