// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/models"
)

// CostStats aggregates the extraordinary delivery costs: transfer costs
// over the records reporting a transfer, and community support costs over
// the records reporting paid support. Amounts on unflagged records are
// ignored; the flag answers the question, the amount only sizes it.
func (e *Engine) CostStats(v dataset.View) *models.CostStats {
	transfer, transferTotal := costSummary(v, config.IndicatorTransferRequired, config.AmountTransferCost)
	support, supportTotal := costSummary(v, config.IndicatorCommunitySupport, config.AmountSupportCost)
	return &models.CostStats{
		Transfer:      transfer,
		Support:       support,
		CombinedTotal: round2(transferTotal + supportTotal),
	}
}

// costSummary returns the presentation summary plus the unrounded total,
// which the combined figure sums before its own rounding.
func costSummary(v dataset.View, flagKey, amountKey string) (models.CostSummary, float64) {
	var s models.CostSummary
	var total float64
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		if r.Answer(flagKey) != dataset.AnswerYes {
			continue
		}
		amount := r.Amount(amountKey)
		if s.Count == 0 {
			s.Min = amount
			s.Max = amount
		} else {
			if amount < s.Min {
				s.Min = amount
			}
			if amount > s.Max {
				s.Max = amount
			}
		}
		s.Count++
		total += amount
	}
	if s.Count == 0 {
		return s, 0
	}
	s.Defined = true
	s.Mean = round2(total / float64(s.Count))
	s.Total = round2(total)
	s.Min = round2(s.Min)
	s.Max = round2(s.Max)
	return s, total
}
