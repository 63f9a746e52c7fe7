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

// groupableLabels are the label keys rankings can group by. Weekday and
// delivery time are excluded: ranking calendar days against each other is
// the trend analysis's job, not a performance comparison.
var groupableLabels = map[string]bool{
	config.LabelVehicle: true,
	config.LabelManager: true,
	config.LabelSite:    true,
	config.LabelRoute:   true,
	config.LabelDriver:  true,
}

// Rankings scores every group under the groupBy label by the mean of its
// defined indicator scores and returns the top and bottom limit groups,
// both ordered most extreme first. dimension narrows the indicator set to
// one dimension; empty means every configured indicator. Inverted
// indicators score by problem absence, so transfer-heavy routes rank low
// rather than high. Groups answering nothing are excluded, not ranked at
// zero.
func (e *Engine) Rankings(v dataset.View, groupBy, dimension string, limit int) (*models.Rankings, error) {
	if !groupableLabels[groupBy] {
		return nil, fmt.Errorf("%w: group key %q", filter.ErrUnknownDimension, groupBy)
	}

	var indicators []*config.IndicatorConfig
	if dimension != "" {
		dim, err := e.dimension(dimension)
		if err != nil {
			return nil, err
		}
		for i := range dim.Indicators {
			indicators = append(indicators, &dim.Indicators[i])
		}
	} else {
		for i := range e.dims {
			for j := range e.dims[i].Indicators {
				indicators = append(indicators, &e.dims[i].Indicators[j])
			}
		}
	}
	if limit <= 0 {
		limit = e.analysis.RankingSize
	}

	type groupTally struct {
		counts  map[string]answerTally
		records int
	}
	groups := make(map[string]*groupTally)
	for i := 0; i < v.Len(); i++ {
		r := v.Record(i)
		name := r.Label(groupBy)
		if name == "" {
			continue
		}
		g, ok := groups[name]
		if !ok {
			g = &groupTally{counts: make(map[string]answerTally, len(indicators))}
			groups[name] = g
		}
		g.records++
		for _, ind := range indicators {
			c := g.counts[ind.Key]
			switch r.Answer(ind.Key) {
			case dataset.AnswerYes:
				c.yes++
			case dataset.AnswerNo:
				c.no++
			default:
				continue
			}
			g.counts[ind.Key] = c
		}
	}

	ranked := make([]models.RankingEntry, 0, len(groups))
	for name, g := range groups {
		var sum float64
		var defined int
		scores := make(map[string]float64, len(indicators))
		for _, ind := range indicators {
			score, ok := indicatorScore(ind, g.counts[ind.Key])
			if !ok {
				continue
			}
			scores[ind.Key] = round1(score)
			sum += score
			defined++
		}
		if defined == 0 {
			continue
		}
		ranked = append(ranked, models.RankingEntry{
			Group:      name,
			Score:      round2(sum / float64(defined)),
			SampleSize: g.records,
			Indicators: scores,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Group < ranked[j].Group
	})

	out := &models.Rankings{
		GroupBy:   groupBy,
		Dimension: dimension,
		Groups:    len(ranked),
		Best:      []models.RankingEntry{},
		Worst:     []models.RankingEntry{},
	}
	n := limit
	if n > len(ranked) {
		n = len(ranked)
	}
	out.Best = append(out.Best, ranked[:n]...)
	for i := 0; i < n; i++ {
		out.Worst = append(out.Worst, ranked[len(ranked)-1-i])
	}
	return out, nil
}
