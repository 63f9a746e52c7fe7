// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package analytics

import (
	"fmt"
	"math"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/filter"
	"github.com/calderonm/vianda/internal/models"
)

// Engine computes service quality metrics over dataset views. Every method
// is a pure function of (view, config): identical inputs give identical
// output, which is what makes results cacheable by snapshot version and
// filter. The engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	dims     []config.DimensionConfig
	dimIndex map[string]*config.DimensionConfig
	analysis config.AnalysisConfig
}

// New builds an engine from the configured dimension catalog and analysis
// thresholds.
func New(cfg *config.Config) *Engine {
	e := &Engine{
		dims:     cfg.Dimensions,
		dimIndex: make(map[string]*config.DimensionConfig, len(cfg.Dimensions)),
		analysis: cfg.Analysis,
	}
	for i := range e.dims {
		e.dimIndex[e.dims[i].Key] = &e.dims[i]
	}
	return e
}

// dimension resolves a dimension key or reports it unknown.
func (e *Engine) dimension(key string) (*config.DimensionConfig, error) {
	if d, ok := e.dimIndex[key]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: dimension %q", filter.ErrUnknownDimension, key)
}

// Dimensions returns the configured catalog for discovery endpoints.
func (e *Engine) Dimensions() []models.DimensionInfo {
	out := make([]models.DimensionInfo, 0, len(e.dims))
	for _, d := range e.dims {
		info := models.DimensionInfo{
			Key:        d.Key,
			Label:      d.Label,
			Indicators: make([]models.IndicatorInfo, 0, len(d.Indicators)),
		}
		for _, ind := range d.Indicators {
			info.Indicators = append(info.Indicators, models.IndicatorInfo{
				Key:      ind.Key,
				Label:    ind.Label,
				Inverted: ind.Invert,
			})
		}
		out = append(out, info)
	}
	return out
}

// Thresholds returns the configured severity boundaries.
func (e *Engine) Thresholds() models.Thresholds {
	return models.Thresholds{
		Critical: e.analysis.CriticalThreshold,
		Alert:    e.analysis.AlertThreshold,
	}
}

// round1 rounds percentages for presentation. Aggregation always runs on
// unrounded values; rounding is the last step before a value lands in a DTO.
func round1(x float64) float64 { return math.Round(x*10) / 10 }

// round2 rounds indices and monetary amounts for presentation.
func round2(x float64) float64 { return math.Round(x*100) / 100 }
