// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package models

import (
	"time"
)

// Metric is one computed figure. Value is meaningful only when Defined is
// true; a dimension with zero answered rows is reported as undefined, never
// as zero, so a site with no data is distinguishable from a failing one.
//
// Units:
//   - "percent": 0-100 score (indicator yes-rates, composite indices)
//   - "count": absolute number
//   - "currency": monetary amount in COP
type Metric struct {
	Key        string  `json:"key"`
	Label      string  `json:"label,omitempty"`
	Value      float64 `json:"value"`
	Defined    bool    `json:"defined"`
	SampleSize int     `json:"sample_size"`
	Unit       string  `json:"unit,omitempty"`
}

// DimensionMetrics is the compute result for one quality dimension:
// the weighted composite index plus each indicator's score.
//
// Example:
//
//	{
//	  "dimension": "compliance",
//	  "label": "Cumplimiento",
//	  "composite": {"key": "index", "value": 84.5, "defined": true, "sample_size": 1430, "unit": "percent"},
//	  "indicators": {
//	    "delivered_on_schedule": {"value": 81.0, "defined": true, "sample_size": 1425, "unit": "percent"},
//	    "delivery_verified": {"value": 89.8, "defined": true, "sample_size": 1418, "unit": "percent"}
//	  }
//	}
type DimensionMetrics struct {
	Dimension  string            `json:"dimension"`
	Label      string            `json:"label"`
	Records    int               `json:"records"`
	Composite  Metric            `json:"composite"`
	Indicators map[string]Metric `json:"indicators"`
	BySite     []BreakdownEntry  `json:"by_site,omitempty"`
}

// BreakdownEntry is one category's composite index within a dimension
// breakdown, with the number of records behind it.
type BreakdownEntry struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Count    int     `json:"count"`
}

// DateRange bounds the records included in a computation.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Summary is the dashboard front page payload: the general service index,
// each dimension's composite, and basic volume figures.
type Summary struct {
	GeneralIndex Metric            `json:"general_index"`
	Dimensions   map[string]Metric `json:"dimensions"`
	Deliveries   int               `json:"deliveries"`
	DateRange    *DateRange        `json:"date_range,omitempty"`
}

// Problem is one indicator scoring below a threshold. Name carries the
// display form; inverted indicators are presented as "Ausencia de " plus
// their label, since the favorable reading is the problem being absent.
type Problem struct {
	Dimension      string  `json:"dimension"`
	DimensionLabel string  `json:"dimension_label"`
	Indicator      string  `json:"indicator"`
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	SampleSize     int     `json:"sample_size"`
}

// ProblemsReport lists indicators below the critical and alert thresholds,
// each sorted worst first. Undefined indicators are never listed; absence
// of data is not evidence of a problem.
type ProblemsReport struct {
	Critical   []Problem  `json:"critical"`
	Alerts     []Problem  `json:"alerts"`
	Thresholds Thresholds `json:"thresholds"`
}

// Thresholds echoes the configured severity boundaries.
type Thresholds struct {
	Critical float64 `json:"critical"`
	Alert    float64 `json:"alert"`
}

// Recommendations groups suggested actions by execution horizon.
// Short term is immediate action (1-3 months), medium term is planned
// action (3-6 months), long term is continuous improvement (6-12 months).
type Recommendations struct {
	ShortTerm  []string `json:"short_term"`
	MediumTerm []string `json:"medium_term"`
	LongTerm   []string `json:"long_term"`
}

// TrendPoint is one month's mean score for the analyzed series.
type TrendPoint struct {
	Month      time.Time `json:"month"`
	Value      float64   `json:"value"`
	SampleSize int       `json:"sample_size"`
}

// Trend directions.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Trend is the recent-months evolution of a dimension composite or a single
// indicator. ChangePct compares the last point against the first; changes
// inside the configured stable band report Direction "stable". With fewer
// than two monthly points the trend is undefined.
type Trend struct {
	Dimension string       `json:"dimension"`
	Indicator string       `json:"indicator,omitempty"`
	Points    []TrendPoint `json:"points"`
	ChangePct float64      `json:"change_pct"`
	Direction string       `json:"direction"`
	Defined   bool         `json:"defined"`
}

// RankingEntry is one group's aggregate position. Indicators holds the
// per-indicator mean scores the overall score averages.
type RankingEntry struct {
	Group      string             `json:"group"`
	Score      float64            `json:"score"`
	SampleSize int                `json:"sample_size"`
	Indicators map[string]float64 `json:"indicators,omitempty"`
}

// Rankings lists the best and worst groups by mean indicator score.
// Groups with no answered rows are excluded rather than ranked at zero.
type Rankings struct {
	GroupBy   string         `json:"group_by"`
	Dimension string         `json:"dimension,omitempty"`
	Best      []RankingEntry `json:"best"`
	Worst     []RankingEntry `json:"worst"`
	Groups    int            `json:"groups"`
}

// Compliance categories for the delivery-time cross tabulation.
const (
	ComplianceFull             = "full_compliance"
	ComplianceScheduleOnly     = "schedule_only"
	ComplianceVerificationOnly = "verification_only"
	ComplianceNone             = "no_compliance"
)

// CrossTabBucket is one delivery-time bucket's compliance category counts.
type CrossTabBucket struct {
	DeliveryTime string         `json:"delivery_time"`
	Counts       map[string]int `json:"counts"`
	Total        int            `json:"total"`
}

// ComplianceCrossTab crosses delivery-time buckets against joint compliance
// of the scheduling and verification indicators. Rows missing either answer
// are excluded from the categories and reported in Excluded.
type ComplianceCrossTab struct {
	Categories     []string          `json:"categories"`
	CategoryLabels map[string]string `json:"category_labels"`
	Buckets        []CrossTabBucket  `json:"buckets"`
	BothPct        Metric            `json:"both_pct"`
	NeitherPct     Metric            `json:"neither_pct"`
	Excluded       int               `json:"excluded"`
}

// CostSummary aggregates one monetary column over the rows where the
// associated condition was reported (e.g. transfer costs over rows that
// required a transfer).
type CostSummary struct {
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Defined bool    `json:"defined"`
}

// CostStats summarizes extraordinary delivery costs: transfers to sites
// vehicles cannot reach, and paid community support.
type CostStats struct {
	Transfer      CostSummary `json:"transfer"`
	Support       CostSummary `json:"support"`
	CombinedTotal float64     `json:"combined_total"`
}

// DistributionBucket is one categorical value's share of the filtered rows.
type DistributionBucket struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// Distribution is the value breakdown of one label across the filtered
// view. Weekday and delivery-time labels come back in their natural order
// (Lunes..Domingo, shortest to longest); other labels sort by descending
// count.
type Distribution struct {
	Label   string               `json:"label"`
	Buckets []DistributionBucket `json:"buckets"`
	Total   int                  `json:"total"`
}

// AnswerCounts is one survey question's tri-state tally over the filtered
// view. Percentages are over all visible records, so the three shares sum
// to 100 and the missing share stays visible.
type AnswerCounts struct {
	Indicator  string  `json:"indicator"`
	Label      string  `json:"label"`
	Yes        int     `json:"yes"`
	No         int     `json:"no"`
	Missing    int     `json:"missing"`
	YesPct     float64 `json:"yes_pct"`
	NoPct      float64 `json:"no_pct"`
	MissingPct float64 `json:"missing_pct"`
}

// DimensionDistributions holds the per-question answer splits for one
// dimension's indicators, in configured indicator order.
type DimensionDistributions struct {
	Dimension string         `json:"dimension"`
	Label     string         `json:"label"`
	Records   int            `json:"records"`
	Answers   []AnswerCounts `json:"answers"`
}

// IndicatorInfo describes one indicator for filter/catalog discovery.
type IndicatorInfo struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Inverted bool   `json:"inverted"`
}

// DimensionInfo describes one dimension for filter/catalog discovery.
type DimensionInfo struct {
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	Indicators []IndicatorInfo `json:"indicators"`
}

// FilterOptions lists the filterable values present in the current
// snapshot, so dashboards can build their filter controls without
// hardcoding sites or routes.
type FilterOptions struct {
	Labels     map[string][]string `json:"labels"`
	DateRange  *DateRange          `json:"date_range,omitempty"`
	Dimensions []DimensionInfo     `json:"dimensions"`
}

// DatasetStatus describes the active snapshot.
type DatasetStatus struct {
	Version     uint64    `json:"version"`
	SnapshotID  string    `json:"snapshot_id"`
	LoadedAt    time.Time `json:"loaded_at"`
	Rows        int       `json:"rows"`
	SkippedRows int       `json:"skipped_rows"`
	Source      string    `json:"source,omitempty"`
}

// RefreshResult reports the outcome of a manual refresh trigger.
type RefreshResult struct {
	Triggered bool           `json:"triggered"`
	Dataset   *DatasetStatus `json:"dataset,omitempty"`
}

// StoreStatus describes the record store for the status endpoint: the
// snapshot being served plus the health of the load pipeline. Dataset is
// nil before the first successful load; LastError is set while the source
// is failing, even though the previous snapshot keeps being served.
type StoreStatus struct {
	SourceType  string         `json:"source_type"`
	SourceState string         `json:"source_state"`
	LastAttempt *time.Time     `json:"last_attempt,omitempty"`
	LastError   string         `json:"last_error,omitempty"`
	Dataset     *DatasetStatus `json:"dataset,omitempty"`
}
