// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

// Request parameter structs validated with go-playground/validator before
// an operation runs. Field names in validation messages come from the json
// tags, matching the query parameter names.

// trendParams are the extra query params on the trend endpoint. Months 0
// means the configured default window; indicator narrows the series to one
// question instead of the dimension's composite index.
type trendParams struct {
	Months    int    `json:"months" validate:"omitempty,min=1,max=36"`
	Indicator string `json:"indicator" validate:"omitempty,max=64"`
}

// rankingsParams are the query params on the rankings endpoint. The oneof
// values mirror the groupable label keys; weekday and delivery time are
// deliberately absent since ranking calendar days is the trend's job.
type rankingsParams struct {
	GroupBy   string `json:"group_by" validate:"required,oneof=site route vehicle manager driver"`
	Dimension string `json:"dimension" validate:"omitempty,max=64"`
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=50"`
}
