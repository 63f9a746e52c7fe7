// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

// Package analytics computes service quality metrics over filtered dataset
// views: per-dimension composite indices, problem detection against
// severity thresholds, canned recommendations, monthly trends, group
// rankings, the compliance cross tabulation, cost aggregates, and answer
// distributions.
//
// Two rules hold everywhere. Rates divide by answered records only, so a
// question nobody answered is undefined rather than a fake zero; every
// emitted figure carries a Defined flag and its sample size. And rounding
// happens only when a value lands in a DTO field, never on values that
// feed further aggregation.
//
// The engine is stateless and pure: the same view and config always
// produce the same result, which is what lets the API layer cache results
// by (snapshot version, filter, operation).
package analytics
