// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

/*
Package models defines data structures for the Vianda application.

This package contains the API request/response structures and the analytic
payload types shared between the computation engine and the HTTP layer. It
serves as the single source of truth for wire-format definitions.

Key Components:

  - APIResponse: Standardized response wrapper with freshness metadata
  - Metric: One computed figure with its definedness flag and sample size
  - DimensionMetrics: Composite index plus indicator scores for a dimension
  - Summary, ProblemsReport, Recommendations: dashboard payloads
  - Trend, Rankings, ComplianceCrossTab, CostStats, Distribution: analyses
  - FilterOptions, DatasetStatus: discovery and freshness payloads

Definedness:

Payloads never encode "no data" as a zero. Every score carries a Defined
flag and the sample size it was computed from, so a site with no answered
surveys renders as "sin datos" rather than as a critical failure.
*/
package models
