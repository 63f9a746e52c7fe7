// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for AuthChecks.
const (
	OutcomeAllowed      = "allowed"
	OutcomeMissingToken = "missing_token"
	OutcomeInvalidToken = "invalid_token"
)

// AuthChecks counts bearer token checks by outcome. In none mode the
// middleware short-circuits and nothing is counted.
var AuthChecks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_checks_total",
		Help: "Total number of bearer token checks",
	},
	[]string{"outcome"},
)
