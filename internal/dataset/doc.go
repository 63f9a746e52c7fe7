// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

// Package dataset owns the survey data lifecycle: fetching the raw CSV,
// validating it against the schema config, and serving immutable snapshots
// to the filter and analytics layers.
//
// The package is built around three pieces:
//
//   - Source fetches raw CSV bytes from a published sheet URL or a local
//     file. The HTTP backend runs behind a circuit breaker so a flapping
//     endpoint is not hammered by the refresh scheduler.
//   - Normalizer resolves the header against the configured schema and
//     converts rows to Records keyed by internal names. A header missing
//     any configured column fails the whole load with ErrSchemaMismatch;
//     a row with an unparseable date is skipped and counted instead.
//   - Store holds the current snapshot behind an RWMutex, collapses
//     concurrent loads with singleflight, runs the periodic refresh loop,
//     and throttles manual triggers.
//
// Failure never regresses the served data: a load that fails for any
// reason leaves the previous snapshot current, and clients learn about the
// problem through the status endpoint rather than losing their dashboard.
//
// Answers are tri-state (yes / no / missing). The original sheets encode
// booleans inconsistently (SI, S, TRUE, VERDADERO, 1 and their negative
// forms), and unanswered questions must stay distinguishable from "no" so
// indicator rates can report "undefined" instead of a misleading zero.
package dataset
