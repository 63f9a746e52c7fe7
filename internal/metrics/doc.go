// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

// Package metrics provides Prometheus instrumentation for the service.
//
// Collectors are registered at package init via promauto and exposed on
// /metrics by the API router. They fall into six groups:
//
//   - dataset load: attempt counters by result, load duration, and gauges
//     describing the snapshot currently being served (version, record count,
//     skipped rows, last success timestamp)
//   - computation: per-operation/per-dimension latency and error counters
//   - result cache: hits, misses, size, and evictions split by reason so TTL
//     expiry and version-advance invalidation can be told apart
//   - API: request counts, latency, in-flight gauge, rate limit rejections
//   - WebSocket: connection gauge and message/error counters
//   - circuit breaker: state, request outcomes, and transitions for the
//     source client breaker
//
// Gauges describing the dataset only move on successful loads, so during an
// outage they keep reporting the snapshot that requests are actually served
// from rather than resetting to zero.
package metrics
