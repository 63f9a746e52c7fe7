// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and data freshness.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"general_index": {...}, "dimensions": {...}},
//	  "metadata": {
//	    "timestamp": "2026-08-25T12:00:00Z",
//	    "query_time_ms": 4,
//	    "dataset": {"version": 12, "loaded_at": "2026-08-25T11:50:00Z", "rows": 1430, "skipped_rows": 7}
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "INVALID_FILTER",
//	    "message": "start date is after end date",
//	    "details": {"start": "2026-05-01", "end": "2026-04-01"}
//	  },
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and freshness tracking.
//
// Fields:
//   - Timestamp: Server time when the response was generated (RFC3339)
//   - QueryTimeMS: Metric computation time in milliseconds (0 if cached)
//   - Cached: Whether the response was served from the results cache
//   - Dataset: Snapshot the response was computed from; clients use it to
//     detect staleness and to report excluded rows next to every figure
type Metadata struct {
	Timestamp   time.Time      `json:"timestamp"`
	QueryTimeMS int64          `json:"query_time_ms,omitempty"`
	Cached      bool           `json:"cached,omitempty"`
	Dataset     *DatasetStatus `json:"dataset,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Error codes:
//   - INVALID_FILTER: Contradictory or malformed filter parameters
//   - UNKNOWN_DIMENSION: Dimension key not in the configured catalog
//   - NO_DATA_AVAILABLE: No snapshot has been loaded yet
//   - SOURCE_UNAVAILABLE: The upstream sheet could not be reached in time
//   - SCHEMA_MISMATCH: The source columns no longer match the configured schema
//   - VALIDATION_ERROR: Invalid request parameters
//   - AUTHENTICATION_ERROR: Invalid or missing credentials
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - REFRESH_THROTTLED: Manual refresh triggered too soon after the last load
//   - INTERNAL_ERROR: Unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status        string     `json:"status"`
	Version       string     `json:"version"`
	SourceType    string     `json:"source_type"`
	DatasetLoaded bool       `json:"dataset_loaded"`
	LastLoadTime  *time.Time `json:"last_load_time,omitempty"`
	Uptime        float64    `json:"uptime_seconds"`
}
