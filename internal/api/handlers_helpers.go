// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/calderonm/vianda/internal/dataset"
	"github.com/calderonm/vianda/internal/filter"
	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/models"
	"github.com/calderonm/vianda/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log
// injection. Newlines, carriage returns, and other control characters could
// otherwise let request input forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers. Successful results
// are cacheable for a minute; error responses must not be cached by
// intermediaries, a stale 503 would outlive the outage it reports.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	if status < 400 {
		w.Header().Set("Cache-Control", "public, max-age=60")
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	etag := generateETag(data)
	w.Header().Set("ETag", etag)

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response with the given code and message.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondAPIError sends a prebuilt envelope error, used for validation
// failures that already carry structured details.
func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: apiErr,
	})
}

// errorStatus maps a domain error to its HTTP status and envelope code.
// Wrapped errors are matched with errors.Is, so handlers can pass through
// whatever the filter, store, or engine returned.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, filter.ErrInvalidFilter):
		return http.StatusBadRequest, "INVALID_FILTER"
	case errors.Is(err, filter.ErrUnknownDimension):
		return http.StatusNotFound, "UNKNOWN_DIMENSION"
	case errors.Is(err, dataset.ErrRefreshThrottled):
		return http.StatusTooManyRequests, "REFRESH_THROTTLED"
	case errors.Is(err, dataset.ErrNoData):
		return http.StatusServiceUnavailable, "NO_DATA_AVAILABLE"
	case errors.Is(err, dataset.ErrSchemaMismatch):
		return http.StatusBadGateway, "SCHEMA_MISMATCH"
	case errors.Is(err, dataset.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// errorMetricType maps a domain error to the error_type label recorded on
// the compute-errors counter.
func errorMetricType(err error) string {
	switch {
	case errors.Is(err, filter.ErrInvalidFilter):
		return "invalid_filter"
	case errors.Is(err, filter.ErrUnknownDimension):
		return "unknown_dimension"
	case errors.Is(err, dataset.ErrNoData):
		return "no_data"
	default:
		return "other"
	}
}

// respondDomainError maps err through errorStatus and answers with the
// envelope. Internal errors get a generic message so implementation details
// never leak into responses; the full error still goes to the log.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}

	logger := logging.Ctx(r.Context())
	event := logger.Warn()
	if status >= 500 {
		event = logger.Error()
	}
	event.
		Str("code", code).
		Str("error", sanitizeLogValue(err.Error())).
		Str("path", r.URL.Path).
		Msg("Request failed")

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or the envelope error if it fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	return validationErr.ToAPIError()
}

// getIntParam extracts an integer query parameter with a default value.
// Malformed values fall back to the default rather than erroring; range
// constraints are enforced separately through validateRequest.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
