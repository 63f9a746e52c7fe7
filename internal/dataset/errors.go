// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the load/serve lifecycle. The API layer maps them to
// response codes with errors.Is, so wrapped errors must preserve the chain.
var (
	// ErrNoData means no load has ever succeeded. Distinct from an empty
	// filtered result, which is a valid dataset state.
	ErrNoData = errors.New("no dataset loaded yet")

	// ErrSourceUnavailable covers transient fetch failures: timeouts,
	// transport errors, non-200 responses, and an open circuit breaker.
	// Callers may retry; the previous snapshot keeps being served.
	ErrSourceUnavailable = errors.New("data source unavailable")

	// ErrSchemaMismatch means the source header no longer carries the
	// configured columns. Fatal for that refresh only; the previous
	// snapshot keeps being served until the source is fixed.
	ErrSchemaMismatch = errors.New("source schema mismatch")
)

// SchemaError wraps ErrSchemaMismatch with the columns the header is
// missing, so operators can see exactly what changed in the sheet.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source schema mismatch: missing columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}
