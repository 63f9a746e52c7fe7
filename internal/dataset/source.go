// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/metrics"
)

// Source fetches the raw survey CSV. Implementations translate their
// transport failures into ErrSourceUnavailable so the store only has to
// reason about one transient error.
type Source interface {
	// Fetch returns the raw CSV payload including the header row.
	Fetch(ctx context.Context) ([]byte, error)

	// Describe identifies the source in logs and dataset metadata.
	Describe() string
}

// NewSource builds the configured source backend.
func NewSource(cfg *config.SourceConfig) (Source, error) {
	switch cfg.Type {
	case "file":
		return NewFileSource(cfg.Path), nil
	case "http":
		return NewHTTPSource(cfg.URL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Type)
	}
}

// FileSource reads the CSV from a local path. Used for development and as
// the drop-in backend for sheet exports synced to disk by other tooling.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the file. A missing or unreadable file is a transient
// condition (the exporter may not have written it yet), so it maps to
// ErrSourceUnavailable rather than a hard failure.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrSourceUnavailable, s.path, err)
	}
	return data, nil
}

// Describe identifies the file source.
func (s *FileSource) Describe() string {
	return "file:" + s.path
}

// HTTPSource fetches the CSV from a published sheet URL. Every fetch runs
// through a circuit breaker so a flapping sheet endpoint stops being hammered
// by the refresh scheduler; an open breaker reads as ErrSourceUnavailable
// like any other transient failure.
type HTTPSource struct {
	url     string
	timeout time.Duration
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	name    string
}

// NewHTTPSource creates an HTTP source with circuit breaker protection.
// Breaker configuration:
// - Max 3 requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	cbName := "sheet-source"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := breakerStateString(from)
			toStr := breakerStateString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &HTTPSource{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		cb:      cb,
		name:    cbName,
	}
}

// Fetch downloads the CSV with breaker protection. All failure shapes
// (transport errors, timeouts, non-200 statuses, open breaker) surface as
// ErrSourceUnavailable.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.cb.Execute(func() ([]byte, error) {
		return s.fetch(ctx)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}

		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		counts := s.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)

	return data, nil
}

// fetch performs the actual HTTP GET.
func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request failed: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: request failed with status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrSourceUnavailable, err)
	}
	return data, nil
}

// Describe identifies the HTTP source without leaking query credentials.
func (s *HTTPSource) Describe() string {
	u, err := url.Parse(s.url)
	if err != nil {
		return "http:source"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return "http:" + u.String()
}

// BreakerState reports the breaker state for the status endpoint.
func (s *HTTPSource) BreakerState() string {
	return breakerStateString(s.cb.State())
}

func breakerStateFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
