// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/logging"
	"github.com/calderonm/vianda/internal/metrics"
	"github.com/calderonm/vianda/internal/models"
)

// ErrRefreshThrottled is returned by TriggerRefresh when manual triggers
// arrive faster than the configured minimum interval. The scheduler's own
// refreshes are never throttled.
var ErrRefreshThrottled = errors.New("refresh triggered too recently")

// loadKey is the singleflight key: there is exactly one kind of load, so
// every concurrent caller shares the same in-flight fetch.
const loadKey = "load"

// Store owns the current dataset snapshot and the refresh lifecycle.
//
// Reads are lock-cheap: Current returns the immutable snapshot pointer under
// an RLock. Loads run through singleflight so the scheduler tick, a manual
// trigger, and the startup load collapse into one fetch when they overlap;
// late callers receive the in-flight result instead of starting their own.
type Store struct {
	cfg        *config.Config
	source     Source
	normalizer *Normalizer

	mu          sync.RWMutex
	current     *Dataset
	version     uint64
	lastErr     error
	lastAttempt time.Time

	group singleflight.Group

	// manual trigger throttle
	triggerLimiter *rate.Limiter

	// refresh scheduler lifecycle
	runMu    sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	callbackMu         sync.RWMutex
	onRefreshCompleted func(status models.DatasetStatus, durationMs int64)
}

// NewStore creates a Store for the given source. No load happens here;
// call Load, TriggerRefresh, or Start.
func NewStore(cfg *config.Config, source Source) *Store {
	var limiter *rate.Limiter
	if cfg.Refresh.MinTriggerInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Refresh.MinTriggerInterval), 1)
	}
	return &Store{
		cfg:            cfg,
		source:         source,
		normalizer:     NewNormalizer(cfg),
		triggerLimiter: limiter,
		stopChan:       make(chan struct{}),
	}
}

// SetOnRefreshCompleted registers a callback invoked after every successful
// load, outside the store's locks. The API layer uses it to clear the result
// cache and notify WebSocket clients.
func (s *Store) SetOnRefreshCompleted(callback func(status models.DatasetStatus, durationMs int64)) {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()
	s.onRefreshCompleted = callback
}

// Current returns the most recent successfully loaded snapshot. Before the
// first successful load it fails with ErrNoData; after that it always
// succeeds, even while the source is down.
func (s *Store) Current() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		if s.lastErr != nil {
			return nil, fmt.Errorf("%w (last load: %v)", ErrNoData, s.lastErr)
		}
		return nil, ErrNoData
	}
	return s.current, nil
}

// Load fetches, validates, and swaps in a new snapshot. Concurrent callers
// share one in-flight load; the first caller's context governs the fetch.
// On failure the previous snapshot stays current and keeps being served.
func (s *Store) Load(ctx context.Context) (*Dataset, error) {
	v, err, _ := s.group.Do(loadKey, func() (interface{}, error) {
		return s.doLoad(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// TriggerRefresh is the manual refresh entry point. It enforces the minimum
// trigger interval, then behaves exactly like Load.
func (s *Store) TriggerRefresh(ctx context.Context) (*Dataset, error) {
	if s.triggerLimiter != nil && !s.triggerLimiter.Allow() {
		metrics.RefreshThrottled.Inc()
		return nil, ErrRefreshThrottled
	}
	return s.Load(ctx)
}

// doLoad performs one fetch-normalize-swap cycle. Runs inside singleflight,
// so at most one instance executes at a time.
func (s *Store) doLoad(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Source.Timeout)
	defer cancel()

	s.mu.Lock()
	s.lastAttempt = start
	s.mu.Unlock()

	data, err := s.source.Fetch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", ErrSourceUnavailable, ctxErr)
		}
		return nil, s.failLoad(start, err)
	}

	records, skipped, err := s.normalizer.Normalize(data)
	if err != nil {
		return nil, s.failLoad(start, err)
	}

	s.mu.Lock()
	s.version++
	ds := NewDataset(s.version, s.source.Describe(), time.Now(), records, skipped)
	s.current = ds
	s.lastErr = nil
	s.mu.Unlock()

	duration := time.Since(start)
	metrics.RecordLoad(s.cfg.Source.Type, duration, "success", ds.Version, len(ds.Records), ds.SkippedRows)
	logging.Info().
		Uint64("version", ds.Version).
		Str("snapshot_id", ds.SnapshotID.String()).
		Int("records", len(ds.Records)).
		Int("skipped", ds.SkippedRows).
		Dur("duration", duration).
		Msg("Dataset loaded")

	s.callbackMu.RLock()
	callback := s.onRefreshCompleted
	s.callbackMu.RUnlock()
	if callback != nil {
		callback(ds.Status(), duration.Milliseconds())
	}

	return ds, nil
}

// failLoad records a failed attempt. The previous snapshot is untouched.
func (s *Store) failLoad(start time.Time, err error) error {
	s.mu.Lock()
	s.lastErr = err
	hasData := s.current != nil
	s.mu.Unlock()

	result := "error"
	switch {
	case errors.Is(err, ErrSchemaMismatch):
		result = "schema_mismatch"
	case errors.Is(err, ErrSourceUnavailable):
		result = "source_unavailable"
	}
	metrics.RecordLoad(s.cfg.Source.Type, time.Since(start), result, 0, 0, 0)

	logging.Error().
		Err(err).
		Str("result", result).
		Bool("serving_previous", hasData).
		Msg("Dataset load failed")

	return err
}

// Status reports the store state for the status endpoint and API metadata.
func (s *Store) Status() models.StoreStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := models.StoreStatus{
		SourceType:  s.cfg.Source.Type,
		SourceState: s.sourceState(),
	}
	if !s.lastAttempt.IsZero() {
		t := s.lastAttempt
		status.LastAttempt = &t
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	if s.current != nil {
		ds := s.current.Status()
		status.Dataset = &ds
	}
	return status
}

// sourceState reports the circuit breaker state when the source carries one.
// Called with s.mu held.
func (s *Store) sourceState() string {
	type stater interface{ BreakerState() string }
	if bs, ok := s.source.(stater); ok {
		return bs.BreakerState()
	}
	return "n/a"
}

// Start launches the background refresh scheduler: an optional startup load
// plus a periodic reload every Refresh.Interval. Returns an error when the
// scheduler is already running.
func (s *Store) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.running {
		return errors.New("refresh scheduler is already running")
	}
	s.running = true
	s.stopChan = make(chan struct{})

	if s.cfg.Refresh.OnStartup {
		logging.Info().Msg("Starting initial dataset load...")
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if _, err := s.Load(ctx); err != nil {
				logging.Warn().Err(err).Msg("Initial dataset load failed, serving no data until next refresh")
			}
		}()
	}

	if s.cfg.Refresh.Interval > 0 {
		logging.Info().Dur("interval", s.cfg.Refresh.Interval).Msg("Starting periodic dataset refresh...")
		s.wg.Add(1)
		go s.runRefreshLoop(ctx)
	}

	return nil
}

// Stop halts the scheduler and waits for in-flight work. Returns an error
// when the scheduler is not running.
func (s *Store) Stop() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if !s.running {
		return errors.New("refresh scheduler is not running")
	}
	s.running = false

	close(s.stopChan)
	s.wg.Wait()
	logging.Info().Msg("Refresh scheduler stopped")

	return nil
}

// runRefreshLoop reloads the dataset on every tick until stopped.
func (s *Store) runRefreshLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Refresh.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Refresh loop stopping (context canceled)")
			return
		case <-s.stopChan:
			logging.Info().Msg("Refresh loop stopping (stop signal received)")
			return
		case <-ticker.C:
			if _, err := s.Load(ctx); err != nil {
				logging.Error().Err(err).Msg("Periodic dataset refresh failed")
			}
		}
	}
}
