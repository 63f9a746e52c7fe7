// Vianda - School Meal Delivery Analytics and Monitoring
// Copyright 2026 M. Calderon (calderonm)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/calderonm/vianda

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/calderonm/vianda/internal/config"
	"github.com/calderonm/vianda/internal/metrics"
)

// cacheType labels this cache in the Prometheus metrics.
const cacheType = "result"

// Entry is a cached computation result with its expiry.
type Entry struct {
	Data      any
	ExpiresAt time.Time
}

// Cache holds computed analysis results between requests. Entries are
// keyed through Key, expire after the configured TTL, and are dropped
// wholesale when the dataset version advances. Safe for concurrent use.
//
// A disabled cache accepts every call and stores nothing, so callers
// never branch on configuration.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry

	// version is the highest dataset version seen by Invalidate. Entries
	// written for an older version are unreachable after an advance
	// because the version is part of every key; the janitor collects them.
	version uint64

	lastCleanup time.Time

	ttl             time.Duration
	cleanupInterval time.Duration
	enabled         bool

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Enabled     bool      `json:"enabled"`
	Entries     int       `json:"entries"`
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	Version     uint64    `json:"version"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// New builds a cache from config.
func New(cfg config.CacheConfig) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Cache{
		entries:         make(map[string]Entry),
		ttl:             ttl,
		cleanupInterval: interval,
		enabled:         cfg.Enabled,
	}
}

// Get returns the value stored under key. Expired entries are removed on
// access and count as misses.
func (c *Cache) Get(key string) (any, bool) {
	if !c.enabled {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.miss()
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		size := len(c.entries)
		c.mu.Unlock()

		c.evict(1, "ttl")
		c.miss()
		c.publishSize(size)
		return nil, false
	}

	c.hits.Add(1)
	metrics.RecordCacheHit(cacheType)
	return entry.Data, true
}

// Set stores value under key with the configured TTL, replacing any
// previous entry.
func (c *Cache) Set(key string, value any) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	c.entries[key] = Entry{Data: value, ExpiresAt: time.Now().Add(c.ttl)}
	size := len(c.entries)
	c.mu.Unlock()

	c.publishSize(size)
}

// Invalidate drops every entry once the dataset version advances past the
// last one seen. Repeated refresh events for the same version are no-ops,
// so at-least-once delivery on the bus cannot thrash the cache.
func (c *Cache) Invalidate(version uint64) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	if version <= c.version {
		c.mu.Unlock()
		return
	}
	c.version = version
	dropped := len(c.entries)
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.evict(int64(dropped), "version_advance")
	c.publishSize(0)
}

// GetStats returns a snapshot of cache activity for the status endpoint.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	entries := len(c.entries)
	version := c.version
	lastCleanup := c.lastCleanup
	c.mu.RUnlock()

	return Stats{
		Enabled:     c.enabled,
		Entries:     entries,
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Version:     version,
		LastCleanup: lastCleanup,
	}
}

// HitRate returns the hit percentage over all lookups.
func (c *Cache) HitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Serve runs the janitor loop: expired entries are swept every cleanup
// interval until the context is canceled. Implements suture.Service.
func (c *Cache) Serve(ctx context.Context) error {
	if !c.enabled {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.sweep()
		}
	}
}

// String identifies the janitor in supervisor logs.
func (c *Cache) String() string {
	return "cache-janitor"
}

// sweep removes every expired entry.
func (c *Cache) sweep() {
	now := time.Now()

	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.lastCleanup = now
	c.mu.Unlock()

	c.evict(int64(removed), "ttl")
	c.publishSize(size)
}

func (c *Cache) miss() {
	c.misses.Add(1)
	metrics.RecordCacheMiss(cacheType)
}

func (c *Cache) evict(n int64, reason string) {
	if n == 0 {
		return
	}
	c.evictions.Add(n)
	metrics.CacheEvictions.WithLabelValues(cacheType, reason).Add(float64(n))
}

func (c *Cache) publishSize(n int) {
	metrics.CacheSize.WithLabelValues(cacheType).Set(float64(n))
}
