// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dmaier-io/photoglobe/internal/metrics"
)

// RefreshFunc produces a fresh value for an SWR entry.
type RefreshFunc func(ctx context.Context) (interface{}, error)

// SWR is a stale-while-revalidate cache with an explicit consistency
// contract:
//
//   - age <= FreshFor: the cached value is returned as-is.
//   - FreshFor < age <= FreshFor+StaleFor: the stale value is returned
//     immediately and one background refresh is started (single-flight; a
//     refresh already in progress is never duplicated). Readers may observe
//     a value at most FreshFor+StaleFor old.
//   - age > FreshFor+StaleFor, or no entry: Get blocks on a refresh and
//     returns its result.
//
// A failed background refresh leaves the stale value in place; it will be
// retried on a later Get. A failed blocking refresh returns the error to
// exactly the callers that waited on it.
type SWR struct {
	name     string
	freshFor time.Duration
	staleFor time.Duration

	mu      sync.Mutex
	entries map[string]*swrEntry
}

type swrEntry struct {
	value      interface{}
	storedAt   time.Time
	hasValue   bool
	refreshing bool

	// done is closed when an in-flight blocking refresh settles, so
	// concurrent first readers share one upstream call.
	done chan struct{}
	err  error
}

// NewSWR constructs a stale-while-revalidate cache. The name labels the
// cache in metrics.
func NewSWR(name string, freshFor, staleFor time.Duration) *SWR {
	return &SWR{
		name:     name,
		freshFor: freshFor,
		staleFor: staleFor,
		entries:  make(map[string]*swrEntry),
	}
}

// Get returns the value for key, refreshing per the contract above.
func (c *SWR) Get(ctx context.Context, key string, refresh RefreshFunc) (interface{}, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &swrEntry{}
		c.entries[key] = e
	}

	now := time.Now()
	age := now.Sub(e.storedAt)

	switch {
	case e.hasValue && age <= c.freshFor:
		value := e.value
		c.mu.Unlock()
		metrics.CacheHits.WithLabelValues(c.name).Inc()
		return value, nil

	case e.hasValue && age <= c.freshFor+c.staleFor:
		value := e.value
		if !e.refreshing {
			e.refreshing = true
			go c.refreshInBackground(key, refresh)
		}
		c.mu.Unlock()
		metrics.CacheStaleServed.WithLabelValues(c.name).Inc()
		return value, nil

	default:
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		return c.blockingRefresh(ctx, e, refresh)
	}
}

// blockingRefresh performs (or joins) a foreground refresh. Caller holds
// c.mu; it is released before the upstream call.
func (c *SWR) blockingRefresh(ctx context.Context, e *swrEntry, refresh RefreshFunc) (interface{}, error) {
	if e.done != nil {
		// Another caller is already refreshing; wait for it.
		done := e.done
		c.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		c.mu.Lock()
		value, err := e.value, e.err
		hasValue := e.hasValue
		c.mu.Unlock()
		if err != nil && !hasValue {
			return nil, err
		}
		return value, nil
	}

	done := make(chan struct{})
	e.done = done
	c.mu.Unlock()

	value, err := refresh(ctx)

	c.mu.Lock()
	if err == nil {
		e.value = value
		e.storedAt = time.Now()
		e.hasValue = true
	}
	e.err = err
	e.done = nil
	close(done)
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return value, nil
}

// refreshInBackground revalidates a stale entry without blocking readers.
func (c *SWR) refreshInBackground(key string, refresh RefreshFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	value, err := refresh(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.refreshing = false
	if err != nil {
		// Keep serving the stale value; a later Get retries.
		return
	}
	e.value = value
	e.storedAt = time.Now()
	e.hasValue = true
}

// Invalidate drops one key so the next Get refreshes synchronously.
func (c *SWR) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *SWR) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*swrEntry)
}
