// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package boundaries

import (
	"context"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/dmaier-io/photoglobe/internal/cache"
	"github.com/dmaier-io/photoglobe/internal/config"
	"github.com/dmaier-io/photoglobe/internal/logging"
	"github.com/dmaier-io/photoglobe/internal/metrics"
	"github.com/dmaier-io/photoglobe/internal/region"
)

// Source delivers parsed region indexes for the globe pipeline. Lookups go
// through a stale-while-revalidate cache, so a slow or dead upstream never
// blocks a request that has any previously built index to serve. The
// persisted store is the fallback of last resort when the process restarts
// while the upstream is down.
type Source struct {
	fetcher *Fetcher
	store   *Store
	cache   *cache.SWR
}

// NewSource wires the fetcher, store, and SWR cache together.
func NewSource(fetcher *Fetcher, store *Store, cfg *config.CacheConfig) *Source {
	return &Source{
		fetcher: fetcher,
		store:   store,
		cache:   cache.NewSWR("boundaries", cfg.BoundaryFreshFor, cfg.BoundaryStaleFor),
	}
}

// Index returns the region index for one dataset, building it on first use
// and revalidating in the background once it goes stale. Returns
// ErrUnavailable when the upstream is unreachable and no copy was ever
// persisted.
func (s *Source) Index(ctx context.Context, dataset Dataset) (*region.Index, error) {
	if !dataset.Valid() {
		return nil, fmt.Errorf("unknown boundary dataset %q", dataset)
	}

	v, err := s.cache.Get(ctx, string(dataset), func(ctx context.Context) (interface{}, error) {
		return s.buildIndex(ctx, dataset)
	})
	if err != nil {
		return nil, err
	}
	return v.(*region.Index), nil
}

// Refresh forces a fetch-and-rebuild for one dataset, bypassing the cache
// freshness window. The background refresh service calls this on its
// interval so restarts rarely pay a cold fetch.
func (s *Source) Refresh(ctx context.Context, dataset Dataset) error {
	idx, err := s.buildIndex(ctx, dataset)
	if err != nil {
		return err
	}
	s.cache.Invalidate(string(dataset))
	// Re-prime so the next reader hits fresh instead of blocking.
	_, err = s.cache.Get(ctx, string(dataset), func(context.Context) (interface{}, error) {
		return idx, nil
	})
	return err
}

// buildIndex fetches (or falls back to the persisted copy of) a dataset and
// parses it into a region index.
func (s *Source) buildIndex(ctx context.Context, dataset Dataset) (*region.Index, error) {
	data, err := s.fetcher.Fetch(ctx, dataset)
	if err != nil {
		logging.Warn().
			Err(err).
			Str("dataset", string(dataset)).
			Msg("Boundary fetch failed, falling back to persisted copy")

		stored, fetchedAt, ok, storeErr := s.store.Get(dataset)
		if storeErr != nil {
			return nil, storeErr
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s (fetch failed: %v)", ErrUnavailable, dataset, err)
		}
		logging.Info().
			Str("dataset", string(dataset)).
			Time("fetched_at", fetchedAt).
			Msg("Serving persisted boundary dataset")
		data = stored
	} else if putErr := s.store.Put(dataset, data); putErr != nil {
		// A failed persist only costs us the restart fallback.
		logging.Warn().Err(putErr).Str("dataset", string(dataset)).Msg("Failed to persist boundary dataset")
	}

	return parseIndex(data, dataset)
}

// parseIndex decodes GeoJSON bytes into a region index.
func parseIndex(data []byte, dataset Dataset) (*region.Index, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s GeoJSON: %w", dataset, err)
	}

	idx := region.BuildIndex(fc, dataset.Level())
	if idx == nil {
		return nil, fmt.Errorf("%w: %s contained no usable polygon features", ErrUnavailable, dataset)
	}

	level := string(dataset.Level())
	metrics.RegionIndexBuilds.WithLabelValues(level).Inc()
	metrics.RegionIndexFeatures.WithLabelValues(level).Set(float64(len(idx.Features)))
	return idx, nil
}
