// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package services

import (
	"context"
	"time"

	"github.com/dmaier-io/photoglobe/internal/boundaries"
	"github.com/dmaier-io/photoglobe/internal/logging"
)

// BoundaryRefresher is the slice of boundaries.Source this service needs.
type BoundaryRefresher interface {
	Refresh(ctx context.Context, dataset boundaries.Dataset) error
}

// BoundaryRefreshService periodically re-fetches every boundary dataset so
// the persisted copies stay current and readers rarely pay a cold fetch. A
// failed refresh is logged and retried on the next tick; the cached and
// persisted copies keep serving in the meantime.
type BoundaryRefreshService struct {
	source   BoundaryRefresher
	interval time.Duration
	datasets []boundaries.Dataset
}

// NewBoundaryRefreshService refreshes all known datasets on the given
// interval. A non-positive interval defaults to 24h.
func NewBoundaryRefreshService(source BoundaryRefresher, interval time.Duration) *BoundaryRefreshService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &BoundaryRefreshService{
		source:   source,
		interval: interval,
		datasets: boundaries.AllDatasets,
	}
}

// Serve implements suture.Service. The first refresh runs immediately so a
// fresh deployment warms its boundary store without waiting a full interval.
func (s *BoundaryRefreshService) Serve(ctx context.Context) error {
	s.refreshAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refreshAll(ctx)
		}
	}
}

func (s *BoundaryRefreshService) refreshAll(ctx context.Context) {
	for _, dataset := range s.datasets {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := s.source.Refresh(ctx, dataset); err != nil {
			logging.Warn().
				Err(err).
				Str("dataset", string(dataset)).
				Msg("Boundary refresh failed")
			continue
		}
		logging.Debug().
			Str("dataset", string(dataset)).
			Dur("elapsed", time.Since(start)).
			Msg("Boundary dataset refreshed")
	}
}

func (s *BoundaryRefreshService) String() string {
	return "boundary-refresh"
}
