// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package globe orchestrates the visualization pipeline: it pulls photos
// from the library, clusters them at the LOD-selected cell size, attributes
// density to regions, and rasterizes the overlay texture. Derived results
// are cached until the library changes.
package globe

import (
	"context"
	"fmt"
	"time"

	"github.com/dmaier-io/photoglobe/internal/boundaries"
	"github.com/dmaier-io/photoglobe/internal/cache"
	"github.com/dmaier-io/photoglobe/internal/cluster"
	"github.com/dmaier-io/photoglobe/internal/config"
	"github.com/dmaier-io/photoglobe/internal/geo"
	"github.com/dmaier-io/photoglobe/internal/lod"
	"github.com/dmaier-io/photoglobe/internal/logging"
	"github.com/dmaier-io/photoglobe/internal/metrics"
	"github.com/dmaier-io/photoglobe/internal/overlay"
	"github.com/dmaier-io/photoglobe/internal/region"
)

// PhotoSource is the slice of the photo store the pipeline reads.
type PhotoSource interface {
	ListClusterPhotos(ctx context.Context, limit int) ([]cluster.Photo, error)
	ListGeoPoints(ctx context.Context, limit int) ([]geo.Point, error)
}

// BoundarySource delivers region indexes per dataset.
type BoundarySource interface {
	Index(ctx context.Context, dataset boundaries.Dataset) (*region.Index, error)
}

// RegionsResult is the payload of the regions endpoint: the resolved level
// and the estimated per-region photo counts.
type RegionsResult struct {
	Level    region.Level   `json:"level"`
	Counts   map[string]int `json:"counts"`
	Total    int            `json:"total"`
	MaxCount int            `json:"max_count"`
}

// Service runs the pipeline. One instance serves all requests; per-request
// state lives in the caches keyed on true dependencies.
type Service struct {
	photos     PhotoSource
	boundaries BoundarySource
	policy     *lod.Policy
	evaluator  *lod.Evaluator
	results    *cache.Cache
	cfg        *config.GlobeConfig
}

// NewService wires the pipeline. The results cache must be the one cleared
// on library.updated events.
func NewService(photos PhotoSource, bounds BoundarySource, policy *lod.Policy, evaluator *lod.Evaluator, results *cache.Cache, cfg *config.GlobeConfig) *Service {
	return &Service{
		photos:     photos,
		boundaries: bounds,
		policy:     policy,
		evaluator:  evaluator,
		results:    results,
		cfg:        cfg,
	}
}

// Clusters builds (or serves the cached) cluster set for one camera
// distance. The cache key is the derived cell size, not the raw distance:
// every distance inside one LOD step shares a single entry.
func (s *Service) Clusters(ctx context.Context, distance float64, limit int) (cluster.Result, bool, error) {
	cellSize := lod.CellSizeForDistance(distance)
	if limit <= 0 || limit > s.cfg.MaxPhotos {
		limit = s.cfg.MaxPhotos
	}

	key := cache.GenerateKey("clusters", struct {
		CellSize float64
		Limit    int
	}{cellSize, limit})

	if v, ok := s.results.Get(key); ok {
		return v.(cluster.Result), true, nil
	}

	photos, err := s.photos.ListClusterPhotos(ctx, limit)
	if err != nil {
		return cluster.Result{}, false, fmt.Errorf("load photos for clustering: %w", err)
	}

	start := time.Now()
	result := cluster.Build(photos, cellSize, cluster.Options{MaxPhotos: s.cfg.MaxPhotos})
	metrics.ClusterBuildDuration.Observe(time.Since(start).Seconds())

	s.results.Set(key, result)
	return result, false, nil
}

// Regions resolves the fill level for one request and returns estimated
// per-region photo counts.
//
// Level resolution: an explicit "country"/"admin1" wins; "auto" (or empty)
// follows camera distance. The boundary dataset behind a country-level index
// additionally depends on the resolution axis, which carries hysteresis, so
// it comes from the shared policy rather than the raw distance.
func (s *Service) Regions(ctx context.Context, levelParam string, distance float64) (RegionsResult, bool, error) {
	state := s.evaluator.Observe(distance)
	level := s.resolveLevel(levelParam, state)
	dataset := s.datasetFor(level, state.Resolution)

	key := cache.GenerateKey("regions", struct{ Dataset boundaries.Dataset }{dataset})
	if v, ok := s.results.Get(key); ok {
		return v.(RegionsResult), true, nil
	}

	density, err := s.computeDensity(ctx, dataset)
	if err != nil {
		return RegionsResult{}, false, err
	}

	result := RegionsResult{
		Level:    level,
		Counts:   density.Counts,
		Total:    density.Total,
		MaxCount: density.MaxCount,
	}
	s.results.Set(key, result)
	return result, false, nil
}

// Overlay returns the encoded PNG overlay for one request, or skipped=true
// when nothing had nonzero density and there is nothing to paint.
func (s *Service) Overlay(ctx context.Context, levelParam string, distance float64) ([]byte, bool, error) {
	state := s.evaluator.Observe(distance)
	level := s.resolveLevel(levelParam, state)
	dataset := s.datasetFor(level, state.Resolution)

	key := cache.GenerateKey("overlay", struct{ Dataset boundaries.Dataset }{dataset})
	if v, ok := s.results.Get(key); ok {
		encoded := v.([]byte)
		return encoded, len(encoded) == 0, nil
	}

	idx, err := s.boundaries.Index(ctx, dataset)
	if err != nil {
		return nil, false, err
	}

	points, err := s.photos.ListGeoPoints(ctx, 0)
	if err != nil {
		return nil, false, fmt.Errorf("load points for overlay: %w", err)
	}
	density := region.ComputeDensity(idx, points, s.cfg.SampleCap)

	start := time.Now()
	img := overlay.Render(idx, density, overlay.Params{
		Width:  s.cfg.OverlayWidth,
		Height: s.cfg.OverlayHeight,
	})
	if img == nil {
		metrics.OverlayRendersSkipped.Inc()
		// Cache the skip too; re-walking every polygon per request to
		// rediscover an empty library is the worst case.
		s.results.Set(key, []byte(nil))
		return nil, true, nil
	}
	metrics.OverlayRenderDuration.Observe(time.Since(start).Seconds())

	encoded, err := overlay.EncodePNG(img)
	if err != nil {
		return nil, false, fmt.Errorf("encode overlay: %w", err)
	}

	s.results.Set(key, encoded)
	return encoded, false, nil
}

// LOD feeds one camera distance through the throttled evaluator and returns
// the resulting decision.
func (s *Service) LOD(distance float64) lod.State {
	return s.evaluator.Observe(distance)
}

// SetRegionMode pins or unpins the region fill level.
func (s *Service) SetRegionMode(mode lod.RegionMode) {
	s.policy.SetRegionMode(mode)
}

// InvalidateDerived drops every cached derived structure. Subscribed to
// library.updated.
func (s *Service) InvalidateDerived() {
	s.results.Clear()
	logging.Debug().Msg("Cleared derived globe caches after library update")
}

// resolveLevel picks the region level for one request.
func (s *Service) resolveLevel(levelParam string, state lod.State) region.Level {
	switch levelParam {
	case "country":
		return region.LevelCountry
	case "admin1":
		return region.LevelAdmin1
	default:
		return state.RegionLevel
	}
}

// datasetFor maps a level and boundary resolution to the backing dataset.
func (s *Service) datasetFor(level region.Level, resolution lod.BoundaryResolution) boundaries.Dataset {
	if level == region.LevelAdmin1 {
		return boundaries.DatasetAdmin1
	}
	if resolution == lod.ResolutionFine {
		return boundaries.DatasetCountriesFine
	}
	return boundaries.DatasetCountriesCoarse
}

// computeDensity loads the index and full located point set for a dataset
// and attributes density.
func (s *Service) computeDensity(ctx context.Context, dataset boundaries.Dataset) (region.Density, error) {
	idx, err := s.boundaries.Index(ctx, dataset)
	if err != nil {
		return region.Density{}, err
	}

	points, err := s.photos.ListGeoPoints(ctx, 0)
	if err != nil {
		return region.Density{}, fmt.Errorf("load points for density: %w", err)
	}

	return region.ComputeDensity(idx, points, s.cfg.SampleCap), nil
}
