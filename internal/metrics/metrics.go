// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package metrics provides Prometheus instrumentation for the globe
// pipeline: database queries, boundary fetches, index builds, rasterization,
// clustering, cache efficiency, and API latency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	PhotosImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photos_imported_total",
			Help: "Total number of photos imported into the library",
		},
	)

	// Boundary dataset metrics
	BoundaryFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boundary_fetches_total",
			Help: "Boundary dataset fetch attempts by dataset and result",
		},
		[]string{"dataset", "result"}, // result: "ok", "error", "breaker_open"
	)

	BoundaryFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boundary_fetch_duration_seconds",
			Help:    "Duration of boundary dataset fetches in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"dataset"},
	)

	// Region index metrics
	RegionIndexBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "region_index_builds_total",
			Help: "Region index constructions by level",
		},
		[]string{"level"},
	)

	RegionIndexFeatures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "region_index_features",
			Help: "Feature count of the most recently built region index",
		},
		[]string{"level"},
	)

	// Pipeline metrics
	ClusterBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cluster_build_duration_seconds",
			Help:    "Duration of photo clustering passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	OverlayRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "overlay_render_duration_seconds",
			Help:    "Duration of overlay rasterization passes in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	OverlayRendersSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "overlay_renders_skipped_total",
			Help: "Overlay renders skipped because nothing had nonzero density",
		},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Cache hits by cache name",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Cache misses by cache name",
		},
		[]string{"cache"},
	)

	CacheStaleServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_stale_served_total",
			Help: "Stale values served while a background refresh ran",
		},
		[]string{"cache"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests by route and status code",
		},
		[]string{"route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// WebSocket metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Currently connected websocket clients",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Library events published on the internal bus",
		},
		[]string{"topic"},
	)
)

// ObserveDBQuery records one database query outcome.
func ObserveDBQuery(operation string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
