// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package cluster groups geotagged photos into density clusters on a uniform
// lat/lng grid. The grid resolution (cell size in degrees) is supplied by the
// caller, normally from the LOD policy, so that zooming produces a stable,
// discrete set of groupings instead of continuous re-clustering.
package cluster

import (
	"fmt"
	"math"
	"sort"

	"github.com/dmaier-io/photoglobe/internal/geo"
)

// DefaultMaxPhotos caps the working set considered for clustering. Photos
// beyond the cap (in input order) are ignored entirely, keeping per-request
// cost bounded on very large libraries.
const DefaultMaxPhotos = 5000

// DefaultGlobeRadius is the sphere radius used for projected cluster
// positions. The frontend renders the base globe at this radius.
const DefaultGlobeRadius = 200.0

// Photo is the minimal photo view the clusterer needs. Located reports
// whether the photo carried GPS metadata at all; photos with Located=false or
// non-finite coordinates are tallied as unlocated, never an error.
type Photo struct {
	ID      string
	Lat     float64
	Lng     float64
	Located bool
}

// Cluster is one occupied grid cell.
type Cluster struct {
	// CellLat and CellLng are the quantized cell center.
	CellLat float64 `json:"cell_lat"`
	CellLng float64 `json:"cell_lng"`

	// Position is the cell center projected onto the globe sphere.
	Position geo.Vec3 `json:"position"`

	// PhotoIDs lists member photos in input order.
	PhotoIDs []string `json:"photo_ids"`

	// Count is len(PhotoIDs), denormalized for clients.
	Count int `json:"count"`
}

// Result is the full outcome of one clustering pass.
//
// Invariant: sum of cluster counts + Unlocated == Considered.
type Result struct {
	Clusters  []Cluster `json:"clusters"`
	Unlocated int       `json:"unlocated"`
	Considered int      `json:"considered"`
	CellSize  float64   `json:"cell_size"`
}

// Options tunes a clustering pass. The zero value selects defaults.
type Options struct {
	// MaxPhotos caps the working set (first N photos by input order).
	// Zero means DefaultMaxPhotos; negative means no cap.
	MaxPhotos int

	// Radius is the sphere radius for projected positions.
	// Zero means DefaultGlobeRadius.
	Radius float64
}

// Build clusters the working set at the given cell size.
//
// Each located photo is quantized with round(coord/cellSize)*cellSize and
// grouped by the quantized pair. The result is deterministic for a given
// input order: cell membership is appended in input order and clusters are
// sorted by count descending with a stable sort, so ties keep first-seen
// order. cellSize must be > 0.
func Build(photos []Photo, cellSize float64, opts Options) Result {
	if opts.MaxPhotos == 0 {
		opts.MaxPhotos = DefaultMaxPhotos
	}
	if opts.Radius == 0 {
		opts.Radius = DefaultGlobeRadius
	}

	working := photos
	if opts.MaxPhotos > 0 && len(working) > opts.MaxPhotos {
		working = working[:opts.MaxPhotos]
	}

	type bucket struct {
		lat, lng float64
		ids      []string
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0, 64)
	unlocated := 0

	for _, p := range working {
		if !p.Located || !isFinite(p.Lat) || !isFinite(p.Lng) {
			unlocated++
			continue
		}

		lat := quantize(p.Lat, cellSize)
		lng := quantize(geo.NormalizeLongitude(p.Lng), cellSize)
		key := cellKey(lat, lng)

		b, ok := buckets[key]
		if !ok {
			b = &bucket{lat: lat, lng: lng}
			buckets[key] = b
			order = append(order, key)
		}
		b.ids = append(b.ids, p.ID)
	}

	clusters := make([]Cluster, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		clusters = append(clusters, Cluster{
			CellLat:  b.lat,
			CellLng:  b.lng,
			Position: geo.Project(b.lat, b.lng, opts.Radius),
			PhotoIDs: b.ids,
			Count:    len(b.ids),
		})
	}

	// Stable keeps first-seen order between equal counts, so identical
	// input always yields identical output.
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})

	return Result{
		Clusters:   clusters,
		Unlocated:  unlocated,
		Considered: len(working),
		CellSize:   cellSize,
	}
}

// quantize snaps a coordinate to the center of its grid cell.
func quantize(v, cellSize float64) float64 {
	return math.Round(v/cellSize) * cellSize
}

// cellKey formats the quantized pair at fixed precision so that float noise
// from the division cannot split a cell into two map keys.
func cellKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f:%.4f", lat, lng)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
