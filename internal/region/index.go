// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package region

import (
	"math"

	"github.com/paulmach/orb/geojson"

	"github.com/dmaier-io/photoglobe/internal/geo"
)

// cellKey addresses one cell of the uniform acceleration grid.
type cellKey struct {
	X, Y int
}

// Index is a queryable spatial structure over region features.
//
// The buckets map grid cells to the indices of every feature whose bbox
// overlaps that cell. It is a broad-phase filter only: a bucket hit still
// requires the bbox check and exact ray casting in Lookup. The Index is
// immutable once built and safe for concurrent readers.
type Index struct {
	Features []Feature
	Level    Level

	buckets  map[cellKey][]int
	cellSize float64
}

// BuildIndex assembles an Index from decoded boundary GeoJSON.
//
// Features sharing a grouping key are merged (rings appended, bboxes
// unioned). Features without a usable key or without any valid ring are
// skipped. Returns nil when nothing valid was extracted; callers treat that
// as "boundaries unavailable", not as an error.
func BuildIndex(fc *geojson.FeatureCollection, level Level) *Index {
	if fc == nil {
		return nil
	}

	cellSize := countryCellSize
	if level == LevelAdmin1 {
		cellSize = admin1CellSize
	}

	var features []Feature
	byKey := make(map[string]int)

	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		key := featureKey(f.Properties, level)
		if key == "" {
			continue
		}
		rings := outerRings(f.Geometry)
		if len(rings) == 0 {
			continue
		}

		bbox := ringBBox(rings[0])
		for _, r := range rings[1:] {
			bbox = bbox.Union(ringBBox(r))
		}

		if i, ok := byKey[key]; ok {
			features[i].Rings = append(features[i].Rings, rings...)
			features[i].BBox = features[i].BBox.Union(bbox)
			continue
		}

		byKey[key] = len(features)
		features = append(features, Feature{
			Key:   key,
			Name:  featureName(f.Properties, key),
			Rings: rings,
			BBox:  bbox,
		})
	}

	if len(features) == 0 {
		return nil
	}

	idx := &Index{
		Features: features,
		Level:    level,
		buckets:  make(map[cellKey][]int),
		cellSize: cellSize,
	}

	for i, f := range features {
		idx.registerBBox(i, f.BBox)
	}

	return idx
}

// registerBBox adds a feature index to every grid cell its bbox covers.
func (idx *Index) registerBBox(feature int, b BBox) {
	minX := int(math.Floor(b.MinLng / idx.cellSize))
	maxX := int(math.Floor(b.MaxLng / idx.cellSize))
	minY := int(math.Floor(b.MinLat / idx.cellSize))
	maxY := int(math.Floor(b.MaxLat / idx.cellSize))

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := cellKey{X: x, Y: y}
			idx.buckets[key] = append(idx.buckets[key], feature)
		}
	}
}

// Lookup attributes a point to the first matching feature in bucket order.
//
// The longitude is normalized first. Candidates from the grid bucket are
// rejected by bbox before the exact ray-casting test. Returns (nil, false)
// when no feature contains the point; on the open ocean that is the common
// case and not an error.
func (idx *Index) Lookup(p geo.Point) (*Feature, bool) {
	lng := geo.NormalizeLongitude(p.Lng)
	lat := p.Lat

	key := cellKey{
		X: int(math.Floor(lng / idx.cellSize)),
		Y: int(math.Floor(lat / idx.cellSize)),
	}

	for _, fi := range idx.buckets[key] {
		f := &idx.Features[fi]
		if !f.BBox.Contains(lat, lng) {
			continue
		}
		for _, ring := range f.Rings {
			if ringContains(ring, lat, lng) {
				return f, true
			}
		}
	}

	return nil, false
}

// ringContains runs an even-odd ray cast against one ring.
//
// Longitudes are normalized per vertex and edges whose endpoints differ by
// more than 180 degrees are skipped. This keeps anti-meridian-spanning rings
// from producing a horizontal band that swallows the whole latitude range, at
// the cost of misclassifying points near the seam itself.
func ringContains(ring Ring, lat, lng float64) bool {
	inside := false
	n := len(ring)

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi := geo.NormalizeLongitude(ring[i][0])
		yi := ring[i][1]
		xj := geo.NormalizeLongitude(ring[j][0])
		yj := ring[j][1]

		if math.Abs(xi-xj) > 180 {
			continue
		}

		if (yi > lat) != (yj > lat) {
			crossLng := (xj-xi)*(lat-yi)/(yj-yi) + xi
			if lng < crossLng {
				inside = !inside
			}
		}
	}

	return inside
}
