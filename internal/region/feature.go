// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package region

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Level selects the administrative granularity of a region index.
type Level string

const (
	// LevelCountry indexes country features keyed by ISO3 code.
	LevelCountry Level = "country"

	// LevelAdmin1 indexes first-level subdivisions (states, provinces)
	// keyed by parent ISO3 code plus subdivision name.
	LevelAdmin1 Level = "admin1"
)

// Grid cell sizes per level, in degrees. Country features are large, so a
// coarser grid keeps the bucket map small without inflating candidate lists.
const (
	countryCellSize = 10.0
	admin1CellSize  = 6.0
)

// Ring is a polygon outer ring as (lng, lat) vertices.
type Ring []orb.Point

// BBox is an axis-aligned bounding box in degrees.
type BBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// Contains reports whether the point lies inside the box (inclusive).
func (b BBox) Contains(lat, lng float64) bool {
	return lng >= b.MinLng && lng <= b.MaxLng && lat >= b.MinLat && lat <= b.MaxLat
}

// Union expands the box to also cover other.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		MinLng: math.Min(b.MinLng, other.MinLng),
		MinLat: math.Min(b.MinLat, other.MinLat),
		MaxLng: math.Max(b.MaxLng, other.MaxLng),
		MaxLat: math.Max(b.MaxLat, other.MaxLat),
	}
}

// Feature is a named region assembled from one or more source polygons.
// Multi-part source features (island nations, multi-polygon countries)
// sharing a key are merged into a single Feature with a unioned bbox.
type Feature struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Rings    []Ring `json:"-"`
	BBox     BBox   `json:"bbox"`
}

// featureKey derives the stable grouping key for a source feature at the
// given level, or "" when the feature carries no usable identity.
func featureKey(props geojson.Properties, level Level) string {
	if level == LevelAdmin1 {
		parent := firstProp(props, "adm0_a3", "ADM0_A3", "iso_a3", "ISO_A3")
		name := firstProp(props, "name", "NAME", "name_en", "NAME_EN")
		if name == "" {
			return ""
		}
		if parent == "" {
			parent = "XXX"
		}
		return parent + "/" + name
	}

	key := firstProp(props, "ISO_A3", "iso_a3", "ADM0_A3", "adm0_a3")
	// Natural Earth marks some territories with the placeholder -99.
	if key == "" || key == "-99" {
		key = firstProp(props, "ADMIN", "admin", "name", "NAME")
	}
	return key
}

// featureName derives the display name, falling back to the key.
func featureName(props geojson.Properties, key string) string {
	if name := firstProp(props, "ADMIN", "admin", "name", "NAME", "name_en", "NAME_EN"); name != "" {
		return name
	}
	return key
}

// firstProp returns the first non-empty string property among the candidates.
func firstProp(props geojson.Properties, keys ...string) string {
	for _, k := range keys {
		if v, ok := props[k]; ok {
			if s, ok := v.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// outerRings extracts the outer ring of each polygon in the geometry.
// Holes are dropped. Rings with fewer than 3 finite vertices are dropped.
func outerRings(g orb.Geometry) []Ring {
	var rings []Ring

	appendOuter := func(p orb.Polygon) {
		if len(p) == 0 {
			return
		}
		if r := cleanRing(p[0]); r != nil {
			rings = append(rings, r)
		}
	}

	switch geom := g.(type) {
	case orb.Polygon:
		appendOuter(geom)
	case orb.MultiPolygon:
		for _, p := range geom {
			appendOuter(p)
		}
	}

	return rings
}

// cleanRing drops non-finite vertices and rejects degenerate rings.
func cleanRing(r orb.Ring) Ring {
	out := make(Ring, 0, len(r))
	for _, pt := range r {
		if !isFinite(pt[0]) || !isFinite(pt[1]) {
			continue
		}
		out = append(out, pt)
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// ringBBox computes the bounding box of a ring.
func ringBBox(r Ring) BBox {
	b := BBox{
		MinLng: math.Inf(1), MinLat: math.Inf(1),
		MaxLng: math.Inf(-1), MaxLat: math.Inf(-1),
	}
	for _, pt := range r {
		b.MinLng = math.Min(b.MinLng, pt[0])
		b.MaxLng = math.Max(b.MaxLng, pt[0])
		b.MinLat = math.Min(b.MinLat, pt[1])
		b.MaxLat = math.Max(b.MaxLat, pt[1])
	}
	return b
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
