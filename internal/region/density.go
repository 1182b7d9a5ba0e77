// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package region

import (
	"math"

	"github.com/dmaier-io/photoglobe/internal/geo"
)

// DefaultSampleCap bounds the number of points attributed per density pass.
// Large libraries are sampled and the counts scaled back up; 6000 ray-cast
// lookups stay comfortably under a frame budget even on admin1 indexes.
const DefaultSampleCap = 6000

// Density is the per-region photo count estimate for one photo set.
type Density struct {
	// Counts maps region key to the estimated photo count, scaled from the
	// sample to the full located population.
	Counts map[string]int `json:"counts"`

	// Total is the number of located points in the full population.
	Total int `json:"total"`

	// MaxCount is the largest single-region estimate, used downstream to
	// normalize overlay intensity.
	MaxCount int `json:"max_count"`
}

// ComputeDensity attributes located points to regions and scales the sampled
// counts to the full population.
//
// The first sampleCap points (input order) are attributed via idx.Lookup;
// points matching no region contribute nothing. Raw per-region tallies are
// then multiplied by len(points)/sampleSize and rounded to nearest, so a
// sample that fully covers the population (sampleSize == len(points)) yields
// exact counts. sampleCap <= 0 selects DefaultSampleCap.
func ComputeDensity(idx *Index, points []geo.Point, sampleCap int) Density {
	d := Density{Counts: make(map[string]int), Total: len(points)}
	if idx == nil || len(points) == 0 {
		return d
	}
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}

	sample := points
	if len(sample) > sampleCap {
		sample = sample[:sampleCap]
	}

	raw := make(map[string]int)
	for _, p := range sample {
		if f, ok := idx.Lookup(p); ok {
			raw[f.Key]++
		}
	}

	scale := float64(len(points)) / float64(len(sample))
	for key, n := range raw {
		est := int(math.Round(float64(n) * scale))
		if est <= 0 {
			continue
		}
		d.Counts[key] = est
		if est > d.MaxCount {
			d.MaxCount = est
		}
	}

	return d
}
