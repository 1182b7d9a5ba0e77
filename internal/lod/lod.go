// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package lod decides level-of-detail from camera distance.
//
// Three axes are deliberately independent state machines: boundary dataset
// resolution (with hysteresis), region fill level (user-forcible), and
// cluster cell size (a pure step function). A user can pin one axis while
// the others keep auto-adjusting, so they must never collapse into a single
// enum.
package lod

import (
	"sync"

	"github.com/dmaier-io/photoglobe/internal/region"
)

// BoundaryResolution selects which boundary dataset backs the border layer.
type BoundaryResolution string

const (
	// ResolutionCoarse is the low-vertex-count dataset used while far out.
	ResolutionCoarse BoundaryResolution = "coarse"

	// ResolutionFine is the detailed dataset used close in.
	ResolutionFine BoundaryResolution = "fine"
)

// RegionMode is the user-facing region level selector.
type RegionMode string

const (
	ModeAuto    RegionMode = "auto"
	ModeCountry RegionMode = "country"
	ModeAdmin1  RegionMode = "admin1"
)

// Distance thresholds. Resolution switching uses two thresholds (hysteresis)
// so hovering at the boundary cannot flicker between datasets; the region
// level's auto threshold is independent of both.
const (
	fineEnterDistance  = 180.0
	fineExitDistance   = 220.0
	autoAdmin1Distance = 160.0
)

// CellSizeForDistance maps camera distance to the cluster grid resolution in
// degrees. A step function rather than interpolation: continuous zoom then
// crosses a handful of stable thresholds instead of re-clustering every
// frame, and farther distances always yield cell sizes >= nearer ones.
func CellSizeForDistance(distance float64) float64 {
	switch {
	case distance >= 400:
		return 10
	case distance >= 300:
		return 6
	case distance >= 220:
		return 3
	case distance >= 160:
		return 1.5
	case distance >= 120:
		return 0.8
	default:
		return 0.4
	}
}

// State is one LOD decision, derived from a distance observation.
type State struct {
	Distance    float64            `json:"distance"`
	Resolution  BoundaryResolution `json:"resolution"`
	RegionLevel region.Level       `json:"region_level"`
	CellSize    float64            `json:"cell_size"`
}

// Policy holds the sticky parts of LOD: the hysteresis state of the boundary
// resolution and the user's region mode. Safe for concurrent use.
type Policy struct {
	mu         sync.Mutex
	resolution BoundaryResolution
	mode       RegionMode
}

// NewPolicy starts coarse and in auto region mode, the correct state for the
// initial fully-zoomed-out view.
func NewPolicy() *Policy {
	return &Policy{
		resolution: ResolutionCoarse,
		mode:       ModeAuto,
	}
}

// SetRegionMode pins or unpins the region fill level.
func (p *Policy) SetRegionMode(mode RegionMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
}

// RegionMode returns the current selector.
func (p *Policy) RegionMode() RegionMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Observe feeds one camera distance through all three axes and returns the
// resulting decision.
//
// Boundary resolution switches to fine only below the enter threshold and
// back to coarse only above the distinct exit threshold; between the two it
// keeps its previous value.
func (p *Policy) Observe(distance float64) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.resolution {
	case ResolutionCoarse:
		if distance < fineEnterDistance {
			p.resolution = ResolutionFine
		}
	case ResolutionFine:
		if distance > fineExitDistance {
			p.resolution = ResolutionCoarse
		}
	}

	return State{
		Distance:    distance,
		Resolution:  p.resolution,
		RegionLevel: p.regionLevelLocked(distance),
		CellSize:    CellSizeForDistance(distance),
	}
}

// regionLevelLocked resolves the fill level: forced modes win, auto switches
// at its own distance threshold. Caller holds p.mu.
func (p *Policy) regionLevelLocked(distance float64) region.Level {
	switch p.mode {
	case ModeCountry:
		return region.LevelCountry
	case ModeAdmin1:
		return region.LevelAdmin1
	default:
		if distance < autoAdmin1Distance {
			return region.LevelAdmin1
		}
		return region.LevelCountry
	}
}
