// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package lod

import (
	"testing"
	"time"

	"github.com/dmaier-io/photoglobe/internal/region"
)

func TestCellSizeMonotone(t *testing.T) {
	prev := 0.0
	for d := 0.0; d <= 600; d += 5 {
		size := CellSizeForDistance(d)
		if size < prev {
			t.Fatalf("cell size decreased with distance: %v at %v after %v", size, d, prev)
		}
		prev = size
	}
}

func TestCellSizeSteps(t *testing.T) {
	cases := []struct {
		distance float64
		want     float64
	}{
		{500, 10},
		{400, 10},
		{350, 6},
		{250, 3},
		{180, 1.5},
		{130, 0.8},
		{50, 0.4},
	}
	for _, tc := range cases {
		if got := CellSizeForDistance(tc.distance); got != tc.want {
			t.Errorf("CellSizeForDistance(%v) = %v, want %v", tc.distance, got, tc.want)
		}
	}
}

func TestBoundaryResolutionHysteresis(t *testing.T) {
	p := NewPolicy()

	// Starts coarse.
	if s := p.Observe(500); s.Resolution != ResolutionCoarse {
		t.Fatalf("initial resolution = %v, want coarse", s.Resolution)
	}

	// In the dead band nothing changes on the way in.
	if s := p.Observe(200); s.Resolution != ResolutionCoarse {
		t.Errorf("dead band flipped coarse→%v", s.Resolution)
	}

	// Below the enter threshold: fine.
	if s := p.Observe(170); s.Resolution != ResolutionFine {
		t.Errorf("below enter threshold resolution = %v, want fine", s.Resolution)
	}

	// Back into the dead band: stays fine (no flicker).
	if s := p.Observe(200); s.Resolution != ResolutionFine {
		t.Errorf("dead band flipped fine→%v", s.Resolution)
	}

	// Above the exit threshold: coarse again.
	if s := p.Observe(230); s.Resolution != ResolutionCoarse {
		t.Errorf("above exit threshold resolution = %v, want coarse", s.Resolution)
	}
}

func TestRegionModeForcedAndAuto(t *testing.T) {
	p := NewPolicy()

	// Auto: far out → country, close in → admin1.
	if s := p.Observe(300); s.RegionLevel != region.LevelCountry {
		t.Errorf("auto far level = %v, want country", s.RegionLevel)
	}
	if s := p.Observe(100); s.RegionLevel != region.LevelAdmin1 {
		t.Errorf("auto near level = %v, want admin1", s.RegionLevel)
	}

	// Forcing country holds regardless of distance.
	p.SetRegionMode(ModeCountry)
	if s := p.Observe(100); s.RegionLevel != region.LevelCountry {
		t.Errorf("forced country at near distance = %v", s.RegionLevel)
	}

	// Forcing admin1 holds too, even while resolution keeps auto-adjusting.
	p.SetRegionMode(ModeAdmin1)
	s := p.Observe(500)
	if s.RegionLevel != region.LevelAdmin1 {
		t.Errorf("forced admin1 at far distance = %v", s.RegionLevel)
	}
	if s.Resolution != ResolutionCoarse {
		t.Errorf("resolution axis should stay independent, got %v", s.Resolution)
	}
}

func TestEvaluatorThrottles(t *testing.T) {
	p := NewPolicy()
	e := NewEvaluator(p, 200*time.Millisecond)

	// First observation always computes.
	s1 := e.Observe(500)
	if s1.CellSize != 10 {
		t.Fatalf("first observation cell size = %v, want 10", s1.CellSize)
	}

	// A rapid follow-up inside the interval is ignored: state unchanged
	// even though the distance moved across a threshold.
	s2 := e.Observe(50)
	if s2.CellSize != 10 {
		t.Errorf("throttled observation changed state: %+v", s2)
	}

	// After the interval the new distance is admitted.
	time.Sleep(250 * time.Millisecond)
	s3 := e.Observe(50)
	if s3.CellSize != 0.4 {
		t.Errorf("post-interval cell size = %v, want 0.4", s3.CellSize)
	}
}

func TestEvaluatorLast(t *testing.T) {
	e := NewEvaluator(NewPolicy(), time.Second)

	if _, ok := e.Last(); ok {
		t.Error("Last reported a state before any observation")
	}

	e.Observe(300)
	if s, ok := e.Last(); !ok || s.Distance != 300 {
		t.Errorf("Last = (%+v, %v), want distance 300", s, ok)
	}
}
