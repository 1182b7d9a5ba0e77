// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package geo

import (
	"math"
	"testing"
)

func TestProjectStaysOnSphere(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		radius   float64
	}{
		{"equator prime meridian", 0, 0, 100},
		{"north pole", 90, 0, 100},
		{"south pole", -90, 45, 100},
		{"paris", 48.8566, 2.3522, 1},
		{"tokyo", 35.6762, 139.6503, 6371},
		{"antimeridian", -41.3, 180, 50},
		{"negative antimeridian", 12.5, -180, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Project(tc.lat, tc.lng, tc.radius)
			if diff := math.Abs(v.Length() - tc.radius); diff > 1e-9*tc.radius {
				t.Errorf("Project(%v, %v, %v) has length %v, want %v",
					tc.lat, tc.lng, tc.radius, v.Length(), tc.radius)
			}
		})
	}
}

func TestProjectPoles(t *testing.T) {
	north := Project(90, 0, 10)
	if math.Abs(north.Y-10) > 1e-9 {
		t.Errorf("north pole Y = %v, want 10", north.Y)
	}

	south := Project(-90, 0, 10)
	if math.Abs(south.Y+10) > 1e-9 {
		t.Errorf("south pole Y = %v, want -10", south.Y)
	}
}

func TestProjectDeterministic(t *testing.T) {
	a := Project(40.0, -74.0, 200)
	b := Project(40.0, -74.0, 200)
	if a != b {
		t.Errorf("Project not deterministic: %v != %v", a, b)
	}
}

func TestNormalizeLongitudeRange(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{180, 180},
		{-180, -180},
		{181, -179},
		{-181, 179},
		{360, 0},
		{540, 180},
		{-540, -180},
		{720.5, 0.5},
		{-900, -180},
	}

	for _, tc := range cases {
		got := NormalizeLongitude(tc.in)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("NormalizeLongitude(%v) = %v, want %v", tc.in, got, tc.want)
		}
		if got < -180 || got > 180 {
			t.Errorf("NormalizeLongitude(%v) = %v, outside [-180, 180]", tc.in, got)
		}
	}
}

func TestNormalizeLongitudeIdempotent(t *testing.T) {
	for _, lng := range []float64{-720.25, -359, -180, -12.34, 0, 98.7, 180, 359, 1234.5} {
		once := NormalizeLongitude(lng)
		twice := NormalizeLongitude(once)
		if once != twice {
			t.Errorf("NormalizeLongitude not idempotent for %v: %v != %v", lng, once, twice)
		}
	}
}

func TestEquirectMapping(t *testing.T) {
	if x := EquirectX(-180, 2048); x != 0 {
		t.Errorf("EquirectX(-180) = %v, want 0", x)
	}
	if x := EquirectX(180, 2048); x != 2048 {
		t.Errorf("EquirectX(180) = %v, want 2048", x)
	}
	if y := EquirectY(90, 1024); y != 0 {
		t.Errorf("EquirectY(90) = %v, want 0", y)
	}
	if y := EquirectY(-90, 1024); y != 1024 {
		t.Errorf("EquirectY(-90) = %v, want 1024", y)
	}
	if y := EquirectY(0, 1024); y != 512 {
		t.Errorf("EquirectY(0) = %v, want 512", y)
	}
}
