// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package cluster

import (
	"fmt"
	"math"
	"reflect"
	"testing"
)

func located(id string, lat, lng float64) Photo {
	return Photo{ID: id, Lat: lat, Lng: lng, Located: true}
}

func TestBuildConservation(t *testing.T) {
	photos := []Photo{
		located("a", 40.1, -74.0),
		located("b", 40.1, -74.0),
		located("c", 51.5, -0.1),
		{ID: "d"}, // no GPS
		{ID: "e", Lat: math.NaN(), Lng: 10, Located: true},
		{ID: "f", Lat: 10, Lng: math.Inf(1), Located: true},
	}

	res := Build(photos, 1.0, Options{})

	clustered := 0
	for _, c := range res.Clusters {
		clustered += c.Count
	}
	if clustered+res.Unlocated != len(photos) {
		t.Errorf("conservation violated: clustered=%d unlocated=%d total=%d",
			clustered, res.Unlocated, len(photos))
	}
	if res.Unlocated != 3 {
		t.Errorf("unlocated = %d, want 3", res.Unlocated)
	}
}

func TestBuildDeterministic(t *testing.T) {
	photos := make([]Photo, 0, 200)
	for i := 0; i < 200; i++ {
		photos = append(photos, located(
			fmt.Sprintf("p%d", i),
			float64(i%37)*0.73-10,
			float64(i%53)*1.91-100,
		))
	}

	a := Build(photos, 2.5, Options{})
	b := Build(photos, 2.5, Options{})
	if !reflect.DeepEqual(a, b) {
		t.Error("identical input produced different clustering")
	}
}

func TestBuildSortedByCountDescending(t *testing.T) {
	photos := []Photo{
		located("a", 0, 0),
		located("b", 50, 50),
		located("c", 50, 50),
		located("d", 50, 50),
		located("e", -30, 120),
		located("f", -30, 120),
	}

	res := Build(photos, 1.0, Options{})
	if len(res.Clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(res.Clusters))
	}
	for i := 1; i < len(res.Clusters); i++ {
		if res.Clusters[i].Count > res.Clusters[i-1].Count {
			t.Errorf("clusters not sorted by count: %d before %d",
				res.Clusters[i-1].Count, res.Clusters[i].Count)
		}
	}
	if res.Clusters[0].Count != 3 {
		t.Errorf("densest cluster count = %d, want 3", res.Clusters[0].Count)
	}
}

func TestBuildWorkingSetCap(t *testing.T) {
	photos := make([]Photo, 0, 30)
	for i := 0; i < 30; i++ {
		photos = append(photos, located(fmt.Sprintf("p%d", i), 10, 10))
	}

	res := Build(photos, 1.0, Options{MaxPhotos: 10})
	if res.Considered != 10 {
		t.Errorf("considered = %d, want 10", res.Considered)
	}
	if len(res.Clusters) != 1 || res.Clusters[0].Count != 10 {
		t.Errorf("expected one cluster of 10, got %+v", res.Clusters)
	}
}

func TestBuildQuantization(t *testing.T) {
	// 40.4 and 39.6 both round to cell 40 at 1 degree; 40.6 rounds to 41.
	photos := []Photo{
		located("a", 40.4, -74.0),
		located("b", 39.6, -74.0),
		located("c", 40.6, -74.0),
	}

	res := Build(photos, 1.0, Options{})
	if len(res.Clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(res.Clusters))
	}
	if res.Clusters[0].Count != 2 || res.Clusters[0].CellLat != 40 {
		t.Errorf("unexpected dominant cluster: %+v", res.Clusters[0])
	}
}

func TestBuildNormalizesLongitude(t *testing.T) {
	// 190 east wraps to -170; both photos share a cell.
	photos := []Photo{
		located("a", 10, 190),
		located("b", 10, -170),
	}

	res := Build(photos, 1.0, Options{})
	if len(res.Clusters) != 1 {
		t.Fatalf("wrapped longitudes split cells: %+v", res.Clusters)
	}
	if res.Clusters[0].CellLng != -170 {
		t.Errorf("cell lng = %v, want -170", res.Clusters[0].CellLng)
	}
}

func TestBuildProjectsPositions(t *testing.T) {
	res := Build([]Photo{located("a", 48.85, 2.35)}, 1.0, Options{Radius: 100})
	if len(res.Clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(res.Clusters))
	}
	p := res.Clusters[0].Position
	r := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	if math.Abs(r-100) > 1e-9 {
		t.Errorf("projected position off sphere: |p| = %v", r)
	}
}

// End-to-end scenario: 60 located photos spread over distinct 1-degree cells
// near (40, -74), 10 per cell, plus 40 without GPS.
func TestBuildLibraryScenario(t *testing.T) {
	photos := make([]Photo, 0, 100)
	for cell := 0; cell < 6; cell++ {
		for i := 0; i < 10; i++ {
			photos = append(photos, located(
				fmt.Sprintf("g%d-%d", cell, i),
				40.0+float64(cell),
				-74.0,
			))
		}
	}
	for i := 0; i < 40; i++ {
		photos = append(photos, Photo{ID: fmt.Sprintf("u%d", i)})
	}

	res := Build(photos, 1.0, Options{})

	if len(res.Clusters) != 6 {
		t.Errorf("cluster count = %d, want 6", len(res.Clusters))
	}
	clustered := 0
	for _, c := range res.Clusters {
		if c.Count != 10 {
			t.Errorf("cluster %v/%v count = %d, want 10", c.CellLat, c.CellLng, c.Count)
		}
		clustered += c.Count
	}
	if clustered != 60 {
		t.Errorf("clustered = %d, want 60", clustered)
	}
	if res.Unlocated != 40 {
		t.Errorf("unlocated = %d, want 40", res.Unlocated)
	}
}
