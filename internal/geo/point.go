// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package geo

// Point is a geographic coordinate. Longitude is stored as given; code that
// compares longitudes must normalize first.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
