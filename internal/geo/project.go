// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package geo

import "math"

// Vec3 is a point in the globe's Cartesian space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Length returns the Euclidean norm of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Project maps a geographic coordinate onto a sphere of the given radius.
//
// The mapping uses the standard polar/azimuthal convention for globe
// renderers: phi = (90 - lat) * pi/180, theta = (lng + 180) * pi/180, with the
// X axis negated so longitude 0 faces the default camera. The result always
// lies exactly on the sphere (|result| == radius up to float rounding).
func Project(lat, lng, radius float64) Vec3 {
	phi := (90 - lat) * math.Pi / 180
	theta := (lng + 180) * math.Pi / 180

	return Vec3{
		X: -radius * math.Sin(phi) * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * math.Sin(phi) * math.Sin(theta),
	}
}

// NormalizeLongitude wraps a longitude into [-180, 180].
//
// Idempotent: applying it to an already-normalized value returns the value
// unchanged, which bucketing and point-in-polygon code rely on.
func NormalizeLongitude(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}

// EquirectX maps a longitude to a horizontal pixel position on an
// equirectangular raster of the given width.
func EquirectX(lng float64, width int) float64 {
	return (lng + 180) / 360 * float64(width)
}

// EquirectY maps a latitude to a vertical pixel position on an
// equirectangular raster of the given height. Row 0 is the north pole.
func EquirectY(lat float64, height int) float64 {
	return (90 - lat) / 180 * float64(height)
}
