// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package overlay

import "math"

// Intensity blending weights. A region's tint combines its share of all
// located photos (saturating at shareSaturation) with a log-volume signal, so
// one huge region cannot wash out the map purely by volume while genuinely
// dense regions still read strongly.
const (
	shareSaturation = 0.12
	shareWeight     = 0.70
	volumeWeight    = 0.30

	fillAlphaMin   = 0.06
	fillAlphaMax   = 0.82
	strokeAlphaMin = 0.08
	strokeAlphaMax = 0.92
)

// Intensity maps a region's count to a [0,1] tint strength.
func Intensity(count, total, maxCount int) float64 {
	if count <= 0 || total <= 0 || maxCount <= 0 {
		return 0
	}

	share := float64(count) / float64(total)
	shareSignal := math.Min(share/shareSaturation, 1)
	volumeSignal := math.Log1p(float64(count)) / math.Log1p(float64(maxCount))

	return shareWeight*shareSignal + volumeWeight*volumeSignal
}

// FillAlpha maps intensity to the interior alpha. Sparse regions get a faint,
// near-invisible tint; dense regions approach opaque.
func FillAlpha(intensity float64) float64 {
	return fillAlphaMin + clamp01(intensity)*(fillAlphaMax-fillAlphaMin)
}

// StrokeAlpha maps intensity to the border alpha, slightly stronger than the
// fill so dense regions stay clearly bounded.
func StrokeAlpha(intensity float64) float64 {
	return strokeAlphaMin + clamp01(intensity)*(strokeAlphaMax-strokeAlphaMin)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
