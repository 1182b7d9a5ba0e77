// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"sort"

	"github.com/dmaier-io/photoglobe/internal/geo"
	"github.com/dmaier-io/photoglobe/internal/region"
)

// Default texture dimensions (2:1 equirectangular).
const (
	DefaultWidth  = 2048
	DefaultHeight = 1024
)

// Overlay hue. Fill and stroke share a warm tone; only alpha varies with
// density.
var (
	fillColor   = color.NRGBA{R: 255, G: 171, B: 64}
	strokeColor = color.NRGBA{R: 255, G: 203, B: 120}
)

// Params controls one render pass. The zero value selects defaults.
type Params struct {
	Width  int
	Height int
}

// Render paints region density onto a transparent equirectangular texture.
//
// Returns nil when there is nothing worth painting: total or max count
// non-positive, or no region with a nonzero count. Callers treat nil as
// "skip the overlay layer", not as an error, so an empty library never costs
// a full-size blank texture.
//
// Rings are projected with the standard equirectangular mapping and split
// into separate sub-paths wherever adjacent vertices jump more than 180
// degrees in longitude; without the split, an anti-meridian crossing would
// drag a fill band across the whole texture width.
func Render(idx *region.Index, d region.Density, p Params) *image.NRGBA {
	if idx == nil || d.Total <= 0 || d.MaxCount <= 0 {
		return nil
	}

	any := false
	for _, n := range d.Counts {
		if n > 0 {
			any = true
			break
		}
	}
	if !any {
		return nil
	}

	if p.Width <= 0 {
		p.Width = DefaultWidth
	}
	if p.Height <= 0 {
		p.Height = DefaultHeight
	}

	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))

	for fi := range idx.Features {
		f := &idx.Features[fi]
		count := d.Counts[f.Key]
		if count <= 0 {
			continue
		}

		intensity := Intensity(count, d.Total, d.MaxCount)
		fill := withAlpha(fillColor, FillAlpha(intensity))
		stroke := withAlpha(strokeColor, StrokeAlpha(intensity))

		for _, ring := range f.Rings {
			for _, path := range projectRing(ring, p.Width, p.Height) {
				fillPath(img, path, fill)
				strokePath(img, path, stroke)
			}
		}
	}

	return img
}

// EncodePNG serializes a rendered texture for HTTP delivery.
func EncodePNG(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// withAlpha returns the color with its alpha channel set from a [0,1] value.
func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(clamp01(alpha) * 255))
	return c
}

// point is a projected vertex in texture pixel space.
type point struct {
	x, y float64
}

// projectRing maps ring vertices into pixel space, splitting into sub-paths
// at anti-meridian crossings. Sub-paths with fewer than 3 vertices are
// dropped; they cannot enclose area and would only smear stray strokes.
func projectRing(ring region.Ring, width, height int) [][]point {
	var paths [][]point
	var current []point
	prevLng := math.NaN()

	for _, v := range ring {
		lng := geo.NormalizeLongitude(v[0])
		lat := v[1]

		if !math.IsNaN(prevLng) && math.Abs(lng-prevLng) > 180 {
			if len(current) >= 3 {
				paths = append(paths, current)
			}
			current = nil
		}
		prevLng = lng

		current = append(current, point{
			x: geo.EquirectX(lng, width),
			y: geo.EquirectY(lat, height),
		})
	}

	if len(current) >= 3 {
		paths = append(paths, current)
	}
	return paths
}

// fillPath rasterizes a polygon with even-odd scanline filling, matching the
// ray-casting containment rule used for attribution.
func fillPath(img *image.NRGBA, path []point, c color.NRGBA) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range path {
		minY = math.Min(minY, p.y)
		maxY = math.Max(maxY, p.y)
	}

	bounds := img.Bounds()
	y0 := int(math.Max(math.Floor(minY), float64(bounds.Min.Y)))
	y1 := int(math.Min(math.Ceil(maxY), float64(bounds.Max.Y-1)))

	xs := make([]float64, 0, 8)
	for y := y0; y <= y1; y++ {
		scan := float64(y) + 0.5
		xs = xs[:0]

		for i, j := 0, len(path)-1; i < len(path); j, i = i, i+1 {
			a, b := path[i], path[j]
			if (a.y > scan) == (b.y > scan) {
				continue
			}
			x := a.x + (scan-a.y)/(b.y-a.y)*(b.x-a.x)
			xs = append(xs, x)
		}
		sort.Float64s(xs)

		for k := 0; k+1 < len(xs); k += 2 {
			x0 := int(math.Ceil(xs[k] - 0.5))
			x1 := int(math.Floor(xs[k+1] - 0.5))
			for x := x0; x <= x1; x++ {
				if x < bounds.Min.X || x >= bounds.Max.X {
					continue
				}
				blend(img, x, y, c)
			}
		}
	}
}

// strokePath draws the polygon outline with a 1-pixel DDA walk.
func strokePath(img *image.NRGBA, path []point, c color.NRGBA) {
	for i, j := 0, len(path)-1; i < len(path); j, i = i, i+1 {
		drawLine(img, path[j], path[i], c)
	}
}

func drawLine(img *image.NRGBA, a, b point, c color.NRGBA) {
	dx := b.x - a.x
	dy := b.y - a.y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		plot(img, int(a.x), int(a.y), c)
		return
	}

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		plot(img, int(a.x+dx*t), int(a.y+dy*t), c)
	}
}

func plot(img *image.NRGBA, x, y int, c color.NRGBA) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	blend(img, x, y, c)
}

// blend composites c over the existing pixel (source-over, non-premultiplied
// input). Region overlaps accumulate rather than overwrite.
func blend(img *image.NRGBA, x, y int, c color.NRGBA) {
	dst := img.NRGBAAt(x, y)

	sa := float64(c.A) / 255
	da := float64(dst.A) / 255
	outA := sa + da*(1-sa)
	if outA == 0 {
		img.Set(x, y, color.NRGBA{})
		return
	}

	mix := func(s, d uint8) uint8 {
		v := (float64(s)*sa + float64(d)*da*(1-sa)) / outA
		return uint8(math.Round(v))
	}

	img.Set(x, y, color.NRGBA{
		R: mix(c.R, dst.R),
		G: mix(c.G, dst.G),
		B: mix(c.B, dst.B),
		A: uint8(math.Round(outA * 255)),
	})
}
