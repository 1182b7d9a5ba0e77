// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package region turns raw boundary GeoJSON into a queryable spatial
// structure and attributes photo locations to regions.
//
// The structure is deliberately approximate where the globe view can afford
// it:
//
//   - Only outer rings are kept; holes are dropped. A photo inside a hole
//     (e.g. Lesotho within South Africa) is attributed to the enclosing
//     region, which is acceptable for a density tint.
//   - The uniform grid is a broad-phase filter over feature bounding boxes;
//     exact ray-casting containment is always re-checked per point.
//   - Ray casting compares normalized longitudes per edge and skips edges
//     spanning more than 180 degrees, so regions straddling the anti-meridian
//     (Fiji, Russia) can misclassify points near the seam.
package region
