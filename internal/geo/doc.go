// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package geo provides pure coordinate math shared by the globe pipeline:
// spherical projection for 3D marker placement, longitude normalization, and
// the equirectangular mapping used by the overlay rasterizer.
//
// All functions are deterministic and side-effect free. Non-finite inputs are
// the caller's responsibility; this package performs no validation so it can
// sit in tight per-point loops.
package geo
