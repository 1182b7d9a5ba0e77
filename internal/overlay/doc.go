// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package overlay rasterizes per-region photo density onto an
// equirectangular RGBA texture for sphere-mapped display. The texture is
// rendered server-side and delivered as PNG; the globe client maps it onto a
// sphere slightly larger than the base globe.
package overlay
