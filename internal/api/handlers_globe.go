// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmaier-io/photoglobe/internal/boundaries"
	"github.com/dmaier-io/photoglobe/internal/lod"
	"github.com/dmaier-io/photoglobe/internal/validation"
)

// Clusters serves the cluster set for the requested camera distance.
func (h *Handler) Clusters(w http.ResponseWriter, r *http.Request) {
	req := ClustersRequest{
		Distance: getFloatParam(r, "distance", 0),
		Limit:    getIntParam(r, "limit", 0),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	start := time.Now()
	result, cached, err := h.globe.Clusters(r.Context(), req.Distance, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build clusters", err)
		return
	}

	respondData(w, result, Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Cached:      cached,
	})
}

// Regions serves estimated per-region photo counts.
func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	req := RegionsRequest{
		Level:    r.URL.Query().Get("level"),
		Distance: getFloatParam(r, "distance", 0),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	start := time.Now()
	result, cached, err := h.globe.Regions(r.Context(), req.Level, req.Distance)
	if err != nil {
		h.respondGlobeError(w, err)
		return
	}

	respondData(w, result, Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Cached:      cached,
	})
}

// Overlay serves the rasterized overlay texture as a PNG, or 204 when the
// skip condition holds and the client should clear its overlay layer.
func (h *Handler) Overlay(w http.ResponseWriter, r *http.Request) {
	req := OverlayRequest{
		Level:    r.URL.Query().Get("level"),
		Distance: getFloatParam(r, "distance", 0),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	data, skipped, err := h.globe.Overlay(r.Context(), req.Level, req.Distance)
	if err != nil {
		h.respondGlobeError(w, err)
		return
	}
	if skipped {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// LOD feeds a camera distance observation through the evaluator and returns
// the resulting state. An optional mode parameter pins the region level.
func (h *Handler) LOD(w http.ResponseWriter, r *http.Request) {
	req := LODRequest{
		Distance: getFloatParam(r, "distance", 0),
		Mode:     r.URL.Query().Get("mode"),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	if req.Mode != "" {
		h.globe.SetRegionMode(lod.RegionMode(req.Mode))
	}

	respondData(w, h.globe.LOD(req.Distance), Metadata{})
}

// respondGlobeError maps pipeline errors onto status codes; an unavailable
// boundary dataset is a 503, everything else a 500.
func (h *Handler) respondGlobeError(w http.ResponseWriter, err error) {
	if errors.Is(err, boundaries.ErrUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "BOUNDARIES_UNAVAILABLE",
			"Boundary datasets are not available yet", err)
		return
	}
	respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Globe pipeline failure", err)
}
