// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/dmaier-io/photoglobe/internal/database"
	"github.com/dmaier-io/photoglobe/internal/events"
	"github.com/dmaier-io/photoglobe/internal/logging"
	"github.com/dmaier-io/photoglobe/internal/validation"
)

// ImportPhotos ingests a batch of photos and announces the library change.
func (h *Handler) ImportPhotos(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed JSON body", err)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	// Coordinates are a pair: one without the other is metadata corruption,
	// not a partially-located photo.
	for i, p := range req.Photos {
		if (p.Latitude == nil) != (p.Longitude == nil) {
			respondJSON(w, http.StatusBadRequest, &APIResponse{
				Status:   "error",
				Metadata: Metadata{Timestamp: time.Now()},
				Error: &APIError{
					Code:    "VALIDATION_ERROR",
					Message: "latitude and longitude must be provided together",
					Details: map[string]interface{}{"index": i},
				},
			})
			return
		}
	}

	batch := make([]database.NewPhoto, len(req.Photos))
	for i, p := range req.Photos {
		batch[i] = database.NewPhoto{
			Title:     p.Title,
			TakenAt:   p.ParsedTakenAt(),
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		}
	}

	start := time.Now()
	ids, err := h.db.InsertPhotos(r.Context(), batch)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to import photos", err)
		return
	}

	if err := h.publisher.PublishLibraryUpdated(events.LibraryUpdated{PhotosAdded: len(ids)}); err != nil {
		// The import succeeded; stale caches self-heal on TTL expiry.
		logging.Warn().Err(err).Msg("Failed to publish library update")
	}

	respondData(w, map[string]interface{}{
		"imported": len(ids),
		"ids":      ids,
	}, Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// ListPhotos returns one page of the library.
func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	req := ListPhotosRequest{
		Limit:  getIntParam(r, "limit", 100),
		Offset: getIntParam(r, "offset", 0),
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	start := time.Now()
	photos, err := h.db.ListPhotos(r.Context(), req.Limit, req.Offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list photos", err)
		return
	}
	if photos == nil {
		photos = []database.Photo{}
	}

	respondData(w, photos, Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// PhotoStats returns library totals.
func (h *Handler) PhotoStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := h.db.GetStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute stats", err)
		return
	}
	respondData(w, stats, Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}
