// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package api

import (
	"net/http"
	"strconv"
	"time"
)

// Typed request structs per endpoint. Query parsing fills them, the
// validator enforces them, and handlers only ever see validated values.

// ClustersRequest backs GET /api/v1/globe/clusters.
type ClustersRequest struct {
	Distance float64 `validate:"gt=0"`
	Limit    int     `validate:"min=0,max=50000"`
}

// RegionsRequest backs GET /api/v1/globe/regions.
type RegionsRequest struct {
	Level    string  `validate:"region_level"`
	Distance float64 `validate:"gt=0"`
}

// OverlayRequest backs GET /api/v1/globe/overlay.png.
type OverlayRequest struct {
	Level    string  `validate:"region_level"`
	Distance float64 `validate:"gt=0"`
}

// LODRequest backs GET /api/v1/globe/lod.
type LODRequest struct {
	Distance float64 `validate:"gt=0"`
	Mode     string  `validate:"region_level"`
}

// ListPhotosRequest backs GET /api/v1/photos.
type ListPhotosRequest struct {
	Limit  int `validate:"min=1,max=1000"`
	Offset int `validate:"min=0,max=10000000"`
}

// ImportPhoto is one element of an import request body.
type ImportPhoto struct {
	Title     string   `json:"title" validate:"required,max=512"`
	TakenAt   *string  `json:"taken_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// ImportRequest backs POST /api/v1/photos/import.
type ImportRequest struct {
	Photos []ImportPhoto `json:"photos" validate:"required,min=1,max=10000,dive"`
}

// ParsedTakenAt returns the parsed timestamp, nil when absent. Call only
// after validation.
func (p *ImportPhoto) ParsedTakenAt() *time.Time {
	if p.TakenAt == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *p.TakenAt)
	if err != nil {
		return nil
	}
	return &t
}

// getFloatParam reads a float query parameter with a default.
func getFloatParam(r *http.Request, name string, def float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// getIntParam reads an int query parameter with a default.
func getIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
