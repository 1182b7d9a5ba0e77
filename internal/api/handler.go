// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package api is the REST surface of Photoglobe: health, photo library
// CRUD, and the globe pipeline endpoints (clusters, regions, overlay, LOD),
// routed with chi. Every response uses the APIResponse envelope; every
// request is parsed into a typed, validated request struct.
package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmaier-io/photoglobe/internal/config"
	"github.com/dmaier-io/photoglobe/internal/database"
	"github.com/dmaier-io/photoglobe/internal/events"
	"github.com/dmaier-io/photoglobe/internal/globe"
	"github.com/dmaier-io/photoglobe/internal/websocket"
)

// PhotoStore is the library surface the handlers need.
type PhotoStore interface {
	InsertPhotos(ctx context.Context, photos []database.NewPhoto) ([]uuid.UUID, error)
	ListPhotos(ctx context.Context, limit, offset int) ([]database.Photo, error)
	GetStats(ctx context.Context) (*database.Stats, error)
	Ping(ctx context.Context) error
}

// Publisher is the event bus surface the handlers need.
type Publisher interface {
	PublishLibraryUpdated(event events.LibraryUpdated) error
}

// Handler owns the endpoint implementations. All dependencies are injected;
// the handler carries no state of its own.
type Handler struct {
	db        PhotoStore
	globe     *globe.Service
	publisher Publisher
	hub       *websocket.Hub
	cfg       *config.Config
	startedAt time.Time
}

// NewHandler wires the endpoints.
func NewHandler(db PhotoStore, globeSvc *globe.Service, publisher Publisher, hub *websocket.Hub, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		globe:     globeSvc,
		publisher: publisher,
		hub:       hub,
		cfg:       cfg,
		startedAt: time.Now(),
	}
}
