// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmaier-io/photoglobe/internal/config"
)

// NewRouter assembles the full HTTP surface.
func NewRouter(handler *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(requestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(&cfg.Security))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", handler.Health)
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(&cfg.Security))
		r.Use(prometheusMetrics)

		r.Post("/photos/import", handler.ImportPhotos)
		r.Get("/photos", handler.ListPhotos)
		r.Get("/photos/stats", handler.PhotoStats)

		r.Get("/globe/clusters", handler.Clusters)
		r.Get("/globe/regions", handler.Regions)
		r.Get("/globe/overlay.png", handler.Overlay)
		r.Get("/globe/lod", handler.LOD)

		r.Get("/ws", handler.WebSocket)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
