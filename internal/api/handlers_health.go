// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package api

import (
	"context"
	"net/http"
	"time"
)

// healthStatus is the health endpoint payload.
type healthStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Database      string  `json:"database"`
	WSClients     int     `json:"ws_clients"`
}

// Health reports overall service health. Degrades to "degraded" rather than
// failing when the database is unreachable, so monitors can tell a dead
// process from a hurting one.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		Database:      "ok",
		WSClients:     h.hub.ClientCount(),
	}
	if err := h.db.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
	}

	respondData(w, status, Metadata{})
}

// HealthLive is the liveness probe: the process is up and serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, map[string]string{"status": "ok"}, Metadata{})
}

// HealthReady is the readiness probe: the database must answer.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Database not ready", err)
		return
	}
	respondData(w, map[string]string{"status": "ready"}, Metadata{})
}
