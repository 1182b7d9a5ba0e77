// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package main is the entry point for the Photoglobe server.
//
// Photoglobe renders a photo library on an interactive 3D globe: grid
// clustering at far zoom, per-region photo counts, and a pre-rendered
// choropleth overlay texture, all driven by a shared level-of-detail policy
// keyed on camera distance.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered load from defaults, config.yaml, and
//     PHOTOGLOBE_* environment variables (Koanf v2)
//  2. Database: DuckDB photo library storage
//  3. Boundaries: HTTP fetcher with circuit breaker, Badger-backed persisted
//     store, and stale-while-revalidate index cache
//  4. Globe service: clustering, region density, and overlay rendering with
//     a TTL result cache
//  5. Event bus: library.updated fan-out to cache invalidation and the
//     websocket hub
//  6. HTTP Server: REST API plus /ws and /metrics
//
// Everything long-running (HTTP server, websocket hub, boundary refresh
// loop) sits under a suture supervision tree, so a crashing refresh loop
// restarts without taking the API down.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests (10s timeout), closes
// websocket clients, and flushes the boundary store.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/dmaier-io/photoglobe/internal/api"
	"github.com/dmaier-io/photoglobe/internal/boundaries"
	"github.com/dmaier-io/photoglobe/internal/cache"
	"github.com/dmaier-io/photoglobe/internal/config"
	"github.com/dmaier-io/photoglobe/internal/database"
	"github.com/dmaier-io/photoglobe/internal/events"
	"github.com/dmaier-io/photoglobe/internal/globe"
	"github.com/dmaier-io/photoglobe/internal/lod"
	"github.com/dmaier-io/photoglobe/internal/logging"
	"github.com/dmaier-io/photoglobe/internal/supervisor"
	"github.com/dmaier-io/photoglobe/internal/supervisor/services"
	ws "github.com/dmaier-io/photoglobe/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("listen_addr", cfg.Server.ListenAddr()).
		Str("db_path", cfg.Database.Path).
		Str("boundary_store", cfg.Boundaries.StorePath).
		Msg("Starting Photoglobe")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	store, err := boundaries.OpenStore(cfg.Boundaries.StorePath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Boundaries.StorePath).Msg("Failed to open boundary store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing boundary store")
		}
	}()

	fetcher := boundaries.NewFetcher(&cfg.Boundaries)
	source := boundaries.NewSource(fetcher, store, &cfg.Cache)

	policy := lod.NewPolicy()
	evaluator := lod.NewEvaluator(policy, cfg.Globe.EvaluateInterval)
	results := cache.New(cfg.Cache.ResultTTL)
	globeSvc := globe.NewService(db, source, policy, evaluator, results, &cfg.Globe)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()

	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	// Library changes invalidate derived globe results and notify viewers.
	if err := bus.SubscribeLibraryUpdated(ctx, func(events.LibraryUpdated) {
		globeSvc.InvalidateDerived()
	}); err != nil {
		logging.Fatal().Err(err).Msg("Failed to subscribe cache invalidation")
	}
	if err := bus.SubscribeLibraryUpdated(ctx, hub.BroadcastLibraryUpdated); err != nil {
		logging.Fatal().Err(err).Msg("Failed to subscribe websocket broadcast")
	}

	handler := api.NewHandler(db, globeSvc, bus, hub, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeConfig)

	tree.AddDataService(services.NewBoundaryRefreshService(source, cfg.Boundaries.RefreshInterval))
	tree.AddAPIService(services.NewRunnerService("websocket-hub", hub))
	tree.AddAPIService(services.NewHTTPService(server, treeConfig.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Photoglobe listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
	}

	logging.Info().Msg("Photoglobe stopped")
}
