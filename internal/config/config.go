// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package config defines the Photoglobe runtime configuration and loads it
// from layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Photoglobe server.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Boundaries BoundariesConfig `koanf:"boundaries"`
	Globe      GlobeConfig      `koanf:"globe"`
	Cache      CacheConfig      `koanf:"cache"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"` // per-request read/write timeout
}

// DatabaseConfig controls the embedded DuckDB photo library.
type DatabaseConfig struct {
	Path      string `koanf:"path"`       // DuckDB file path (":memory:" for ephemeral)
	MaxMemory string `koanf:"max_memory"` // DuckDB memory limit, e.g. "2GB"
	Threads   int    `koanf:"threads"`    // 0 = DuckDB default
}

// BoundariesConfig controls where region boundary datasets come from and
// where fetched copies persist.
type BoundariesConfig struct {
	CoarseURL       string        `koanf:"coarse_url"`       // low-resolution country polygons
	FineURL         string        `koanf:"fine_url"`         // high-resolution country polygons
	Admin1URL       string        `koanf:"admin1_url"`       // state/province polygons
	StorePath       string        `koanf:"store_path"`       // Badger directory for fetched datasets
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`    // per-fetch HTTP timeout
	RefreshInterval time.Duration `koanf:"refresh_interval"` // how often the background service re-checks upstreams
}

// GlobeConfig tunes the visualization pipeline.
type GlobeConfig struct {
	MaxPhotos        int           `koanf:"max_photos"`        // cap on photos considered per clustering pass
	SampleCap        int           `koanf:"sample_cap"`        // density attribution sample size
	OverlayWidth     int           `koanf:"overlay_width"`     // overlay texture width in pixels
	OverlayHeight    int           `koanf:"overlay_height"`    // overlay texture height in pixels
	EvaluateInterval time.Duration `koanf:"evaluate_interval"` // minimum spacing between LOD evaluations
}

// CacheConfig sets the freshness windows for derived and upstream data.
type CacheConfig struct {
	ResultTTL        time.Duration `koanf:"result_ttl"`         // TTL for derived globe results (clusters, overlays)
	BoundaryFreshFor time.Duration `koanf:"boundary_fresh_for"` // boundary datasets served without revalidation
	BoundaryStaleFor time.Duration `koanf:"boundary_stale_for"` // additional window where stale datasets are served while revalidating
}

// SecurityConfig controls CORS and rate limiting on the API surface.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"` // include file:line in log events
}

// Validate checks the configuration for values that cannot possibly work.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Globe.MaxPhotos <= 0 {
		return fmt.Errorf("globe.max_photos must be positive, got %d", c.Globe.MaxPhotos)
	}
	if c.Globe.SampleCap <= 0 {
		return fmt.Errorf("globe.sample_cap must be positive, got %d", c.Globe.SampleCap)
	}
	if c.Globe.OverlayWidth <= 0 || c.Globe.OverlayHeight <= 0 {
		return fmt.Errorf("globe overlay dimensions must be positive, got %dx%d",
			c.Globe.OverlayWidth, c.Globe.OverlayHeight)
	}
	if c.Globe.OverlayWidth != 2*c.Globe.OverlayHeight {
		return fmt.Errorf("globe overlay must be equirectangular (width = 2*height), got %dx%d",
			c.Globe.OverlayWidth, c.Globe.OverlayHeight)
	}
	if c.Globe.EvaluateInterval <= 0 {
		return fmt.Errorf("globe.evaluate_interval must be positive, got %s", c.Globe.EvaluateInterval)
	}
	if c.Cache.ResultTTL <= 0 {
		return fmt.Errorf("cache.result_ttl must be positive, got %s", c.Cache.ResultTTL)
	}
	if c.Cache.BoundaryFreshFor <= 0 || c.Cache.BoundaryStaleFor < 0 {
		return fmt.Errorf("cache boundary windows must be positive, got fresh=%s stale=%s",
			c.Cache.BoundaryFreshFor, c.Cache.BoundaryStaleFor)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("security.rate_limit_reqs must be positive when rate limiting is enabled, got %d",
				c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("logging.level must be one of trace/debug/info/warn/error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console", "":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// ListenAddr returns the host:port string for the HTTP listener.
func (c *ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
