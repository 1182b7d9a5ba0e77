// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package boundaries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/dmaier-io/photoglobe/internal/config"
	"github.com/dmaier-io/photoglobe/internal/logging"
	"github.com/dmaier-io/photoglobe/internal/metrics"
)

// maxDatasetBytes bounds one GeoJSON download. The fine-resolution country
// set is ~24MB; anything past this is a broken upstream.
const maxDatasetBytes = 256 << 20

// Fetcher downloads boundary datasets over HTTP. A shared circuit breaker
// keeps a dead upstream from stalling every region request; fetches fail
// fast while the breaker is open. There are no retries: the caller serves
// its persisted copy and tries again on the next refresh.
type Fetcher struct {
	cfg    *config.BoundariesConfig
	client *http.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
}

// NewFetcher builds a fetcher with a circuit breaker that opens after 60%
// failures over at least 5 requests and probes again after 2 minutes.
func NewFetcher(cfg *config.BoundariesConfig) *Fetcher {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "boundary-upstream",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Boundary fetch circuit breaker state change")
		},
	})

	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.FetchTimeout},
		cb:     cb,
	}
}

// url returns the configured upstream for a dataset.
func (f *Fetcher) url(dataset Dataset) string {
	switch dataset {
	case DatasetCountriesCoarse:
		return f.cfg.CoarseURL
	case DatasetCountriesFine:
		return f.cfg.FineURL
	case DatasetAdmin1:
		return f.cfg.Admin1URL
	}
	return ""
}

// Fetch downloads one dataset's GeoJSON bytes.
func (f *Fetcher) Fetch(ctx context.Context, dataset Dataset) ([]byte, error) {
	start := time.Now()

	data, err := f.cb.Execute(func() ([]byte, error) {
		return f.fetch(ctx, dataset)
	})

	metrics.BoundaryFetchDuration.WithLabelValues(string(dataset)).Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		metrics.BoundaryFetches.WithLabelValues(string(dataset), "ok").Inc()
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.BoundaryFetches.WithLabelValues(string(dataset), "breaker_open").Inc()
	default:
		metrics.BoundaryFetches.WithLabelValues(string(dataset), "error").Inc()
	}
	return data, err
}

func (f *Fetcher) fetch(ctx context.Context, dataset Dataset) ([]byte, error) {
	url := f.url(dataset)
	if url == "" {
		return nil, fmt.Errorf("no upstream configured for dataset %q", dataset)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", dataset, err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", dataset, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: upstream returned %d", dataset, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", dataset, err)
	}
	if len(data) > maxDatasetBytes {
		return nil, fmt.Errorf("fetch %s: response exceeds %d bytes", dataset, maxDatasetBytes)
	}

	logging.Debug().
		Str("dataset", string(dataset)).
		Int("bytes", len(data)).
		Msg("Fetched boundary dataset")
	return data, nil
}
