// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaier-io/photoglobe/internal/boundaries"
	"github.com/dmaier-io/photoglobe/internal/cache"
	"github.com/dmaier-io/photoglobe/internal/config"
	"github.com/dmaier-io/photoglobe/internal/database"
	"github.com/dmaier-io/photoglobe/internal/events"
	"github.com/dmaier-io/photoglobe/internal/globe"
	"github.com/dmaier-io/photoglobe/internal/lod"
	"github.com/dmaier-io/photoglobe/internal/region"
	"github.com/dmaier-io/photoglobe/internal/websocket"
)

type stubBoundaries struct {
	idx map[boundaries.Dataset]*region.Index
	err error
}

func (s *stubBoundaries) Index(ctx context.Context, dataset boundaries.Dataset) (*region.Index, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.idx[dataset], nil
}

func countryIndex(t *testing.T, level region.Level) *region.Index {
	t.Helper()
	raw := `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type":"Feature","properties":{"ISO_A3":"TST","NAME":"Testland"},
	     "geometry":{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}}
	  ]
	}`
	fc, err := geojson.UnmarshalFeatureCollection([]byte(raw))
	require.NoError(t, err)
	idx := region.BuildIndex(fc, level)
	require.NotNil(t, idx)
	return idx
}

type testEnv struct {
	server *httptest.Server
	db     *database.DB
}

func newTestEnv(t *testing.T, bounds globe.BoundarySource) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Globe: config.GlobeConfig{
			MaxPhotos:     5000,
			SampleCap:     6000,
			OverlayWidth:  256,
			OverlayHeight: 128,
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	if bounds == nil {
		bounds = &stubBoundaries{idx: map[boundaries.Dataset]*region.Index{
			boundaries.DatasetCountriesCoarse: countryIndex(t, region.LevelCountry),
			boundaries.DatasetCountriesFine:   countryIndex(t, region.LevelCountry),
			boundaries.DatasetAdmin1:          countryIndex(t, region.LevelAdmin1),
		}}
	}

	policy := lod.NewPolicy()
	results := cache.New(time.Minute)
	globeSvc := globe.NewService(db, bounds, policy, lod.NewEvaluator(policy, time.Nanosecond), results, &cfg.Globe)

	bus := events.NewBus()
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, bus.SubscribeLibraryUpdated(ctx, func(events.LibraryUpdated) {
		globeSvc.InvalidateDerived()
	}))

	hub := websocket.NewHub()
	go func() { _ = hub.Run(ctx) }()

	handler := NewHandler(db, globeSvc, bus, hub, cfg)
	server := httptest.NewServer(NewRouter(handler, cfg))
	t.Cleanup(server.Close)

	return &testEnv{server: server, db: db}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, APIResponse) {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope APIResponse
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	}
	return resp, envelope
}

func (e *testEnv) post(t *testing.T, path string, body interface{}) (*http.Response, APIResponse) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var envelope APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func importBody(photos ...ImportPhoto) ImportRequest {
	return ImportRequest{Photos: photos}
}

func fptr(v float64) *float64 { return &v }

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, envelope := env.get(t, "/api/v1/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", envelope.Status)

	resp, _ = env.get(t, "/api/v1/health/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.get(t, "/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestImportAndListPhotos(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, envelope := env.post(t, "/api/v1/photos/import", importBody(
		ImportPhoto{Title: "Paris", Latitude: fptr(48.86), Longitude: fptr(2.35)},
		ImportPhoto{Title: "No GPS"},
	))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", envelope.Status)

	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["imported"])

	resp, envelope = env.get(t, "/api/v1/photos?limit=10")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	photos := envelope.Data.([]interface{})
	assert.Len(t, photos, 2)

	resp, envelope = env.get(t, "/api/v1/photos/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := envelope.Data.(map[string]interface{})
	assert.Equal(t, float64(2), stats["total"])
	assert.Equal(t, float64(1), stats["located"])
	assert.Equal(t, float64(1), stats["unlocated"])
}

func TestImportValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	// Missing title.
	resp, envelope := env.post(t, "/api/v1/photos/import", importBody(ImportPhoto{}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)

	// Latitude without longitude.
	resp, envelope = env.post(t, "/api/v1/photos/import", importBody(
		ImportPhoto{Title: "half", Latitude: fptr(10)},
	))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, envelope.Error)

	// Out-of-range coordinate.
	resp, _ = env.post(t, "/api/v1/photos/import", importBody(
		ImportPhoto{Title: "bad", Latitude: fptr(95), Longitude: fptr(0)},
	))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Empty batch.
	resp, _ = env.post(t, "/api/v1/photos/import", importBody())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClustersEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _ = env.post(t, "/api/v1/photos/import", importBody(
		ImportPhoto{Title: "a", Latitude: fptr(5), Longitude: fptr(5)},
		ImportPhoto{Title: "b", Latitude: fptr(5.01), Longitude: fptr(5.01)},
		ImportPhoto{Title: "c"},
	))

	resp, envelope := env.get(t, "/api/v1/globe/clusters?distance=450")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", envelope.Status)

	result := envelope.Data.(map[string]interface{})
	clusters := result["clusters"].([]interface{})
	require.Len(t, clusters, 1)
	first := clusters[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["count"])
	assert.Equal(t, float64(1), result["unlocated"])
	assert.Equal(t, float64(10), result["cell_size"])

	// Missing distance fails validation.
	resp, envelope = env.get(t, "/api/v1/globe/clusters")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestRegionsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _ = env.post(t, "/api/v1/photos/import", importBody(
		ImportPhoto{Title: "in", Latitude: fptr(5), Longitude: fptr(5)},
		ImportPhoto{Title: "out", Latitude: fptr(45), Longitude: fptr(45)},
	))

	resp, envelope := env.get(t, "/api/v1/globe/regions?level=country&distance=300")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := envelope.Data.(map[string]interface{})
	assert.Equal(t, "country", result["level"])
	counts := result["counts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["TST"])

	// Bad level rejected.
	resp, envelope = env.get(t, "/api/v1/globe/regions?level=continent&distance=300")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, envelope.Error)
}

func TestRegionsUnavailableBoundaries(t *testing.T) {
	env := newTestEnv(t, &stubBoundaries{err: boundaries.ErrUnavailable})

	resp, envelope := env.get(t, "/api/v1/globe/regions?level=country&distance=300")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "BOUNDARIES_UNAVAILABLE", envelope.Error.Code)
}

func TestOverlayEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	// Empty library: skip condition, 204.
	resp, err := http.Get(env.server.URL + "/api/v1/globe/overlay.png?level=country&distance=300")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, _ = env.post(t, "/api/v1/photos/import", importBody(
		ImportPhoto{Title: "in", Latitude: fptr(5), Longitude: fptr(5)},
	))

	resp, err = http.Get(env.server.URL + "/api/v1/globe/overlay.png?level=country&distance=300")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestLODEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, envelope := env.get(t, "/api/v1/globe/lod?distance=450")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	state := envelope.Data.(map[string]interface{})
	assert.Equal(t, "coarse", state["resolution"])
	assert.Equal(t, "country", state["region_level"])
	assert.Equal(t, float64(10), state["cell_size"])

	// Pinning admin1 holds at any distance.
	_, envelope = env.get(t, "/api/v1/globe/lod?distance=450&mode=admin1")
	state = envelope.Data.(map[string]interface{})
	assert.Equal(t, "admin1", state["region_level"])
}

func TestLibraryUpdateInvalidatesClusters(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _ = env.post(t, "/api/v1/photos/import", importBody(
		ImportPhoto{Title: "a", Latitude: fptr(5), Longitude: fptr(5)},
	))

	_, envelope := env.get(t, "/api/v1/globe/clusters?distance=450")
	result := envelope.Data.(map[string]interface{})
	require.Len(t, result["clusters"].([]interface{}), 1)

	_, _ = env.post(t, "/api/v1/photos/import", importBody(
		ImportPhoto{Title: "b", Latitude: fptr(5), Longitude: fptr(5)},
	))

	// Invalidation is asynchronous; poll until the new photo shows up.
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, envelope = env.get(t, "/api/v1/globe/clusters?distance=450")
		result = envelope.Data.(map[string]interface{})
		clusters := result["clusters"].([]interface{})
		if len(clusters) == 1 {
			if clusters[0].(map[string]interface{})["count"].(float64) == 2 {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("cluster cache never invalidated after import")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.get(t, "/api/v1/health/live")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
