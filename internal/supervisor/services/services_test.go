// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaier-io/photoglobe/internal/boundaries"
)

type fakeHTTPServer struct {
	listenErr   error
	shutdownErr error

	mu         sync.Mutex
	shutdowns  int
	listenDone chan struct{}
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{listenDone: make(chan struct{})}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.listenDone
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(_ context.Context) error {
	f.mu.Lock()
	f.shutdowns++
	f.mu.Unlock()
	close(f.listenDone)
	return f.shutdownErr
}

func (f *fakeHTTPServer) shutdownCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdowns
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	server := newFakeHTTPServer()
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the listen goroutine a moment to start, then stop the service.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop after context cancel")
	}
	assert.Equal(t, 1, server.shutdownCount())
}

func TestHTTPServiceListenFailure(t *testing.T) {
	server := newFakeHTTPServer()
	server.listenErr = errors.New("bind: address already in use")
	svc := NewHTTPService(server, time.Second)

	err := svc.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.Equal(t, 0, server.shutdownCount())
}

func TestHTTPServiceShutdownFailure(t *testing.T) {
	server := newFakeHTTPServer()
	server.shutdownErr = errors.New("connections still draining")
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Serve(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown failed")
}

type recordingRefresher struct {
	mu       sync.Mutex
	calls    []boundaries.Dataset
	failWith error
}

func (r *recordingRefresher) Refresh(_ context.Context, dataset boundaries.Dataset) error {
	r.mu.Lock()
	r.calls = append(r.calls, dataset)
	r.mu.Unlock()
	return r.failWith
}

func (r *recordingRefresher) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestBoundaryRefreshServiceRefreshesAllDatasetsOnStart(t *testing.T) {
	refresher := &recordingRefresher{}
	svc := NewBoundaryRefreshService(refresher, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	want := len(boundaries.AllDatasets)
	deadline := time.After(2 * time.Second)
	for refresher.callCount() < want {
		select {
		case <-deadline:
			t.Fatalf("expected %d refreshes, got %d", want, refresher.callCount())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	refresher.mu.Lock()
	defer refresher.mu.Unlock()
	assert.Equal(t, boundaries.AllDatasets, refresher.calls[:want])
}

func TestBoundaryRefreshServiceSurvivesFailures(t *testing.T) {
	refresher := &recordingRefresher{failWith: errors.New("upstream down")}
	svc := NewBoundaryRefreshService(refresher, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// At least two full rounds despite every refresh failing.
	want := 2 * len(boundaries.AllDatasets)
	deadline := time.After(2 * time.Second)
	for refresher.callCount() < want {
		select {
		case <-deadline:
			t.Fatalf("expected %d refreshes, got %d", want, refresher.callCount())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

type fakeRunner struct {
	err error
}

func (f *fakeRunner) Run(ctx context.Context) error {
	<-ctx.Done()
	if f.err != nil {
		return f.err
	}
	return ctx.Err()
}

func TestRunnerServiceDelegates(t *testing.T) {
	svc := NewRunnerService("websocket-hub", &fakeRunner{})
	assert.Equal(t, "websocket-hub", svc.String())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("runner service did not stop")
	}
}
