// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaier-io/photoglobe/internal/events"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("hub did not stop")
		}
	})
	return hub, cancel
}

// testClient registers a bare client without a real connection; only the
// send channel matters for hub behavior.
func testClient(hub *Hub) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		send: make(chan Message, 256),
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub, _ := startHub(t)

	c := testClient(hub)
	hub.Register <- c
	waitForClients(t, hub, 1)

	hub.Unregister <- c
	waitForClients(t, hub, 0)

	// The hub closed the send channel on unregister.
	_, open := <-c.send
	assert.False(t, open)
}

func TestHubBroadcastLibraryUpdated(t *testing.T) {
	hub, _ := startHub(t)

	a := testClient(hub)
	b := testClient(hub)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.BroadcastLibraryUpdated(events.LibraryUpdated{PhotosAdded: 7})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			assert.Equal(t, MessageTypeLibraryUpdated, msg.Type)
			event, ok := msg.Data.(events.LibraryUpdated)
			require.True(t, ok)
			assert.Equal(t, 7, event.PhotosAdded)
		case <-time.After(time.Second):
			t.Fatal("broadcast never arrived")
		}
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, _ := startHub(t)

	slow := testClient(hub)
	slow.send = make(chan Message) // unbuffered, nothing draining it
	hub.Register <- slow
	waitForClients(t, hub, 1)

	hub.BroadcastLibraryUpdated(events.LibraryUpdated{PhotosAdded: 1})
	waitForClients(t, hub, 0)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, cancel := startHub(t)

	c := testClient(hub)
	hub.Register <- c
	waitForClients(t, hub, 1)

	cancel()

	select {
	case _, open := <-c.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client send channel never closed on shutdown")
	}
	assert.Equal(t, 0, hub.ClientCount())
}
