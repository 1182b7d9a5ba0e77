// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

// Package events is the in-process event bus. Library mutations publish a
// LibraryUpdated event; cache invalidation and the websocket hub subscribe
// to it so derived globe structures never outlive the data they were built
// from.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dmaier-io/photoglobe/internal/logging"
	"github.com/dmaier-io/photoglobe/internal/metrics"
)

// TopicLibraryUpdated carries LibraryUpdated events.
const TopicLibraryUpdated = "library.updated"

// LibraryUpdated announces that the photo library changed and derived
// structures (clusters, densities, overlays) are stale.
type LibraryUpdated struct {
	PhotosAdded int       `json:"photos_added"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Bus wraps a Watermill in-process pub/sub channel.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus. Subscribers registered before the first publish
// receive every event; there is no persistence.
func NewBus() *Bus {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, newWatermillLogger())
	return &Bus{pubsub: pubsub}
}

// PublishLibraryUpdated emits one LibraryUpdated event.
func (b *Bus) PublishLibraryUpdated(event LibraryUpdated) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal library event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := b.pubsub.Publish(TopicLibraryUpdated, msg); err != nil {
		return fmt.Errorf("publish library event: %w", err)
	}

	metrics.EventsPublished.WithLabelValues(TopicLibraryUpdated).Inc()
	return nil
}

// SubscribeLibraryUpdated starts a goroutine that calls handler for every
// LibraryUpdated event until ctx is canceled. Undecodable messages are
// acked and dropped.
func (b *Bus) SubscribeLibraryUpdated(ctx context.Context, handler func(LibraryUpdated)) error {
	messages, err := b.pubsub.Subscribe(ctx, TopicLibraryUpdated)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicLibraryUpdated, err)
	}

	go func() {
		for msg := range messages {
			var event LibraryUpdated
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping undecodable library event")
				msg.Ack()
				continue
			}
			handler(event)
			msg.Ack()
		}
	}()
	return nil
}

// Close shuts down the pub/sub channel and closes subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// watermillLogger adapts Watermill's logging interface onto zerolog.
type watermillLogger struct {
	fields watermill.LogFields
}

func newWatermillLogger() watermill.LoggerAdapter {
	return &watermillLogger{}
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.event(logging.Error().Err(err), fields).Msg(msg)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.event(logging.Debug(), fields).Msg(msg) // Watermill "info" is chatty; demote it
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.event(logging.Debug(), fields).Msg(msg)
}

func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.event(logging.Trace(), fields).Msg(msg)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{fields: l.fields.Add(fields)}
}

func (l *watermillLogger) event(e *zerolog.Event, fields watermill.LogFields) *zerolog.Event {
	for k, v := range l.fields {
		e = e.Interface(k, v)
	}
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
