// Package events publishes session lifecycle events to Redis Pub/Sub for
// SSE distribution. The snapshot store remains the source of truth;
// events only tell listeners that something changed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/night-watch/pkg/sim"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeSessionCreated EventType = "session.created"
	EventTypeSnapshot       EventType = "session.snapshot"
	EventTypeSessionEnded   EventType = "session.ended"
)

// Event is the wire structure on the session channel.
type Event struct {
	Type      EventType     `json:"type"`
	SessionID string        `json:"session_id"`
	Snapshot  *sim.Snapshot `json:"snapshot,omitempty"`
	Outcome   string        `json:"outcome,omitempty"`
}

// Channel returns the Pub/Sub channel for one session's events.
func Channel(id uuid.UUID) string {
	return fmt.Sprintf("session-events:%s", id.String())
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishSessionCreated announces a new session with its first snapshot.
func (b *Broadcaster) PublishSessionCreated(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error {
	return b.publish(ctx, id, Event{
		Type:      EventTypeSessionCreated,
		SessionID: id.String(),
		Snapshot:  snap,
	})
}

// PublishSnapshot announces a state change on a running session.
func (b *Broadcaster) PublishSnapshot(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error {
	return b.publish(ctx, id, Event{
		Type:      EventTypeSnapshot,
		SessionID: id.String(),
		Snapshot:  snap,
	})
}

// PublishSessionEnded announces a finished session and its outcome.
func (b *Broadcaster) PublishSessionEnded(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error {
	return b.publish(ctx, id, Event{
		Type:      EventTypeSessionEnded,
		SessionID: id.String(),
		Snapshot:  snap,
		Outcome:   string(snap.Outcome),
	})
}

func (b *Broadcaster) publish(ctx context.Context, id uuid.UUID, event Event) error {
	channel := Channel(id)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"session_id", event.SessionID,
	)

	return nil
}
