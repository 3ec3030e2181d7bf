package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/night-watch/pkg/sim"
)

func TestBroadcasterPublish(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	id := uuid.New()

	sub := client.Subscribe(ctx, Channel(id))
	t.Cleanup(func() { _ = sub.Close() })
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	b := NewBroadcaster(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	snap := &sim.Snapshot{ID: id.String(), Outcome: sim.OutcomeWin, Over: true}
	if err := b.PublishSessionEnded(ctx, id, snap); err != nil {
		t.Fatalf("PublishSessionEnded: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Type != EventTypeSessionEnded {
			t.Errorf("event type = %s", ev.Type)
		}
		if ev.SessionID != id.String() || ev.Outcome != "win" {
			t.Errorf("event payload mismatch: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}
