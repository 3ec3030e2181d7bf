package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/jwebster45206/night-watch/pkg/difficulty"
	"github.com/jwebster45206/night-watch/pkg/sim"
)

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewRedisStorage(mr.Addr(), logger)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func testSnapshot(id uuid.UUID) *sim.Snapshot {
	return &sim.Snapshot{
		ID:         id.String(),
		Difficulty: difficulty.Medium,
		Minute:     42,
		Clock:      "12:42 AM",
		RoomKey:    "living_room",
		RoomName:   "Living Room",
		Threat:     30,
		ThreatBand: sim.BandUnstable,
	}
}

func TestRedisStorageSaveLoad(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()
	id := uuid.New()

	if err := s.SaveSnapshot(ctx, id, testSnapshot(id)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, err := s.LoadSnapshot(ctx, id)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got == nil {
		t.Fatal("snapshot not found after save")
	}
	if got.ID != id.String() || got.Minute != 42 || got.RoomKey != "living_room" {
		t.Errorf("loaded snapshot mismatch: %+v", got)
	}
	if got.ThreatBand != sim.BandUnstable {
		t.Errorf("threat band = %q", got.ThreatBand)
	}
}

func TestRedisStorageLoadMissing(t *testing.T) {
	s, _ := setupTestStorage(t)

	got, err := s.LoadSnapshot(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown session, got %+v", got)
	}
}

func TestRedisStorageDelete(t *testing.T) {
	s, _ := setupTestStorage(t)
	ctx := context.Background()
	id := uuid.New()

	if err := s.SaveSnapshot(ctx, id, testSnapshot(id)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := s.DeleteSnapshot(ctx, id); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	got, err := s.LoadSnapshot(ctx, id)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got != nil {
		t.Fatal("snapshot still present after delete")
	}

	// deleting a missing snapshot is not an error
	if err := s.DeleteSnapshot(ctx, uuid.New()); err != nil {
		t.Fatalf("DeleteSnapshot(missing): %v", err)
	}
}

func TestRedisStorageSaveSetsTTL(t *testing.T) {
	s, mr := setupTestStorage(t)
	ctx := context.Background()
	id := uuid.New()

	if err := s.SaveSnapshot(ctx, id, testSnapshot(id)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	ttl := mr.TTL("session:" + id.String())
	if ttl <= 0 {
		t.Fatalf("expected a positive TTL, got %v", ttl)
	}
}

func TestRedisStoragePing(t *testing.T) {
	s, mr := setupTestStorage(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	mr.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected ping failure after server shutdown")
	}
}
