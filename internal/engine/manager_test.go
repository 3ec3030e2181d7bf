package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/night-watch/internal/storage"
	"github.com/jwebster45206/night-watch/pkg/anomaly"
	"github.com/jwebster45206/night-watch/pkg/difficulty"
	"github.com/jwebster45206/night-watch/pkg/sim"
)

type fakeMedia struct{ rooms []string }

func (m fakeMedia) Rooms() []string                 { return m.rooms }
func (m fakeMedia) DisplayName(room string) string  { return room }
func (m fakeMedia) NormalAsset(room string) string  { return room + "/normal.mp4" }
func (m fakeMedia) JumpscareAsset(room string) string { return "" }

func (m fakeMedia) AnomalyAsset(room string, c anomaly.Category) string {
	return room + "/" + string(c) + ".mp4"
}

func (m fakeMedia) Categories(room string) []anomaly.Category {
	return []anomaly.Category{anomaly.Intruder}
}

// neverRand suppresses spawns so tests control the timeline.
type neverRand struct{}

func (neverRand) Float64() float64 { return 1 }
func (neverRand) Intn(n int) int   { return 0 }

type recordingPublisher struct {
	mu       sync.Mutex
	created  int
	snapshot int
	ended    int
	lastEnd  *sim.Snapshot
}

func (p *recordingPublisher) PublishSessionCreated(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created++
	return nil
}

func (p *recordingPublisher) PublishSnapshot(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot++
	return nil
}

func (p *recordingPublisher) PublishSessionEnded(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended++
	p.lastEnd = snap
	return nil
}

func newTestManager(t *testing.T) (*Manager, *storage.MockStorage, *recordingPublisher) {
	t.Helper()
	store := storage.NewMockStorage()
	pub := &recordingPublisher{}
	m := NewManager(Config{
		Store:        store,
		Events:       pub,
		Media:        fakeMedia{rooms: []string{"hall", "kitchen"}},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		TickInterval: 5 * time.Millisecond,
		Rand:         neverRand{},
	})
	t.Cleanup(func() { m.Shutdown(context.Background()) })
	return m, store, pub
}

func TestManagerStart(t *testing.T) {
	m, _, pub := newTestManager(t)
	ctx := context.Background()

	snap, err := m.Start(ctx, difficulty.Medium)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id, err := uuid.Parse(snap.ID)
	if err != nil {
		t.Fatalf("session ID is not a uuid: %q", snap.ID)
	}
	if snap.Difficulty != difficulty.Medium || snap.RoomKey != "hall" {
		t.Errorf("unexpected first snapshot: %+v", snap)
	}

	stored, err := m.Snapshot(ctx, id)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if stored.ID != snap.ID {
		t.Errorf("stored snapshot ID = %q, want %q", stored.ID, snap.ID)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if pub.created != 1 {
		t.Errorf("created events = %d, want 1", pub.created)
	}
}

func TestManagerStartNoRooms(t *testing.T) {
	m := NewManager(Config{
		Store:  storage.NewMockStorage(),
		Media:  fakeMedia{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer m.Shutdown(context.Background())

	if _, err := m.Start(context.Background(), difficulty.Easy); err != sim.ErrNoRooms {
		t.Fatalf("expected ErrNoRooms, got %v", err)
	}
}

func TestManagerDo(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	snap, err := m.Start(ctx, difficulty.Easy)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := uuid.MustParse(snap.ID)

	got, err := m.Do(ctx, id, func(s *sim.Simulation) error { return s.Pause() })
	if err != nil {
		t.Fatalf("Do(pause): %v", err)
	}
	if !got.Paused {
		t.Error("snapshot not paused after pause action")
	}

	// action errors pass through
	if _, err := m.Do(ctx, id, func(s *sim.Simulation) error { return s.Report(anomaly.Intruder) }); err != nil {
		t.Fatalf("Do(report): %v", err)
	}
	if _, err := m.Do(ctx, id, func(s *sim.Simulation) error { return s.Report(anomaly.Intruder) }); err != sim.ErrReportBusy {
		t.Fatalf("expected ErrReportBusy, got %v", err)
	}
}

func TestManagerDoUnknownSession(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Do(context.Background(), uuid.New(), func(s *sim.Simulation) error { return nil })
	if err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerTickAdvancesClock(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	snap, err := m.Start(ctx, difficulty.Easy)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := uuid.MustParse(snap.ID)

	deadline := time.After(2 * time.Second)
	for {
		stored, err := m.Snapshot(ctx, id)
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if stored.Minute > 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("clock never advanced")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestManagerExit(t *testing.T) {
	m, _, pub := newTestManager(t)
	ctx := context.Background()

	snap, err := m.Start(ctx, difficulty.Hard)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := uuid.MustParse(snap.ID)

	if err := m.Exit(ctx, id); err != nil {
		t.Fatalf("Exit: %v", err)
	}

	// the runner goroutine unregisters shortly after
	deadline := time.After(2 * time.Second)
	for {
		_, err := m.Do(ctx, id, func(s *sim.Simulation) error { return nil })
		if err == ErrSessionNotFound || err == sim.ErrSessionOver {
			break
		}
		select {
		case <-deadline:
			t.Fatal("session still accepts actions after exit")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// the final snapshot stays readable with the exit outcome
	stored, err := m.Snapshot(ctx, id)
	if err != nil {
		t.Fatalf("Snapshot after exit: %v", err)
	}
	if !stored.Over || stored.Outcome != sim.OutcomeExit {
		t.Errorf("final snapshot = over=%v outcome=%v", stored.Over, stored.Outcome)
	}

	for {
		pub.mu.Lock()
		ended := pub.ended
		pub.mu.Unlock()
		if ended == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("session ended event never published")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestManagerShutdownEndsSessions(t *testing.T) {
	store := storage.NewMockStorage()
	m := NewManager(Config{
		Store:        store,
		Media:        fakeMedia{rooms: []string{"hall"}},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		TickInterval: 5 * time.Millisecond,
		Rand:         neverRand{},
	})
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		snap, err := m.Start(ctx, difficulty.Easy)
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		ids = append(ids, uuid.MustParse(snap.ID))
	}

	m.Shutdown(ctx)

	for _, id := range ids {
		stored, err := m.Snapshot(ctx, id)
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if !stored.Over {
			t.Errorf("session %s still running after shutdown", id)
		}
	}
}
