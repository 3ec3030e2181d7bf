// Package engine hosts the live sessions of one API process. Each session
// runs on its own goroutine; everything that mutates a session — the
// once-a-second tick and every player action — executes there, so the
// simulation itself never needs locks.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/night-watch/internal/storage"
	"github.com/jwebster45206/night-watch/pkg/difficulty"
	"github.com/jwebster45206/night-watch/pkg/sim"
)

// ErrSessionNotFound means no live or stored session has the given ID.
var ErrSessionNotFound = errors.New("session not found")

// Publisher receives session lifecycle events. events.Broadcaster is the
// production implementation; a nil Publisher disables broadcasting.
type Publisher interface {
	PublishSessionCreated(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error
	PublishSnapshot(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error
	PublishSessionEnded(ctx context.Context, id uuid.UUID, snap *sim.Snapshot) error
}

// Config assembles a Manager.
type Config struct {
	Store  storage.Storage
	Events Publisher
	Media  sim.MediaSource
	Logger *slog.Logger

	// TickInterval is how much real time equals one simulated second.
	// Defaults to one second; tests shrink it.
	TickInterval time.Duration

	// Rand overrides the sessions' randomness (tests only).
	Rand sim.Rand
}

// Manager owns every live session in the process.
type Manager struct {
	cfg    Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	wg       sync.WaitGroup
}

// NewManager creates a session manager.
func NewManager(cfg Config) *Manager {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:      cfg,
		logger:   cfg.Logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Start creates a session on the given tier and begins its night.
func (m *Manager) Start(ctx context.Context, tier difficulty.Tier) (sim.Snapshot, error) {
	id := uuid.New()
	s, err := sim.New(sim.Config{
		ID:     id.String(),
		Tier:   tier,
		Media:  m.cfg.Media,
		Rand:   m.cfg.Rand,
		Logger: m.logger,
	})
	if err != nil {
		return sim.Snapshot{}, err
	}

	sess := &session{
		id:   id,
		sim:  s,
		cmds: make(chan command),
		done: make(chan struct{}),
	}

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	snap := s.Snapshot()
	m.persist(id, &snap)
	if m.cfg.Events != nil {
		if err := m.cfg.Events.PublishSessionCreated(ctx, id, &snap); err != nil {
			m.logger.Warn("Failed to publish session created", "error", err, "session_id", id)
		}
	}

	m.wg.Add(1)
	go m.run(sess)

	m.logger.Info("Session started", "session_id", id, "difficulty", string(tier))
	return snap, nil
}

// Do runs fn on the session's goroutine and returns the snapshot taken
// right after. fn errors pass through unchanged.
func (m *Manager) Do(ctx context.Context, id uuid.UUID, fn func(*sim.Simulation) error) (sim.Snapshot, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return sim.Snapshot{}, ErrSessionNotFound
	}

	cmd := command{fn: fn, reply: make(chan commandResult, 1)}
	select {
	case sess.cmds <- cmd:
	case <-sess.done:
		return sim.Snapshot{}, sim.ErrSessionOver
	case <-ctx.Done():
		return sim.Snapshot{}, ctx.Err()
	}

	select {
	case res := <-cmd.reply:
		return res.snap, res.err
	case <-ctx.Done():
		return sim.Snapshot{}, ctx.Err()
	}
}

// Snapshot reads the latest stored snapshot. Finished sessions remain
// readable until their store entry expires.
func (m *Manager) Snapshot(ctx context.Context, id uuid.UUID) (*sim.Snapshot, error) {
	snap, err := m.cfg.Store.LoadSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrSessionNotFound
	}
	return snap, nil
}

// Exit terminates a session without an outcome judgment.
func (m *Manager) Exit(ctx context.Context, id uuid.UUID) error {
	_, err := m.Do(ctx, id, func(s *sim.Simulation) error {
		s.End()
		return nil
	})
	if errors.Is(err, sim.ErrSessionOver) {
		return nil // already finished
	}
	return err
}

// Shutdown ends every live session and waits for their goroutines.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.RLock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		if err := m.Exit(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			m.logger.Warn("Failed to exit session during shutdown", "error", err, "session_id", id)
		}
	}
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) persist(id uuid.UUID, snap *sim.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.cfg.Store.SaveSnapshot(ctx, id, snap); err != nil {
		m.logger.Error("Failed to save snapshot", "error", err, "session_id", id)
	}
}
