package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/night-watch/pkg/sim"
)

type session struct {
	id   uuid.UUID
	sim  *sim.Simulation
	cmds chan command
	done chan struct{}
}

type command struct {
	fn    func(*sim.Simulation) error
	reply chan commandResult
}

type commandResult struct {
	snap sim.Snapshot
	err  error
}

// run is the session's goroutine: the only place the simulation mutates.
// Real time arrives through the ticker; player actions arrive as commands.
// When the session finishes the goroutine exits, its scheduler is already
// stopped, and the closed done channel turns late actions into
// ErrSessionOver.
func (m *Manager) run(sess *session) {
	defer m.wg.Done()
	defer m.remove(sess)

	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sess.sim.Tick()
			m.publish(sess)

		case cmd := <-sess.cmds:
			err := cmd.fn(sess.sim)
			cmd.reply <- commandResult{snap: sess.sim.Snapshot(), err: err}
			if err == nil {
				m.publish(sess)
			}

		case <-m.ctx.Done():
			sess.sim.End()
			m.publish(sess)
		}

		if sess.sim.Over() {
			return
		}
	}
}

func (m *Manager) remove(sess *session) {
	close(sess.done)
	m.mu.Lock()
	delete(m.sessions, sess.id)
	m.mu.Unlock()

	snap := sess.sim.Snapshot()
	if m.cfg.Events != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := m.cfg.Events.PublishSessionEnded(ctx, sess.id, &snap); err != nil {
			m.logger.Warn("Failed to publish session ended", "error", err, "session_id", sess.id)
		}
		cancel()
	}
	m.logger.Info("Session runner stopped", "session_id", sess.id, "outcome", string(snap.Outcome))
}

// publish pushes the current snapshot to the store and, when something
// worth announcing happened, to the broadcaster.
func (m *Manager) publish(sess *session) {
	snap := sess.sim.Snapshot()
	m.persist(sess.id, &snap)

	if m.cfg.Events != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := m.cfg.Events.PublishSnapshot(ctx, sess.id, &snap); err != nil {
			m.logger.Debug("Failed to publish snapshot", "error", err, "session_id", sess.id)
		}
		cancel()
	}
}
