package sim

import "time"

// Scheduler is a single prioritized timer queue driven by simulated time.
// Nothing fires on its own: callbacks only run inside Advance, on the
// caller's goroutine, so a session's timers and player actions share one
// sequential timeline. A Scheduler is not safe for concurrent use.
type Scheduler struct {
	timers  []*timer
	nextID  int
	nextSeq int
	stopped bool
}

type timer struct {
	id        int
	remaining time.Duration
	period    time.Duration // 0 for one-shot
	seq       int
	fn        func()
}

// NewScheduler returns an empty queue.
func NewScheduler() *Scheduler {
	return &Scheduler{nextID: 1}
}

// After registers fn to run once after d of simulated time. It returns a
// handle for Cancel and Remaining, or 0 if the scheduler is stopped.
func (s *Scheduler) After(d time.Duration, fn func()) int {
	return s.add(d, 0, fn)
}

// Every registers fn to run each time period elapses. The first run is one
// full period out.
func (s *Scheduler) Every(period time.Duration, fn func()) int {
	return s.add(period, period, fn)
}

func (s *Scheduler) add(d, period time.Duration, fn func()) int {
	if s.stopped {
		return 0
	}
	t := &timer{id: s.nextID, remaining: d, period: period, seq: s.nextSeq, fn: fn}
	s.nextID++
	s.nextSeq++
	s.timers = append(s.timers, t)
	return t.id
}

// Cancel drops the timer with the given handle. Canceling an unknown or
// already-fired handle is a no-op.
func (s *Scheduler) Cancel(id int) {
	for i, t := range s.timers {
		if t.id == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Remaining reports how much simulated time is left before the timer fires.
func (s *Scheduler) Remaining(id int) (time.Duration, bool) {
	for _, t := range s.timers {
		if t.id == id {
			return t.remaining, true
		}
	}
	return 0, false
}

// Stop drops every outstanding timer and rejects further registrations.
// Safe to call from inside a callback: the surrounding Advance fires
// nothing further.
func (s *Scheduler) Stop() {
	s.stopped = true
	s.timers = nil
}

// Advance moves simulated time forward by step, then fires every due timer
// in deadline order, ties broken by registration order. Periodic timers
// re-arm by their period, so a large step fires them once per elapsed
// period. Callbacks may register and cancel timers; timers registered
// during Advance are due in this same call only if given a non-positive
// delay.
func (s *Scheduler) Advance(step time.Duration) {
	if s.stopped {
		return
	}
	for _, t := range s.timers {
		t.remaining -= step
	}
	for !s.stopped {
		t := s.nextDue()
		if t == nil {
			return
		}
		if t.period > 0 {
			t.remaining += t.period
		} else {
			s.Cancel(t.id)
		}
		t.fn()
	}
}

func (s *Scheduler) nextDue() *timer {
	var due *timer
	for _, t := range s.timers {
		if t.remaining > 0 {
			continue
		}
		if due == nil || t.remaining < due.remaining ||
			(t.remaining == due.remaining && t.seq < due.seq) {
			due = t
		}
	}
	return due
}
