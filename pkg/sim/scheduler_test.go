package sim

import (
	"testing"
	"time"
)

func TestSchedulerAfter(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.After(3*time.Second, func() { fired++ })

	s.Advance(time.Second)
	s.Advance(time.Second)
	if fired != 0 {
		t.Fatalf("fired early after 2s: %d", fired)
	}
	s.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("expected 1 firing after 3s, got %d", fired)
	}
	s.Advance(5 * time.Second)
	if fired != 1 {
		t.Fatalf("one-shot fired again: %d", fired)
	}
}

func TestSchedulerEveryReArms(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.Every(2*time.Second, func() { fired++ })

	for i := 0; i < 7; i++ {
		s.Advance(time.Second)
	}
	if fired != 3 {
		t.Fatalf("expected 3 firings in 7s at 2s period, got %d", fired)
	}
}

func TestSchedulerLargeStepFiresPerPeriod(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.Every(time.Second, func() { fired++ })

	s.Advance(5 * time.Second)
	if fired != 5 {
		t.Fatalf("expected 5 firings for a 5s step, got %d", fired)
	}
}

func TestSchedulerFiresInDeadlineOrder(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.After(3*time.Second, func() { order = append(order, "late") })
	s.After(time.Second, func() { order = append(order, "early") })
	s.After(3*time.Second, func() { order = append(order, "late2") })

	s.Advance(4 * time.Second)
	want := []string{"early", "late", "late2"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	id := s.After(time.Second, func() { fired = true })
	s.Cancel(id)
	s.Advance(2 * time.Second)
	if fired {
		t.Fatal("canceled timer fired")
	}
	// canceling again is harmless
	s.Cancel(id)
}

func TestSchedulerRemaining(t *testing.T) {
	s := NewScheduler()
	id := s.After(10*time.Second, func() {})

	s.Advance(4 * time.Second)
	rem, ok := s.Remaining(id)
	if !ok || rem != 6*time.Second {
		t.Fatalf("Remaining = (%v, %v), want (6s, true)", rem, ok)
	}

	s.Advance(6 * time.Second)
	if _, ok := s.Remaining(id); ok {
		t.Fatal("fired timer still reports remaining")
	}
}

func TestSchedulerStopDropsEverything(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.Every(time.Second, func() { fired++ })
	s.After(time.Second, func() { fired++ })

	s.Stop()
	s.Advance(5 * time.Second)
	if fired != 0 {
		t.Fatalf("timers fired after Stop: %d", fired)
	}
	if id := s.After(time.Second, func() {}); id != 0 {
		t.Fatalf("registration accepted after Stop: %d", id)
	}
}

func TestSchedulerStopInsideCallback(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.After(time.Second, func() {
		fired++
		s.Stop()
	})
	s.After(time.Second, func() { fired++ })

	s.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("expected Stop to suppress later due timers, fired = %d", fired)
	}
}

func TestSchedulerCallbackRegistersTimer(t *testing.T) {
	s := NewScheduler()
	var chained bool
	s.After(time.Second, func() {
		s.After(time.Second, func() { chained = true })
	})

	s.Advance(time.Second)
	if chained {
		t.Fatal("chained timer fired in the same step it was registered")
	}
	s.Advance(time.Second)
	if !chained {
		t.Fatal("chained timer never fired")
	}
}
