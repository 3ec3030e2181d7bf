package sim

import "github.com/jwebster45206/night-watch/pkg/anomaly"

// OpenReport raises the category picker. Rejected while a previous
// report is still resolving.
func (s *Simulation) OpenReport() error {
	if s.over {
		return ErrSessionOver
	}
	if s.resolving {
		return ErrReportBusy
	}
	s.reporting = true
	return nil
}

// CancelReport lowers the picker without submitting.
func (s *Simulation) CancelReport() error {
	if s.over {
		return ErrSessionOver
	}
	s.reporting = false
	return nil
}

// Report submits a classification of the current room. At most one
// resolution is outstanding at a time; outcomes land later on the session
// timeline (a short confirmation delay when correct, a long cooldown with
// a delayed reveal when not).
func (s *Simulation) Report(c anomaly.Category) error {
	if s.over {
		return ErrSessionOver
	}
	if s.resolving {
		return ErrReportBusy
	}
	s.reporting = false
	s.resolving = true
	s.feedback = FeedbackReporting

	room := s.currentRoom()
	a := s.anomalies[room]
	if a.active && a.category == c {
		s.sched.After(resolveDelay, func() { s.resolveCorrect(room) })
		return nil
	}

	// Wrong room state or wrong category: the player learns nothing until
	// the reveal, and pays then.
	penalty := s.profile.FalseReportPenalty
	if a.active {
		penalty = s.profile.WrongTypePenalty
	}
	s.sched.After(reportRevealAt, func() { s.revealIncorrect(penalty) })
	s.cooldownID = s.sched.After(reportCooldown, s.cooldownDone)
	s.log.Info("incorrect report submitted", "room", room, "category", string(c))
	return nil
}

func (s *Simulation) resolveCorrect(room string) {
	s.resolving = false
	s.clearAnomaly(room)
	s.feedback = FeedbackRemoved
	s.decreaseThreat(s.profile.CorrectReportRelief)
	s.log.Info("anomaly removed", "room", room)
	if s.rng.Float64() < followUpChance {
		s.injectAnomaly()
	}
}

func (s *Simulation) revealIncorrect(penalty int) {
	s.feedback = FeedbackNoAnomaly
	s.increaseThreat(penalty)
}

func (s *Simulation) cooldownDone() {
	s.cooldownID = 0
	s.resolving = false
}
