package sim

// increaseThreat raises the accumulator, clamped to 100. Saturation arms
// the critical countdown exactly once; a second saturation while armed
// changes nothing.
func (s *Simulation) increaseThreat(n int) {
	s.threat += n
	if s.threat > 100 {
		s.threat = 100
	}
	if s.threat >= 100 && s.countdownID == 0 {
		s.countdownID = s.sched.After(countdownDuration, s.countdownFired)
		s.log.Warn("threat saturated, countdown armed", "threat", s.threat)
	}
}

// decreaseThreat lowers the accumulator, clamped to 0. Leaving saturation
// disarms the countdown; a later saturation re-arms it from the full
// duration.
func (s *Simulation) decreaseThreat(n int) {
	s.threat -= n
	if s.threat < 0 {
		s.threat = 0
	}
	if s.threat < 100 && s.countdownID != 0 {
		s.sched.Cancel(s.countdownID)
		s.countdownID = 0
		s.log.Info("threat below saturation, countdown disarmed", "threat", s.threat)
	}
}

// countdownFired ends the night: one final room change onto a jumpscare,
// then the loss.
func (s *Simulation) countdownFired() {
	s.countdownID = 0
	if s.threat < 100 {
		return
	}
	s.advanceRoom(1)
	if j := s.media.JumpscareAsset(s.currentRoom()); j != "" {
		s.asset = j
	}
	s.finish(OutcomeLoss)
}
