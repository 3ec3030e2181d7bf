package sim

import "github.com/jwebster45206/night-watch/pkg/anomaly"

// agingTick runs once per simulated second: every active anomaly ages one
// second, and any that outlives the grace window expires, punishing the
// player exactly once.
func (s *Simulation) agingTick() {
	for room, a := range s.anomalies {
		if !a.active {
			continue
		}
		a.age++
		if a.age < s.profile.MissGraceSeconds {
			continue
		}
		s.clearAnomaly(room)
		s.feedback = FeedbackMissed
		s.log.Info("anomaly missed", "room", room)
		s.increaseThreat(s.profile.MissPenalty)
		if s.over {
			return
		}
	}
}

// spawnTick is the periodic spawn pass: one chance roll per invocation.
func (s *Simulation) spawnTick() {
	if s.minute < anomalyGateMinute {
		return
	}
	if s.rng.Float64() >= s.profile.SpawnChance {
		return
	}
	s.injectAnomaly()
}

// injectAnomaly places an anomaly in a uniformly random clean room. Every
// draw is single-shot: no clean room, or no footage for the drawn room,
// means no spawn this time.
func (s *Simulation) injectAnomaly() {
	var clean []string
	for _, room := range s.rooms {
		if !s.anomalies[room].active {
			clean = append(clean, room)
		}
	}
	if len(clean) == 0 {
		return
	}
	room := clean[s.rng.Intn(len(clean))]
	cats := s.media.Categories(room)
	if len(cats) == 0 {
		return
	}
	cat := cats[s.rng.Intn(len(cats))]

	a := s.anomalies[room]
	a.active = true
	a.category = cat
	a.age = 0
	s.log.Info("anomaly spawned", "room", room, "category", string(cat))
	if room == s.currentRoom() {
		s.refreshAsset()
	}
}

// clearAnomaly deactivates a room's anomaly and restores its footage if
// that camera is up.
func (s *Simulation) clearAnomaly(room string) {
	a := s.anomalies[room]
	a.active = false
	a.category = anomaly.None
	a.age = 0
	if room == s.currentRoom() {
		s.refreshAsset()
	}
}
