// Package sim implements the night-shift simulation: one session, one
// sequential timeline. All mutation happens through exported operations
// and through timer callbacks fired by Tick; callers serialize access
// (internal/engine runs each session on its own goroutine).
package sim

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jwebster45206/night-watch/pkg/anomaly"
	"github.com/jwebster45206/night-watch/pkg/difficulty"
)

var (
	// ErrNoRooms means the media source has no rooms to watch.
	ErrNoRooms = errors.New("media source lists no rooms")
	// ErrReportBusy means a report resolution is already outstanding.
	ErrReportBusy = errors.New("reporting system busy")
	// ErrSessionOver rejects operations on a finished session.
	ErrSessionOver = errors.New("session is over")
)

const (
	shiftMinutes      = 360
	anomalyGateMinute = 30

	rotationThreatBump = 3
	countdownDuration  = 10 * time.Second

	resolveDelay   = 1500 * time.Millisecond
	followUpChance = 0.65
	reportCooldown = 20 * time.Second
	reportRevealAt = 15 * time.Second
)

// Player-facing status lines.
const (
	FeedbackReporting = "REPORTING..."
	FeedbackRemoved   = "ANOMALY REMOVED"
	FeedbackNoAnomaly = "NO ANOMALIES FOUND"
	FeedbackMissed    = "ANOMALY MISSED"
)

// roomAnomaly tracks one room's disturbance. Category is set exactly while
// active; age counts simulated seconds since the spawn.
type roomAnomaly struct {
	active   bool
	category anomaly.Category
	age      int
}

// Config assembles a Simulation. Rand and Logger default when nil.
type Config struct {
	ID     string
	Tier   difficulty.Tier
	Media  MediaSource
	Rand   Rand
	Logger *slog.Logger
}

// Simulation is one player's night. Not safe for concurrent use.
type Simulation struct {
	id      string
	profile difficulty.Profile
	media   MediaSource
	rng     Rand
	log     *slog.Logger
	sched   *Scheduler

	rooms         []string
	roomIdx       int
	secondsOnRoom int

	minute   int
	paused   bool
	over     bool
	outcome  Outcome
	asset    string
	feedback string

	anomalies map[string]*roomAnomaly

	threat      int
	countdownID int

	reporting  bool // overlay open
	resolving  bool // a resolution is outstanding
	cooldownID int
}

// New builds a session at minute zero, showing the first room's normal
// footage, and registers the recurring simulation work.
func New(cfg Config) (*Simulation, error) {
	rooms := cfg.Media.Rooms()
	if len(rooms) == 0 {
		return nil, ErrNoRooms
	}
	rng := cfg.Rand
	if rng == nil {
		rng = systemRand{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Simulation{
		id:        cfg.ID,
		profile:   difficulty.Load(cfg.Tier),
		media:     cfg.Media,
		rng:       rng,
		log:       log.With("session_id", cfg.ID),
		sched:     NewScheduler(),
		rooms:     rooms,
		anomalies: make(map[string]*roomAnomaly, len(rooms)),
	}
	for _, r := range rooms {
		s.anomalies[r] = &roomAnomaly{}
	}
	s.refreshAsset()

	// Registration order decides same-second firing order: the clock
	// first so the shift can end before anything else runs that second.
	s.sched.Every(time.Second, s.clockTick)
	s.sched.Every(time.Second, s.agingTick)
	s.sched.Every(s.profile.SpawnCheckInterval, s.spawnTick)
	return s, nil
}

// Tick advances one simulated second. Paused or finished sessions advance
// nothing, so no pending delay can fire early across a pause.
func (s *Simulation) Tick() {
	if s.paused || s.over {
		return
	}
	s.sched.Advance(time.Second)
}

func (s *Simulation) clockTick() {
	s.minute++
	if s.minute >= shiftMinutes {
		s.finish(OutcomeWin)
		return
	}
	s.secondsOnRoom++
	if time.Duration(s.secondsOnRoom)*time.Second >= s.profile.RotationInterval {
		s.advanceRoom(1)
		s.increaseThreat(rotationThreatBump)
	}
}

// Pause freezes simulated time. Idempotent.
func (s *Simulation) Pause() error {
	if s.over {
		return ErrSessionOver
	}
	s.paused = true
	return nil
}

// Resume unfreezes simulated time. Idempotent.
func (s *Simulation) Resume() error {
	if s.over {
		return ErrSessionOver
	}
	s.paused = false
	return nil
}

// NavigatePrev switches to the previous camera.
func (s *Simulation) NavigatePrev() error { return s.navigate(-1) }

// NavigateNext switches to the next camera.
func (s *Simulation) NavigateNext() error { return s.navigate(1) }

func (s *Simulation) navigate(dir int) error {
	if s.over {
		return ErrSessionOver
	}
	s.advanceRoom(dir)
	return nil
}

func (s *Simulation) advanceRoom(dir int) {
	n := len(s.rooms)
	s.roomIdx = ((s.roomIdx+dir)%n + n) % n
	s.secondsOnRoom = 0
	s.refreshAsset()
}

// End terminates the session without an outcome judgment (manual exit).
func (s *Simulation) End() {
	if s.over {
		return
	}
	s.finish(OutcomeExit)
}

func (s *Simulation) finish(o Outcome) {
	s.over = true
	s.outcome = o
	s.countdownID = 0
	s.cooldownID = 0
	s.resolving = false
	s.reporting = false
	s.sched.Stop()
	s.log.Info("session finished", "outcome", string(o), "minute", s.minute, "threat", s.threat)
}

// Over reports whether the session has ended.
func (s *Simulation) Over() bool { return s.over }

func (s *Simulation) currentRoom() string {
	return s.rooms[s.roomIdx]
}

// refreshAsset re-picks footage for the current room from live state.
func (s *Simulation) refreshAsset() {
	room := s.currentRoom()
	if a := s.anomalies[room]; a.active {
		s.asset = s.media.AnomalyAsset(room, a.category)
		return
	}
	s.asset = s.media.NormalAsset(room)
}

// Snapshot renders the externally visible state.
func (s *Simulation) Snapshot() Snapshot {
	room := s.currentRoom()
	snap := Snapshot{
		ID:         s.id,
		Difficulty: s.profile.Tier,
		Minute:     s.minute,
		Clock:      ClockDisplay(s.minute),
		RoomKey:    room,
		RoomName:   s.media.DisplayName(room),
		Asset:      s.asset,
		Threat:     s.threat,
		ThreatBand: ThreatBand(s.threat),
		Paused:     s.paused,
		Reporting:  s.reporting,
		Feedback:   s.feedback,
		Over:       s.over,
		Outcome:    s.outcome,
	}
	if s.cooldownID != 0 {
		if rem, ok := s.sched.Remaining(s.cooldownID); ok {
			snap.CooldownSeconds = ceilSeconds(rem)
		}
	}
	if s.countdownID != 0 {
		if rem, ok := s.sched.Remaining(s.countdownID); ok {
			snap.CountdownArmed = true
			snap.CountdownSeconds = ceilSeconds(rem)
		}
	}
	return snap
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
