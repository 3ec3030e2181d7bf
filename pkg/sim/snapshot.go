package sim

import (
	"fmt"

	"github.com/jwebster45206/night-watch/pkg/difficulty"
)

// Outcome is how a finished session ended.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeExit Outcome = "exit"
)

// Threat bands shown to the player.
const (
	BandLow      = "LOW"
	BandUnstable = "UNSTABLE"
	BandHigh     = "HIGH"
	BandCritical = "CRITICAL"
)

// ThreatBand maps a threat level onto its display band.
func ThreatBand(threat int) string {
	switch {
	case threat < 25:
		return BandLow
	case threat < 50:
		return BandUnstable
	case threat < 75:
		return BandHigh
	default:
		return BandCritical
	}
}

// ClockDisplay renders the shift clock. The shift starts at 12:00 AM and
// one simulated minute passes per tick.
func ClockDisplay(minute int) string {
	h := minute / 60
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d AM", h, minute%60)
}

// Snapshot is the immutable external view of a session. Everything the
// API and console show comes from here; no caller reads Simulation fields
// directly.
type Snapshot struct {
	ID         string          `json:"id"`
	Difficulty difficulty.Tier `json:"difficulty"`

	Minute int    `json:"minute"`
	Clock  string `json:"clock"`

	RoomKey  string `json:"room_key"`
	RoomName string `json:"room_name"`
	Asset    string `json:"asset,omitempty"`

	Threat     int    `json:"threat"`
	ThreatBand string `json:"threat_band"`

	Paused    bool `json:"paused"`
	Reporting bool `json:"reporting"`

	// CooldownSeconds counts down a failed report's lockout; 0 when clear.
	CooldownSeconds int `json:"cooldown_seconds,omitempty"`

	// CountdownArmed is set while the critical countdown runs.
	CountdownArmed   bool `json:"countdown_armed,omitempty"`
	CountdownSeconds int  `json:"countdown_seconds,omitempty"`

	Feedback string `json:"feedback,omitempty"`

	Over    bool    `json:"over"`
	Outcome Outcome `json:"outcome,omitempty"`
}
