package difficulty

import (
	"fmt"
	"strings"
	"time"
)

// Tier selects how aggressively the night escalates.
type Tier string

const (
	Easy   Tier = "easy"
	Medium Tier = "medium"
	Hard   Tier = "hard"
)

// Tiers lists the selectable tiers in menu order.
var Tiers = []Tier{Easy, Medium, Hard}

// Profile holds every tier-dependent tuning value. A Profile is a pure
// function of the tier; nothing mutates it after Load.
type Profile struct {
	Tier Tier `json:"tier"`

	// SpawnCheckInterval is the simulated-time cadence of the spawn pass.
	SpawnCheckInterval time.Duration `json:"spawn_check_interval"`
	// SpawnChance is the probability a spawn pass injects an anomaly.
	SpawnChance float64 `json:"spawn_chance"`

	// RotationInterval is how long a camera stays up before the feed
	// rotates on its own. Currently the same on every tier.
	RotationInterval time.Duration `json:"rotation_interval"`

	// MissGraceSeconds is how long an anomaly may stay unreported before
	// it expires and punishes the player.
	MissGraceSeconds int `json:"miss_grace_seconds"`

	// Threat deltas.
	MissPenalty         int `json:"miss_penalty"`
	FalseReportPenalty  int `json:"false_report_penalty"`
	WrongTypePenalty    int `json:"wrong_type_penalty"`
	CorrectReportRelief int `json:"correct_report_relief"`
}

var profiles = map[Tier]Profile{
	Easy: {
		Tier:                Easy,
		SpawnCheckInterval:  10 * time.Second,
		SpawnChance:         0.4,
		RotationInterval:    20 * time.Second,
		MissGraceSeconds:    15,
		MissPenalty:         5,
		FalseReportPenalty:  7,
		WrongTypePenalty:    10,
		CorrectReportRelief: 8,
	},
	Medium: {
		Tier:                Medium,
		SpawnCheckInterval:  7 * time.Second,
		SpawnChance:         0.6,
		RotationInterval:    20 * time.Second,
		MissGraceSeconds:    10,
		MissPenalty:         10,
		FalseReportPenalty:  10,
		WrongTypePenalty:    15,
		CorrectReportRelief: 5,
	},
	Hard: {
		Tier:                Hard,
		SpawnCheckInterval:  4 * time.Second,
		SpawnChance:         0.8,
		RotationInterval:    20 * time.Second,
		MissGraceSeconds:    5,
		MissPenalty:         15,
		FalseReportPenalty:  15,
		WrongTypePenalty:    20,
		CorrectReportRelief: 3,
	},
}

// Parse converts a tier name from an API request into a Tier.
func Parse(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := profiles[t]; !ok {
		return "", fmt.Errorf("unknown difficulty: %q", s)
	}
	return t, nil
}

// Load returns the tuning profile for t. Unknown tiers fall back to Medium
// so a stale stored snapshot can never produce a zeroed profile.
func Load(t Tier) Profile {
	if p, ok := profiles[t]; ok {
		return p
	}
	return profiles[Medium]
}

// Label returns the display name for the tier.
func (t Tier) Label() string {
	switch t {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return string(t)
	}
}
