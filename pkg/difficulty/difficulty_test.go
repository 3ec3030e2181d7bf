package difficulty

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Tier
		wantErr bool
	}{
		{"easy", Easy, false},
		{"MEDIUM", Medium, false},
		{" hard ", Hard, false},
		{"", "", true},
		{"nightmare", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		tier     Tier
		interval time.Duration
		chance   float64
		grace    int
		miss     int
	}{
		{Easy, 10 * time.Second, 0.4, 15, 5},
		{Medium, 7 * time.Second, 0.6, 10, 10},
		{Hard, 4 * time.Second, 0.8, 5, 15},
	}

	for _, tt := range tests {
		p := Load(tt.tier)
		if p.Tier != tt.tier {
			t.Errorf("%s: Tier = %v", tt.tier, p.Tier)
		}
		if p.SpawnCheckInterval != tt.interval {
			t.Errorf("%s: SpawnCheckInterval = %v, want %v", tt.tier, p.SpawnCheckInterval, tt.interval)
		}
		if p.SpawnChance != tt.chance {
			t.Errorf("%s: SpawnChance = %v, want %v", tt.tier, p.SpawnChance, tt.chance)
		}
		if p.MissGraceSeconds != tt.grace {
			t.Errorf("%s: MissGraceSeconds = %v, want %v", tt.tier, p.MissGraceSeconds, tt.grace)
		}
		if p.MissPenalty != tt.miss {
			t.Errorf("%s: MissPenalty = %v, want %v", tt.tier, p.MissPenalty, tt.miss)
		}
		if p.RotationInterval != 20*time.Second {
			t.Errorf("%s: RotationInterval = %v, want 20s", tt.tier, p.RotationInterval)
		}
	}
}

func TestLoadUnknownFallsBackToMedium(t *testing.T) {
	p := Load(Tier("corrupted"))
	if p.Tier != Medium {
		t.Errorf("expected Medium fallback, got %v", p.Tier)
	}
}

func TestEscalationIsMonotonic(t *testing.T) {
	e, m, h := Load(Easy), Load(Medium), Load(Hard)
	if !(e.SpawnChance < m.SpawnChance && m.SpawnChance < h.SpawnChance) {
		t.Error("spawn chance should rise with tier")
	}
	if !(e.SpawnCheckInterval > m.SpawnCheckInterval && m.SpawnCheckInterval > h.SpawnCheckInterval) {
		t.Error("spawn interval should shrink with tier")
	}
	if !(e.MissGraceSeconds > m.MissGraceSeconds && m.MissGraceSeconds > h.MissGraceSeconds) {
		t.Error("miss grace should shrink with tier")
	}
	if !(e.CorrectReportRelief > m.CorrectReportRelief && m.CorrectReportRelief > h.CorrectReportRelief) {
		t.Error("relief should shrink with tier")
	}
}
