package anomaly

import (
	"fmt"
	"strings"
)

// Category classifies what is wrong in a room. The zero value None means
// the room is clean; an active anomaly always carries a non-None category.
type Category string

const (
	None             Category = ""
	MissingObject    Category = "missing-object"
	Displacement     Category = "displacement"
	ShadowFigure     Category = "shadow-figure"
	Intruder         Category = "intruder"
	StrangeImagery   Category = "strange-imagery"
	DemonicPresence  Category = "demonic-presence"
	ExtraObject      Category = "extra-object"
	AudioDisturbance Category = "audio-disturbance"
)

// Categories lists every reportable category in menu order.
var Categories = []Category{
	MissingObject,
	Displacement,
	ShadowFigure,
	Intruder,
	StrangeImagery,
	DemonicPresence,
	ExtraObject,
	AudioDisturbance,
}

var labels = map[Category]string{
	MissingObject:    "Missing Object",
	Displacement:     "Object Displacement",
	ShadowFigure:     "Shadowy Figure",
	Intruder:         "Intruder",
	StrangeImagery:   "Strange Imagery",
	DemonicPresence:  "Demonic Presence",
	ExtraObject:      "Extra Object",
	AudioDisturbance: "Audio Disturbance",
}

// aliases maps the catalogue tokens that appear in asset filenames onto
// categories. The media tree grew organically and is inconsistent about
// spelling, so the table is forgiving.
var aliases = map[string]Category{
	"missingobject":      MissingObject,
	"missing":            MissingObject,
	"objectdisplacement": Displacement,
	"displacement":       Displacement,
	"shadowyfigure":      ShadowFigure,
	"shadowfigure":       ShadowFigure,
	"intruder":           Intruder,
	"strangeimagery":     StrangeImagery,
	"strangerimagery":    StrangeImagery,
	"demonicpresence":    DemonicPresence,
	"demonic":            DemonicPresence,
	"extraobject":        ExtraObject,
	"newobject":          ExtraObject,
	"newobj":             ExtraObject,
	"audiodisturbance":   AudioDisturbance,
}

// Valid reports whether c is one of the reportable categories.
func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// Label returns the human-readable name shown in report menus.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// Parse converts a category slug from an API request into a Category.
func Parse(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return None, fmt.Errorf("unknown anomaly category: %q", s)
	}
	return c, nil
}

// ParseToken resolves a normalized filename token (lowercase, no
// separators, trailing copy digits stripped) to a category. Unrecognized
// tokens return false so callers can skip the asset instead of failing
// the whole library load.
func ParseToken(token string) (Category, bool) {
	token = strings.ToLower(token)
	token = strings.TrimRight(token, "0123456789")
	// Collapse doubled trailing letters ("audiodisturbancee").
	if c, ok := aliases[token]; ok {
		return c, true
	}
	if n := len(token); n > 1 && token[n-1] == token[n-2] {
		if c, ok := aliases[token[:n-1]]; ok {
			return c, true
		}
	}
	return None, false
}
