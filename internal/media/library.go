// Package media loads the camera footage catalogue from an asset tree and
// serves it to the simulation. The expected layout is
// rooms/<roomKey>/<roomKey>_<anomaly token>.mp4, with normal footage
// carrying "normal" in the name and jumpscares in a jumpscare/ subdirectory.
package media

import (
	"io/fs"
	"math/rand/v2"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/night-watch/pkg/anomaly"
)

const roomsDir = "rooms"

type roomAssets struct {
	normal    []string
	jumpscare []string
	byCat     map[anomaly.Category][]string
}

// Library is an immutable, categorized view of the asset tree. It
// implements sim.MediaSource. Asset picks are uniformly random within a
// room's list for a little variety between sessions.
type Library struct {
	keys  []string
	rooms map[string]*roomAssets
	title cases.Caser
}

// Load scans the asset tree. A missing or empty rooms directory yields an
// empty library; unrecognized files are skipped, not fatal.
func Load(fsys fs.FS) (*Library, error) {
	lib := &Library{
		rooms: make(map[string]*roomAssets),
		title: cases.Title(language.AmericanEnglish),
	}
	if _, err := fs.Stat(fsys, roomsDir); err != nil {
		return lib, nil
	}
	err := fs.WalkDir(fsys, roomsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(path.Ext(p), ".mp4") {
			return nil
		}
		lib.add(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	lib.keys = make([]string, 0, len(lib.rooms))
	for k := range lib.rooms {
		lib.keys = append(lib.keys, k)
	}
	sort.Strings(lib.keys)
	return lib, nil
}

func (l *Library) add(p string) {
	// rooms/<roomKey>/... — anything deeper than the jumpscare
	// subdirectory is ignored.
	parts := strings.Split(p, "/")
	if len(parts) != 3 && len(parts) != 4 {
		return
	}
	room := parts[1]
	ra := l.rooms[room]
	if ra == nil {
		ra = &roomAssets{byCat: make(map[anomaly.Category][]string)}
		l.rooms[room] = ra
	}

	if len(parts) == 4 {
		if strings.EqualFold(parts[2], "jumpscare") {
			ra.jumpscare = append(ra.jumpscare, p)
		}
		return
	}

	base := strings.TrimSuffix(parts[2], path.Ext(parts[2]))
	if strings.Contains(strings.ToLower(base), "normal") {
		ra.normal = append(ra.normal, p)
		return
	}
	// Anomaly files are named <roomKey>_<anomaly token>; room keys may
	// themselves contain underscores, so strip the key, not the first
	// underscore-delimited word.
	token := strings.TrimPrefix(base, room)
	if token == base {
		if idx := strings.Index(base, "_"); idx >= 0 {
			token = base[idx:]
		} else {
			return
		}
	}
	token = strings.ReplaceAll(token, "_", "")
	if token == "" {
		return
	}
	if c, ok := anomaly.ParseToken(token); ok {
		ra.byCat[c] = append(ra.byCat[c], p)
	}
}

// Rooms returns the sorted room keys.
func (l *Library) Rooms() []string {
	keys := make([]string, len(l.keys))
	copy(keys, l.keys)
	return keys
}

// DisplayName titles a room key: "living_room" becomes "Living Room".
func (l *Library) DisplayName(room string) string {
	return l.title.String(strings.ReplaceAll(room, "_", " "))
}

func (l *Library) NormalAsset(room string) string {
	if ra := l.rooms[room]; ra != nil {
		return pick(ra.normal)
	}
	return ""
}

func (l *Library) AnomalyAsset(room string, c anomaly.Category) string {
	if ra := l.rooms[room]; ra != nil {
		return pick(ra.byCat[c])
	}
	return ""
}

func (l *Library) JumpscareAsset(room string) string {
	if ra := l.rooms[room]; ra != nil {
		return pick(ra.jumpscare)
	}
	return ""
}

// Categories lists the categories the room has footage for, in menu order.
func (l *Library) Categories(room string) []anomaly.Category {
	ra := l.rooms[room]
	if ra == nil {
		return nil
	}
	var cats []anomaly.Category
	for _, c := range anomaly.Categories {
		if len(ra.byCat[c]) > 0 {
			cats = append(cats, c)
		}
	}
	return cats
}

func pick(list []string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	default:
		return list[rand.IntN(len(list))]
	}
}
