package sim

import "github.com/jwebster45206/night-watch/pkg/anomaly"

// MediaSource supplies the camera footage a session displays. The
// simulation never touches the filesystem itself; internal/media provides
// the production implementation over an asset tree.
//
// Asset lookups return a reference (a path, in practice) or "" when the
// room has nothing suitable. A chosen anomaly category with no backing
// asset keeps its category; only the displayed reference goes empty.
type MediaSource interface {
	// Rooms returns every room key, sorted. An empty result makes
	// session construction fail with ErrNoRooms.
	Rooms() []string

	// DisplayName renders a room key for presentation.
	DisplayName(room string) string

	NormalAsset(room string) string
	AnomalyAsset(room string, c anomaly.Category) string
	JumpscareAsset(room string) string

	// Categories lists the anomaly categories the room has footage for.
	Categories(room string) []anomaly.Category
}
