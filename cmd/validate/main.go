// Command validate checks an asset tree before deploying it: every room
// needs normal footage, and the operator should know which anomaly
// categories each room can actually show.
package main

import (
	"fmt"
	"os"

	"github.com/jwebster45206/night-watch/internal/media"
	"github.com/jwebster45206/night-watch/pkg/anomaly"
)

func main() {
	dir := os.Getenv("ASSETS_DIR")
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	if dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s <assets dir> (or set ASSETS_DIR)\n", os.Args[0])
		os.Exit(1)
	}

	v := &assetValidator{}
	if err := v.validateTree(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	for _, w := range v.warnings {
		fmt.Printf("warning: %s\n", w)
	}
	fmt.Println("Asset tree is valid!")
}

type assetValidator struct {
	warnings []string
}

func (v *assetValidator) validateTree(dir string) error {
	fmt.Printf("Validating %s...\n", dir)

	lib, err := media.Load(os.DirFS(dir))
	if err != nil {
		return fmt.Errorf("failed to scan asset tree: %w", err)
	}

	rooms := lib.Rooms()
	if len(rooms) == 0 {
		return fmt.Errorf("no rooms found under %s/rooms", dir)
	}

	for _, room := range rooms {
		cats := lib.Categories(room)
		fmt.Printf("%s (%s):\n", room, lib.DisplayName(room))
		if lib.NormalAsset(room) == "" {
			return fmt.Errorf("room %s has no normal footage", room)
		}
		fmt.Println("  normal: ok")

		if lib.JumpscareAsset(room) == "" {
			v.warnings = append(v.warnings, fmt.Sprintf("room %s has no jumpscare footage", room))
		} else {
			fmt.Println("  jumpscare: ok")
		}

		if len(cats) == 0 {
			v.warnings = append(v.warnings, fmt.Sprintf("room %s has no anomaly footage", room))
		}
		for _, c := range cats {
			fmt.Printf("  anomaly: %s\n", c.Label())
		}
		for _, c := range anomaly.Categories {
			if lib.AnomalyAsset(room, c) == "" {
				v.warnings = append(v.warnings, fmt.Sprintf("room %s missing footage for %s", room, c.Label()))
			}
		}
	}

	fmt.Printf("%d rooms scanned\n", len(rooms))
	return nil
}
