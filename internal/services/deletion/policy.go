package deletion

import (
	"fmt"
	"strings"
)

// Mode controls how aggressively a Series or Season deletion is mirrored
// into the series catalog.
type Mode string

const (
	// ModeSafe deletes only the files already on disk; catalog entries and
	// monitoring stay untouched.
	ModeSafe Mode = "safe"
	// ModeAggressive deletes files and removes the series entry (or
	// unmonitors the season).
	ModeAggressive Mode = "aggressive"
	// ModeSmart deletes files, and escalates to removal/unmonitoring only
	// when the entity is already fully collected.
	ModeSmart Mode = "smart"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeSafe:
		return ModeSafe, nil
	case ModeAggressive:
		return ModeAggressive, nil
	case ModeSmart:
		return ModeSmart, nil
	default:
		return "", fmt.Errorf("unknown deletion mode %q", s)
	}
}
