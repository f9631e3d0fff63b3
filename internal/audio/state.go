package audio

import "strconv"

const (
	highVolume   = 70
	mediumVolume = 30

	mutedGlyph = "🔇"
)

// State is the mirrored state of the default sink. Volume is a percentage and
// may exceed 100.
type State struct {
	Volume int
	Muted  bool
	Sink   string
}

// Format renders the state for the status line
func (s State) Format() string {
	if s.Muted {
		return mutedGlyph
	}

	return VolumeIcon(s.Volume) + " " + strconv.Itoa(s.Volume) + "%"
}

// VolumeIcon picks the speaker glyph for a volume percentage
func VolumeIcon(volume int) string {
	switch {
	case volume > highVolume:
		return "🔊"
	case volume > mediumVolume:
		return "🔉"
	default:
		return "🔈"
	}
}
