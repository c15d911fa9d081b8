package scene

import (
	"math"

	"github.com/iburimskiy/gentle-checkin/internal/config"
)

// Focus returns the sharpness of the probe and the hand at loop phase tt.
// 1 is fully sharp. The first two seconds hold the probe tip, the next two
// rack over to the hand, and the last second (the wipe) keeps both sharp.
func Focus(tt float64) (probe, hand float64) {
	switch {
	case tt < config.ProbeFocusEnd:
		k := tt / config.ProbeFocusEnd
		probe = 1.0
		hand = 0.2 + 0.2*math.Cos(k*math.Pi)
	case tt < config.HandFocusEnd:
		k := (tt - config.ProbeFocusEnd) / (config.HandFocusEnd - config.ProbeFocusEnd)
		probe = 0.3 + 0.3*math.Cos(k*math.Pi)
		hand = 1.0
	default:
		probe = 1.0
		hand = 1.0
	}
	return clamp01(probe), clamp01(hand)
}

// BlurRadius converts a sharpness value to a blur radius in device pixels.
func BlurRadius(sharpness, scale, dpr float64) float64 {
	return (1 - clamp01(sharpness)) * scale * dpr
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
