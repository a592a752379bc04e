package halftone

import "math"

// RadiusFor converts a brightness sample into a mark radius.
//
// Gamma sculpting is applied first (b' = brightness^gamma; gamma > 1
// darkens mid-tones for bolder marks, gamma < 1 lightens them), then the
// threshold: samples with b' above threshold produce no mark at all. This
// is the sole negative-space rule, and because it tests the post-gamma
// value, gamma and threshold compose predictably.
//
// The returned radius is maxRadius * (1 - b'), clamped to [0, maxRadius].
// The bool reports whether a mark should be emitted.
//
// RadiusFor is a pure function; it is the foundation of the engine's
// determinism guarantee.
func RadiusFor(brightness, gamma, maxRadius, threshold float64) (float64, bool) {
	b := math.Pow(clamp01(brightness), gamma)
	if b > threshold {
		return 0, false
	}
	r := maxRadius * (1 - b)
	if r < 0 {
		r = 0
	} else if r > maxRadius {
		r = maxRadius
	}
	return r, true
}
