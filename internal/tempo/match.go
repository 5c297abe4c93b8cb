package tempo

import "math"

// DefaultTolerance is the BPM slack accepted by BPMsMatch.
const DefaultTolerance = 3.0

// BPMsMatch reports whether a and b describe the same tempo within tolerance,
// treating half-time and double-time readings as equal.
func BPMsMatch(a, b, tolerance float64) bool {
	switch {
	case math.Abs(a-b) <= tolerance:
		return true
	case math.Abs(a-b*2) <= tolerance:
		return true
	case math.Abs(a*2-b) <= tolerance:
		return true
	default:
		return false
	}
}
