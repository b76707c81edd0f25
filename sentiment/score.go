package sentiment

import "math"

// Clamp bounds a raw score to the supported [-1.0, 1.0] range. NaN maps to
// the neutral score.
func Clamp(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(-1.0, math.Min(1.0, x))
}
