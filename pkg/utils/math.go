package utils

import "math"

// RoundPercent rounds v half away from zero and clamps the result to [0, 100].
// NaN maps to 0.
func RoundPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
