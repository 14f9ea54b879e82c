package scorers

import "math"

// clamp01 clamps a score into [0, 1]
func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

// round3 rounds to 3 decimal places
func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
