package formulas

import "math"

// Helpers shared by the indicator series calculations.
//
// go-talib pads the warm-up prefix of every output with zeros. The
// scoring engine needs "undefined before the window is satisfied" to be
// explicit, so each wrapper masks the warm-up prefix to NaN and checks
// the rest for degenerate arithmetic (NaN/Inf leaking out of a division)
// before returning.

// NaNSeries returns a series of n NaN values
func NaNSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// FlatSeries returns a series of n copies of value
func FlatSeries(n int, value float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = value
	}
	return s
}

// maskWarmup replaces the first warmup values with NaN, in place,
// and returns the series
func maskWarmup(s []float64, warmup int) []float64 {
	if warmup > len(s) {
		warmup = len(s)
	}
	for i := 0; i < warmup; i++ {
		s[i] = math.NaN()
	}
	return s
}

// finiteAfter reports whether every value from index start on is finite
func finiteAfter(s []float64, start int) bool {
	for i := start; i < len(s); i++ {
		if math.IsNaN(s[i]) || math.IsInf(s[i], 0) {
			return false
		}
	}
	return true
}

// Last returns the final value of a series, or NaN for an empty one
func Last(s []float64) float64 {
	if len(s) == 0 {
		return math.NaN()
	}
	return s[len(s)-1]
}

// IsDefined reports whether a series value is usable (finite, not a
// warm-up NaN)
func IsDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
