package formulas

import (
	"github.com/markcheno/go-talib"
)

// BollingerSeries holds the three aligned Bollinger band series.
// Wherever all three are defined, Upper >= Mid >= Lower.
type BollingerSeries struct {
	Upper []float64 `json:"upper"`
	Mid   []float64 `json:"mid"`
	Lower []float64 `json:"lower"`
}

// Width of the flat fallback envelope around the close, as a fraction
// of price. Narrow enough that the band rules never fire on it.
const bollingerFallbackBand = 0.005

// CalculateBollinger computes Bollinger bands: a simple moving average
// plus/minus stdDevs rolling standard deviations.
//
// A series too short for the window, or degenerate arithmetic inside
// the rolling standard deviation, collapses the envelope to the close
// price plus/minus a fixed small band instead of failing.
func CalculateBollinger(closes []float64, window int, stdDevs float64) BollingerSeries {
	n := len(closes)

	if window < 2 || n < window {
		return bollingerFallback(closes)
	}

	upper, mid, lower := talib.BBands(closes, window, stdDevs, stdDevs, talib.SMA)

	warmup := window - 1
	if !finiteAfter(upper, warmup) || !finiteAfter(mid, warmup) || !finiteAfter(lower, warmup) {
		return bollingerFallback(closes)
	}

	return BollingerSeries{
		Upper: maskWarmup(upper, warmup),
		Mid:   maskWarmup(mid, warmup),
		Lower: maskWarmup(lower, warmup),
	}
}

// bollingerFallback builds the flat non-signaling envelope
func bollingerFallback(closes []float64) BollingerSeries {
	n := len(closes)
	upper := make([]float64, n)
	mid := make([]float64, n)
	lower := make([]float64, n)
	for i, c := range closes {
		upper[i] = c * (1 + bollingerFallbackBand)
		mid[i] = c
		lower[i] = c * (1 - bollingerFallbackBand)
	}
	return BollingerSeries{Upper: upper, Mid: mid, Lower: lower}
}
