package formulas

import (
	"github.com/markcheno/go-talib"
)

// SMASeries calculates a simple moving average series aligned to the
// input. Values before the window is satisfied are NaN. Returns an
// all-NaN series when the input is shorter than the window.
func SMASeries(closes []float64, window int) []float64 {
	if window < 1 || len(closes) < window {
		return NaNSeries(len(closes))
	}
	return maskWarmup(talib.Sma(closes, window), window-1)
}

// EMASeries calculates an exponential moving average series aligned to
// the input, NaN before the window is satisfied.
func EMASeries(closes []float64, window int) []float64 {
	if window < 1 || len(closes) < window {
		return NaNSeries(len(closes))
	}
	return maskWarmup(talib.Ema(closes, window), window-1)
}
