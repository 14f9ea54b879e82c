package formulas

import (
	"github.com/markcheno/go-talib"
)

// RSISeries calculates the Relative Strength Index over the full series.
//
// RSI Formula:
//   RSI = 100 - (100 / (1 + RS))
//   where RS = Average Gain / Average Loss over N periods
//
// Values before the warm-up window are NaN. A degenerate input (for
// example a perfectly flat series, where the average loss is zero)
// must never abort the calculation: if the underlying computation
// produces non-finite values after warm-up, the whole series falls
// back to a flat neutral 50.
func RSISeries(closes []float64, window int) []float64 {
	if window < 1 || len(closes) < window+1 {
		return NaNSeries(len(closes))
	}

	rsi := maskWarmup(talib.Rsi(closes, window), window)

	if !finiteAfter(rsi, window) {
		return maskWarmup(FlatSeries(len(closes), 50), window)
	}

	return rsi
}
