package formulas

import (
	"github.com/markcheno/go-talib"
)

// MACDSeries holds the three aligned MACD output series
type MACDSeries struct {
	Line      []float64 `json:"line"`
	Signal    []float64 `json:"signal"`
	Histogram []float64 `json:"histogram"`
}

// CalculateMACD computes Moving Average Convergence Divergence:
// MACD line = EMA(fast) - EMA(slow), signal = EMA(MACD line, signal
// window), histogram = line - signal.
//
// When the series is too short for the slow and signal windows, or the
// computation degenerates, the result collapses to flat all-zero
// series: a histogram pinned at zero fires neither the bullish nor the
// bearish crossover rule.
func CalculateMACD(closes []float64, fast, slow, signal int) MACDSeries {
	n := len(closes)

	flat := MACDSeries{
		Line:      FlatSeries(n, 0),
		Signal:    FlatSeries(n, 0),
		Histogram: FlatSeries(n, 0),
	}

	if fast < 1 || slow < fast || signal < 1 || n < slow+signal {
		return flat
	}

	line, sig, hist := talib.Macd(closes, fast, slow, signal)

	warmup := slow + signal - 2
	if !finiteAfter(line, warmup) || !finiteAfter(sig, warmup) || !finiteAfter(hist, warmup) {
		return flat
	}

	return MACDSeries{
		Line:      maskWarmup(line, warmup),
		Signal:    maskWarmup(sig, warmup),
		Histogram: maskWarmup(hist, warmup),
	}
}
