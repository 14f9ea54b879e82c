package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// IchimokuSeries holds the five Ichimoku lines, each aligned to the
// input index. The Senkou spans are displaced forward by the kijun
// period ("the cloud is plotted ahead of price") and the Chikou span
// backward by the same amount; displaced-out positions are NaN.
type IchimokuSeries struct {
	Tenkan  []float64 `json:"tenkan"`
	Kijun   []float64 `json:"kijun"`
	SenkouA []float64 `json:"senkou_a"`
	SenkouB []float64 `json:"senkou_b"`
	Chikou  []float64 `json:"chikou"`
}

// CalculateIchimoku computes the Ichimoku lines from rolling extrema:
//
//   Tenkan   = (highest high + lowest low) / 2 over the tenkan period
//   Kijun    = same over the kijun period
//   Senkou A = (Tenkan + Kijun) / 2, shifted forward by the kijun period
//   Senkou B = midpoint over the senkouB period, shifted forward likewise
//   Chikou   = close shifted backward by the kijun period
func CalculateIchimoku(highs, lows, closes []float64, tenkanP, kijunP, senkouBP int) IchimokuSeries {
	n := len(closes)

	tenkan := midpointSeries(highs, lows, tenkanP)
	kijun := midpointSeries(highs, lows, kijunP)

	senkouARaw := make([]float64, n)
	for i := 0; i < n; i++ {
		senkouARaw[i] = (tenkan[i] + kijun[i]) / 2
	}
	senkouBRaw := midpointSeries(highs, lows, senkouBP)

	senkouA := shiftForward(senkouARaw, kijunP)
	senkouB := shiftForward(senkouBRaw, kijunP)

	chikou := NaNSeries(n)
	for i := 0; i+kijunP < n; i++ {
		chikou[i] = closes[i+kijunP]
	}

	return IchimokuSeries{
		Tenkan:  tenkan,
		Kijun:   kijun,
		SenkouA: senkouA,
		SenkouB: senkouB,
		Chikou:  chikou,
	}
}

// midpointSeries computes (rolling max of highs + rolling min of lows) / 2
func midpointSeries(highs, lows []float64, period int) []float64 {
	n := len(highs)
	if period < 1 || n < period {
		return NaNSeries(n)
	}

	hi := maskWarmup(talib.Max(highs, period), period-1)
	lo := maskWarmup(talib.Min(lows, period), period-1)

	mid := make([]float64, n)
	for i := 0; i < n; i++ {
		mid[i] = (hi[i] + lo[i]) / 2
	}
	return mid
}

// shiftForward displaces a series forward by lag positions, filling the
// vacated prefix with NaN and dropping values displaced past the end
func shiftForward(s []float64, lag int) []float64 {
	n := len(s)
	out := NaNSeries(n)
	for i := 0; i < n; i++ {
		src := i - lag
		if src >= 0 && !math.IsNaN(s[src]) {
			out[i] = s[src]
		}
	}
	return out
}
