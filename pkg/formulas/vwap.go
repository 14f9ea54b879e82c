package formulas

// CalculateVWAP computes the running Volume-Weighted Average Price:
// cumulative(typical price * volume) / cumulative(volume), where the
// typical price is (high + low + close) / 3.
//
// While cumulative volume is still zero the ratio is undefined, so the
// value falls back to the typical price of the current bar.
func CalculateVWAP(highs, lows, closes, volumes []float64) []float64 {
	n := len(closes)
	vwap := make([]float64, n)

	var cumPV, cumVol float64
	for i := 0; i < n; i++ {
		typical := (highs[i] + lows[i] + closes[i]) / 3

		cumPV += typical * volumes[i]
		cumVol += volumes[i]

		if cumVol > 0 {
			vwap[i] = cumPV / cumVol
		} else {
			vwap[i] = typical
		}
	}

	return vwap
}
