package indicators

import (
	"github.com/finsight/advisor/internal/domain"
	"github.com/finsight/advisor/pkg/formulas"
)

// Snapshot bundles the indicator series for one price series. Every
// series is aligned to the input index; elements are NaN before their
// window is satisfied. A snapshot is created fresh per scoring call and
// never mutated afterwards.
type Snapshot struct {
	SMAShort []float64 `json:"sma_short"`
	// SMALong is nil when the series is shorter than its window
	SMALong []float64 `json:"sma_long,omitempty"`
	EMAFast []float64 `json:"ema_fast"`
	RSI     []float64 `json:"rsi"`

	MACD      formulas.MACDSeries      `json:"macd"`
	Bollinger formulas.BollingerSeries `json:"bollinger"`

	// Extended indicators, only filled in when Config.Extended is set
	VWAP     []float64                 `json:"vwap,omitempty"`
	Ichimoku *formulas.IchimokuSeries  `json:"ichimoku,omitempty"`

	Windows Windows `json:"windows"`
}

// Calculator computes indicator snapshots from OHLCV series. It is a
// pure function over its input: no I/O, no shared state, safe to call
// from any number of goroutines.
type Calculator struct {
	cfg Config
}

// New creates a new indicator calculator
func New(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate produces an indicator snapshot for the series.
//
// Fails closed: fewer than MinDataPoints bars returns nil, which the
// caller must treat as "insufficient data", not as an error. Degenerate
// arithmetic inside an individual indicator falls back to a flat
// non-signaling series for that indicator only.
func (c *Calculator) Calculate(series []domain.PriceBar) *Snapshot {
	n := len(series)
	if n < c.cfg.MinDataPoints {
		return nil
	}

	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, bar := range series {
		highs[i] = bar.High
		lows[i] = bar.Low
		closes[i] = bar.Close
		volumes[i] = bar.Volume
	}

	w := WindowsFor(n)

	snap := &Snapshot{
		SMAShort:  formulas.SMASeries(closes, w.SMAShort),
		EMAFast:   formulas.EMASeries(closes, w.MACDFast),
		RSI:       formulas.RSISeries(closes, w.RSI),
		MACD:      formulas.CalculateMACD(closes, w.MACDFast, w.MACDSlow, w.MACDSignal),
		Bollinger: formulas.CalculateBollinger(closes, w.Bollinger, c.cfg.BollingerStdDevs),
		Windows:   w,
	}

	// The long moving average only exists once enough history covers it
	if n >= w.SMALong {
		snap.SMALong = formulas.SMASeries(closes, w.SMALong)
	}

	if c.cfg.Extended {
		snap.VWAP = formulas.CalculateVWAP(highs, lows, closes, volumes)
		ich := formulas.CalculateIchimoku(highs, lows, closes, w.Tenkan, w.Kijun, w.SenkouB)
		snap.Ichimoku = &ich
	}

	return snap
}
