package scorers

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/finsight/advisor/internal/domain"
	"github.com/finsight/advisor/internal/modules/indicators"
	"github.com/finsight/advisor/pkg/formulas"
)

// oneBarSnapshot builds a single-bar snapshot with the given latest
// indicator values; NaN means "rule has no data"
func oneBarSnapshot(rsi, macdHist, smaShort, bollLower, bollUpper float64) *indicators.Snapshot {
	return &indicators.Snapshot{
		SMAShort: []float64{smaShort},
		EMAFast:  []float64{math.NaN()},
		RSI:      []float64{rsi},
		MACD: formulas.MACDSeries{
			Line:      []float64{macdHist},
			Signal:    []float64{0},
			Histogram: []float64{macdHist},
		},
		Bollinger: formulas.BollingerSeries{
			Upper: []float64{bollUpper},
			Mid:   []float64{(bollUpper + bollLower) / 2},
			Lower: []float64{bollLower},
		},
	}
}

func oneBar(close float64) []domain.PriceBar {
	return []domain.PriceBar{{
		Timestamp: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Open:      close, High: close, Low: close, Close: close, Volume: 1000,
	}}
}

func TestGenerateNilSnapshot(t *testing.T) {
	scorer := NewTechnicalScorer(DefaultTechnicalRules())

	got := scorer.Generate(oneBar(100), nil)

	want := TechnicalSignal{
		Signal:  domain.SignalHold,
		Score:   0.5,
		Reasons: []string{ReasonInsufficientData},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate(nil snapshot) = %+v, want %+v", got, want)
	}
}

func TestGenerateRules(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name       string
		close      float64
		snap       *indicators.Snapshot
		wantScore  float64
		wantSignal domain.Signal
	}{
		{
			name:  "all bullish rules fire",
			close: 100,
			// RSI oversold, MACD positive, close above SMA, close below lower band
			snap:       oneBarSnapshot(25, 1.5, 95, 101, 110),
			wantScore:  0.95, // 0.5 +0.15 +0.10 +0.10 +0.10
			wantSignal: domain.SignalBuy,
		},
		{
			name:       "all bearish rules fire",
			close:      100,
			snap:       oneBarSnapshot(75, -1.5, 105, 90, 99),
			wantScore:  0.05,
			wantSignal: domain.SignalSell,
		},
		{
			name:       "no data leaves neutral hold",
			close:      100,
			snap:       oneBarSnapshot(nan, nan, nan, nan, nan),
			wantScore:  0.5,
			wantSignal: domain.SignalHold,
		},
		{
			name:  "mixed signals cancel out",
			close: 100,
			// Oversold (+0.15) but bearish MACD (-0.10) and below SMA (-0.10)
			snap:       oneBarSnapshot(25, -1, 105, 90, 110),
			wantScore:  0.45,
			wantSignal: domain.SignalHold,
		},
		{
			name:       "close equal to SMA counts as below",
			close:      100,
			snap:       oneBarSnapshot(nan, nan, 100, nan, nan),
			wantScore:  0.40,
			wantSignal: domain.SignalHold,
		},
	}

	scorer := NewTechnicalScorer(DefaultTechnicalRules())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Generate(oneBar(tt.close), tt.snap)

			if math.Abs(got.Score-tt.wantScore) > 1e-9 {
				t.Errorf("score = %v, want %v (reasons: %v)", got.Score, tt.wantScore, got.Reasons)
			}
			if got.Signal != tt.wantSignal {
				t.Errorf("signal = %v, want %v", got.Signal, tt.wantSignal)
			}
		})
	}
}

func TestGenerateScoreClamped(t *testing.T) {
	rules := DefaultTechnicalRules()
	rules.RSIDelta = 0.9 // Force the sum past the bounds
	scorer := NewTechnicalScorer(rules)

	bullish := scorer.Generate(oneBar(100), oneBarSnapshot(10, 1, 90, 101, 110))
	if bullish.Score > 1 {
		t.Errorf("score = %v, want clamped to 1", bullish.Score)
	}

	bearish := scorer.Generate(oneBar(100), oneBarSnapshot(90, -1, 110, 90, 95))
	if bearish.Score < 0 {
		t.Errorf("score = %v, want clamped to 0", bearish.Score)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	scorer := NewTechnicalScorer(DefaultTechnicalRules())
	bars := oneBar(100)
	snap := oneBarSnapshot(25, 1.5, 95, 101, 110)

	a := scorer.Generate(bars, snap)
	b := scorer.Generate(bars, snap)

	if !reflect.DeepEqual(a, b) {
		t.Error("two evaluations over identical input differ")
	}
}
