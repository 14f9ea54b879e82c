package scorers

import (
	"fmt"

	"github.com/finsight/advisor/internal/domain"
	"github.com/finsight/advisor/internal/modules/indicators"
	"github.com/finsight/advisor/pkg/formulas"
)

// ReasonInsufficientData is the single reason attached when no
// indicator snapshot could be computed
const ReasonInsufficientData = "insufficient data"

// TechnicalRules holds the rule thresholds and score adjustments for
// the technical signal. These are configuration, loaded once, never
// mutated per call.
type TechnicalRules struct {
	RSIOversold   float64 `yaml:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought"`
	RSIDelta      float64 `yaml:"rsi_delta"`
	MACDDelta     float64 `yaml:"macd_delta"`
	SMADelta      float64 `yaml:"sma_delta"`
	BandDelta     float64 `yaml:"band_delta"`
	BuyThreshold  float64 `yaml:"buy_threshold"`
	SellThreshold float64 `yaml:"sell_threshold"`
}

// DefaultTechnicalRules returns the standard rule set
func DefaultTechnicalRules() TechnicalRules {
	return TechnicalRules{
		RSIOversold:   30,
		RSIOverbought: 70,
		RSIDelta:      0.15,
		MACDDelta:     0.10,
		SMADelta:      0.10,
		BandDelta:     0.10,
		BuyThreshold:  0.6,
		SellThreshold: 0.4,
	}
}

// TechnicalSignal is the result of technical rule evaluation
type TechnicalSignal struct {
	Signal  domain.Signal `json:"signal"`
	Score   float64       `json:"score"`   // 0-1, 0.5 neutral
	Reasons []string      `json:"reasons"` // One entry per rule that fired
}

// TechnicalScorer turns an indicator snapshot into a directional
// signal by deterministic rule evaluation against the latest bar only.
type TechnicalScorer struct {
	rules TechnicalRules
}

// NewTechnicalScorer creates a new technical scorer
func NewTechnicalScorer(rules TechnicalRules) *TechnicalScorer {
	return &TechnicalScorer{rules: rules}
}

// Generate evaluates the rule set against the latest bar.
//
// Starts at a neutral 0.5 and applies bounded adjustments:
// oversold/overbought RSI, MACD histogram sign, close vs short moving
// average, close vs Bollinger envelope. The final score is clamped to
// [0, 1]. A nil snapshot yields exactly {HOLD, 0.5, ["insufficient data"]}.
func (ts *TechnicalScorer) Generate(series []domain.PriceBar, snap *indicators.Snapshot) TechnicalSignal {
	if snap == nil || len(series) == 0 {
		return TechnicalSignal{
			Signal:  domain.SignalHold,
			Score:   0.5,
			Reasons: []string{ReasonInsufficientData},
		}
	}

	latest := len(series) - 1
	close := series[latest].Close

	score := 0.5
	reasons := []string{}

	if rsi := snap.RSI[latest]; formulas.IsDefined(rsi) {
		if rsi < ts.rules.RSIOversold {
			score += ts.rules.RSIDelta
			reasons = append(reasons, fmt.Sprintf("oversold (RSI %.1f)", rsi))
		} else if rsi > ts.rules.RSIOverbought {
			score -= ts.rules.RSIDelta
			reasons = append(reasons, fmt.Sprintf("overbought (RSI %.1f)", rsi))
		}
	}

	if hist := snap.MACD.Histogram[latest]; formulas.IsDefined(hist) {
		if hist > 0 {
			score += ts.rules.MACDDelta
			reasons = append(reasons, "bullish crossover (MACD histogram positive)")
		} else if hist < 0 {
			score -= ts.rules.MACDDelta
			reasons = append(reasons, "bearish crossover (MACD histogram negative)")
		}
	}

	if sma := snap.SMAShort[latest]; formulas.IsDefined(sma) {
		if close > sma {
			score += ts.rules.SMADelta
			reasons = append(reasons, "above short MA")
		} else {
			score -= ts.rules.SMADelta
			reasons = append(reasons, "below short MA")
		}
	}

	lower := snap.Bollinger.Lower[latest]
	upper := snap.Bollinger.Upper[latest]
	if formulas.IsDefined(lower) && formulas.IsDefined(upper) {
		if close < lower {
			score += ts.rules.BandDelta
			reasons = append(reasons, "below lower band")
		} else if close > upper {
			score -= ts.rules.BandDelta
			reasons = append(reasons, "above upper band")
		}
	}

	score = round3(clamp01(score))

	signal := domain.SignalHold
	if score > ts.rules.BuyThreshold {
		signal = domain.SignalBuy
	} else if score < ts.rules.SellThreshold {
		signal = domain.SignalSell
	}

	return TechnicalSignal{
		Signal:  signal,
		Score:   score,
		Reasons: reasons,
	}
}
