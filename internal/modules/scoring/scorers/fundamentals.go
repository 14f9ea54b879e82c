package scorers

import (
	"math"

	"github.com/finsight/advisor/internal/domain"
)

// FundamentalThresholds holds the ratio bands used by the fundamental
// scorer. The original weighting constants were product decisions, so
// everything lives here as configuration rather than hidden magic
// numbers; the defaults below are documented in DefaultFundamentalThresholds.
type FundamentalThresholds struct {
	// Forward P/E bands
	PECheap    float64 `yaml:"pe_cheap"`    // Below this: attractively valued
	PEModerate float64 `yaml:"pe_moderate"` // Up to this: neutral
	PEElevated float64 `yaml:"pe_elevated"` // Up to this: mildly penalized; above: extreme
	// Return on equity above which an extreme P/E is excused as growth
	GrowthROE float64 `yaml:"growth_roe"`

	// Dividend yield bands (decimals, 0.02 = 2%)
	YieldNeutral float64 `yaml:"yield_neutral"` // Below this: barely rewarded
	YieldSweet   float64 `yaml:"yield_sweet"`   // Up to this: rewarded
	YieldTrap    float64 `yaml:"yield_trap"`    // Above this: penalized as unsustainable

	// Current ratio: below 1.0 signals liquidity stress, above this
	// cap the surplus is idle capital
	CurrentRatioCap float64 `yaml:"current_ratio_cap"`

	// Debt/equity percent at which the score bottoms out
	DebtToEquityCap float64 `yaml:"debt_to_equity_cap"`
}

// DefaultFundamentalThresholds returns the standard bands:
// P/E cheap <10, neutral to 25, elevated to 40, extreme above (excused
// when ROE >= 20%); yield neutral to 2%, rewarded to 6%, trap above 8%;
// current ratio capped at 3; debt/equity capped at 200%.
func DefaultFundamentalThresholds() FundamentalThresholds {
	return FundamentalThresholds{
		PECheap:         10,
		PEModerate:      25,
		PEElevated:      40,
		GrowthROE:       0.20,
		YieldNeutral:    0.02,
		YieldSweet:      0.06,
		YieldTrap:       0.08,
		CurrentRatioCap: 3,
		DebtToEquityCap: 200,
	}
}

// FundamentalScore represents the result of fundamentals scoring
type FundamentalScore struct {
	Score      float64            `json:"score"`      // Total score (0-1)
	Components map[string]float64 `json:"components"` // Per-ratio factor scores
}

// FundamentalsScorer calculates balance-sheet health from whatever
// ratios are present. Pure function: no clock, no randomness, no state.
type FundamentalsScorer struct {
	thresholds FundamentalThresholds
}

// NewFundamentalsScorer creates a new fundamentals scorer
func NewFundamentalsScorer(thresholds FundamentalThresholds) *FundamentalsScorer {
	return &FundamentalsScorer{thresholds: thresholds}
}

// Calculate scores the metrics that are present.
//
// Each present ratio contributes an independent, bounded factor score
// around a neutral 0.5; the total is the mean over the ratios actually
// present, so missing data is skipped rather than treated as zero.
// No ratios at all yields a neutral 0.5 with an empty breakdown.
func (fs *FundamentalsScorer) Calculate(metrics domain.FundamentalMetrics) FundamentalScore {
	t := fs.thresholds
	components := map[string]float64{}

	if pe, ok := metrics[domain.MetricForwardPE]; ok {
		var roe *float64
		if r, ok := metrics[domain.MetricReturnOnEquity]; ok {
			roe = &r
		}
		components[domain.MetricForwardPE] = scoreForwardPE(pe, roe, t)
	}
	if y, ok := metrics[domain.MetricDividendYield]; ok {
		components[domain.MetricDividendYield] = scoreDividendYield(y, t)
	}
	if cr, ok := metrics[domain.MetricCurrentRatio]; ok {
		components[domain.MetricCurrentRatio] = scoreCurrentRatio(cr, t)
	}
	if de, ok := metrics[domain.MetricDebtToEquity]; ok {
		components[domain.MetricDebtToEquity] = scoreDebtToEquity(de, t)
	}
	if m, ok := metrics[domain.MetricOperatingMargin]; ok {
		components[domain.MetricOperatingMargin] = scoreOperatingMargin(m)
	}
	if r, ok := metrics[domain.MetricReturnOnEquity]; ok {
		components[domain.MetricReturnOnEquity] = scoreReturnOnEquity(r)
	}

	if len(components) == 0 {
		return FundamentalScore{Score: 0.5, Components: components}
	}

	total := 0.0
	for name, s := range components {
		components[name] = round3(s)
		total += s
	}

	return FundamentalScore{
		Score:      round3(clamp01(total / float64(len(components)))),
		Components: components,
	}
}

// scoreForwardPE: negative forward earnings are penalized, cheap
// multiples rewarded, moderate ones neutral, extremes mildly penalized
// unless high ROE marks the name as a growth story
func scoreForwardPE(pe float64, roe *float64, t FundamentalThresholds) float64 {
	switch {
	case pe <= 0:
		return 0.30
	case pe < t.PECheap:
		return 0.65
	case pe <= t.PEModerate:
		return 0.50
	case pe <= t.PEElevated:
		return 0.40
	default:
		if roe != nil && *roe >= t.GrowthROE {
			return 0.50 // Growth context overrides the extreme multiple
		}
		return 0.30
	}
}

// scoreDividendYield: a modest yield nudges the score up, a very high
// yield reads as a sustainability warning
func scoreDividendYield(y float64, t FundamentalThresholds) float64 {
	switch {
	case y <= 0:
		return 0.50
	case y <= t.YieldNeutral:
		return 0.50 + (y/t.YieldNeutral)*0.05
	case y <= t.YieldSweet:
		return 0.55 + (y-t.YieldNeutral)/(t.YieldSweet-t.YieldNeutral)*0.15
	case y <= t.YieldTrap:
		return 0.70 - (y-t.YieldSweet)/(t.YieldTrap-t.YieldSweet)*0.15
	default:
		return 0.45
	}
}

// scoreCurrentRatio: below 1 is liquidity stress, 1-cap is healthy,
// above the cap the surplus stops helping
func scoreCurrentRatio(cr float64, t FundamentalThresholds) float64 {
	switch {
	case cr <= 0:
		return 0.20
	case cr < 1:
		return 0.20 + cr*0.30
	case cr <= t.CurrentRatioCap:
		return 0.50 + (cr-1)/(t.CurrentRatioCap-1)*0.25
	default:
		return 0.65
	}
}

// scoreDebtToEquity: lower is better; the percent value is capped so a
// distressed balance sheet bottoms out instead of going negative
func scoreDebtToEquity(de float64, t FundamentalThresholds) float64 {
	if de < 0 {
		de = 0
	}
	capped := math.Min(de, t.DebtToEquityCap)
	return 0.20 + 0.60*(1-capped/t.DebtToEquityCap)
}

// scoreOperatingMargin: higher is better, negative margins are punished
// harder than positive ones are rewarded
func scoreOperatingMargin(m float64) float64 {
	if m >= 0 {
		return math.Min(1.0, 0.5+m*2.5)
	}
	return math.Max(0, 0.5+m*2)
}

// scoreReturnOnEquity: same shape as the margin curve, slightly flatter
func scoreReturnOnEquity(r float64) float64 {
	if r >= 0 {
		return math.Min(1.0, 0.5+r*2)
	}
	return math.Max(0.1, 0.5+r*1.5)
}
