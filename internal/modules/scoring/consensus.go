package scoring

import (
	"fmt"
	"math"

	"github.com/finsight/advisor/internal/domain"
	"github.com/finsight/advisor/internal/modules/scoring/scorers"
)

// Component names used in warnings and explanations
const (
	componentTechnical   = "technical"
	componentFundamental = "fundamental"
	componentSentiment   = "sentiment"
)

// CombineInput carries the three component results plus the context
// that drives weight selection
type CombineInput struct {
	Technical   scorers.TechnicalSignal
	Fundamental scorers.FundamentalScore
	Sentiment   scorers.SentimentScore
	// HasFundamentals reports whether any fundamental ratio was
	// actually present; it moves the blend to the momentum profile
	// when false
	HasFundamentals bool
	Context         domain.MarketContext
}

// Combiner merges the three component scores into one weighted
// recommendation with a confidence level and advisory warnings.
// Pure and stateless; the configuration is read-only.
type Combiner struct {
	cfg Config
}

// NewCombiner creates a combiner.
// The configuration must already be validated; an invalid weight table
// reaching Combine is a programming error and panics there.
func NewCombiner(cfg Config) *Combiner {
	return &Combiner{cfg: cfg}
}

// component is one scored factor with its selected weight
type component struct {
	name   string
	score  float64
	weight float64
}

// Combine blends the component scores under the context-selected
// weight profile. Bad market data never panics here; a broken weight
// table or unknown asset class does, because that is a config bug.
func (c *Combiner) Combine(in CombineInput) domain.RecommendationResult {
	profile := c.profileFor(in.Context, in.HasFundamentals)

	if math.Abs(profile.Sum()-1.0) > weightTolerance {
		panic(fmt.Sprintf("scoring: weight profile sums to %v, must be 1.0", profile.Sum()))
	}

	comps := []component{
		{componentTechnical, in.Technical.Score, profile.Technical},
		{componentFundamental, in.Fundamental.Score, profile.Fundamental},
		{componentSentiment, in.Sentiment.Score, profile.Sentiment},
	}

	total := 0.0
	for _, comp := range comps {
		total += comp.weight * comp.score
	}

	used := make([]component, 0, len(comps))
	for _, comp := range comps {
		if comp.weight > 0 {
			used = append(used, comp)
		}
	}

	label := c.label(total)
	confidence := c.confidence(used)
	warnings := c.warnings(total, used, in.Context)

	return domain.RecommendationResult{
		Recommendation:  label,
		ConfidenceLevel: confidence,
		Warnings:        warnings,
		Explanation:     c.explanation(label, confidence, total, used),
		ScoreBreakdown: domain.ScoreBreakdown{
			TechnicalScore:    in.Technical.Score,
			FundamentalScore:  in.Fundamental.Score,
			SentimentScore:    in.Sentiment.Score,
			TechnicalWeight:   profile.Technical,
			FundamentalWeight: profile.Fundamental,
			SentimentWeight:   profile.Sentiment,
			TotalScore:        total,
			HeadlineCount:     in.Sentiment.HeadlineCount,
		},
		MarketContext: in.Context,
	}
}

// profileFor selects the weight blend for the context.
// An unknown asset class is a programming error, not bad market data,
// and fails loudly instead of silently substituting a default.
func (c *Combiner) profileFor(ctx domain.MarketContext, hasFundamentals bool) WeightProfile {
	if !ctx.AssetClass.Valid() {
		panic(fmt.Sprintf("scoring: unknown asset class %q", ctx.AssetClass))
	}

	if ctx.AssetClass == domain.AssetClassCrypto || !hasFundamentals {
		return c.cfg.Weights.Momentum
	}
	if ctx.HasAnalystCoverage {
		return c.cfg.Weights.Analyst
	}
	return c.cfg.Weights.Balanced
}

// label applies the recommendation thresholds to the blended score
func (c *Combiner) label(total float64) domain.Recommendation {
	t := c.cfg.Labels
	switch {
	case total >= t.StrongBuy:
		return domain.RecommendationStrongBuy
	case total > t.Buy:
		return domain.RecommendationBuy
	case total <= t.StrongSell:
		return domain.RecommendationStrongSell
	case total < t.Sell:
		return domain.RecommendationSell
	default:
		return domain.RecommendationHold
	}
}

// confidence classifies the spread of the used component scores.
// The medium boundary is inclusive: a spread of exactly Medium is
// still MEDIUM.
func (c *Combiner) confidence(used []component) domain.ConfidenceLevel {
	if len(used) < 2 {
		return domain.ConfidenceHigh
	}

	lo, hi := used[0].score, used[0].score
	for _, comp := range used[1:] {
		lo = math.Min(lo, comp.score)
		hi = math.Max(hi, comp.score)
	}
	spread := hi - lo

	switch {
	case spread < c.cfg.Confidence.High:
		return domain.ConfidenceHigh
	case spread <= c.cfg.Confidence.Medium:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// warnings collects the advisory strings; several may fire at once,
// always in the same order so output stays testable
func (c *Combiner) warnings(total float64, used []component, ctx domain.MarketContext) []string {
	rules := c.cfg.Warnings
	warnings := []string{}

	for _, comp := range used {
		if comp.score < rules.WeakComponent {
			warnings = append(warnings,
				fmt.Sprintf("weak signal in %s component", comp.name))
		}
	}

	if total > rules.SingleFactorTotal {
		strong := 0
		for _, comp := range used {
			if comp.score >= rules.SingleFactorOthers {
				strong++
			}
		}
		if strong == 1 {
			warnings = append(warnings,
				"high score from a single factor; corroborate independently")
		}
	}

	if c.maxPairSpread(used) > rules.DisagreementSpread {
		warnings = append(warnings,
			"signals disagree; additional research advised")
	}

	if ctx.VolatilityIndex != nil && *ctx.VolatilityIndex > rules.ElevatedVolatility {
		warnings = append(warnings,
			"market context is volatile; consider risk management")
	}

	return warnings
}

// maxPairSpread is the widest score gap between any two used components
func (c *Combiner) maxPairSpread(used []component) float64 {
	spread := 0.0
	for i := 0; i < len(used); i++ {
		for j := i + 1; j < len(used); j++ {
			spread = math.Max(spread, math.Abs(used[i].score-used[j].score))
		}
	}
	return spread
}

// explanation builds a short deterministic summary: the label, the
// blended score, and the component that contributed the most
func (c *Combiner) explanation(label domain.Recommendation, confidence domain.ConfidenceLevel, total float64, used []component) string {
	driver := used[0]
	for _, comp := range used[1:] {
		if comp.weight*comp.score > driver.weight*driver.score {
			driver = comp
		}
	}

	parts := ""
	for i, comp := range used {
		if i > 0 {
			parts += ", "
		}
		parts += fmt.Sprintf("%s %.2f (weight %.2f)", comp.name, comp.score, comp.weight)
	}

	return fmt.Sprintf("%s at %.2f with %s confidence; components: %s; driven by %s",
		label, total, confidence, parts, driver.name)
}
