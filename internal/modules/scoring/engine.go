package scoring

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/advisor/internal/domain"
	"github.com/finsight/advisor/internal/modules/indicators"
	"github.com/finsight/advisor/internal/modules/scoring/scorers"
)

// AnalysisInput is everything the caller supplies for one instrument.
// Each part is optional: missing price history, fundamentals or
// headlines degrade the corresponding component to neutral instead of
// failing.
type AnalysisInput struct {
	Symbol       string
	Bars         []domain.PriceBar
	Fundamentals domain.FundamentalMetrics
	Headlines    []domain.HeadlineScore
	Context      domain.MarketContext
}

// Engine runs the four component scorers and the consensus combiner
// for one instrument per call. Every call is synchronous, pure and
// independent, so scoring many instruments is safe to fan out across
// goroutines with no coordination.
type Engine struct {
	cfg          Config
	calculator   *indicators.Calculator
	technical    *scorers.TechnicalScorer
	fundamentals *scorers.FundamentalsScorer
	sentiment    *scorers.SentimentScorer
	combiner     *Combiner
	log          zerolog.Logger
}

// NewEngine validates the configuration and wires the components
func NewEngine(cfg Config, log zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:          cfg,
		calculator:   indicators.New(cfg.Indicators),
		technical:    scorers.NewTechnicalScorer(cfg.Technical),
		fundamentals: scorers.NewFundamentalsScorer(cfg.Fundamentals),
		sentiment:    scorers.NewSentimentScorer(),
		combiner:     NewCombiner(cfg),
		log:          log.With().Str("module", "scoring").Logger(),
	}, nil
}

// Score produces one recommendation record.
//
// Bad or missing market data never raises: a short series scores a
// neutral technical signal with an "insufficient data" reason, absent
// ratios score neutral fundamentals, no headlines score neutral
// sentiment with HeadlineCount 0. Only configuration bugs panic.
func (e *Engine) Score(in AnalysisInput) domain.RecommendationResult {
	snapshot := e.calculator.Calculate(in.Bars)

	technical := e.technical.Generate(in.Bars, snapshot)
	fundamental := e.fundamentals.Calculate(in.Fundamentals)
	sentiment := e.sentiment.Aggregate(in.Headlines)

	result := e.combiner.Combine(CombineInput{
		Technical:       technical,
		Fundamental:     fundamental,
		Sentiment:       sentiment,
		HasFundamentals: len(fundamental.Components) > 0,
		Context:         in.Context,
	})

	result.Symbol = in.Symbol
	result.GeneratedAt = time.Now().UTC()

	e.log.Debug().
		Str("symbol", in.Symbol).
		Str("recommendation", string(result.Recommendation)).
		Str("confidence", string(result.ConfidenceLevel)).
		Float64("total_score", result.ScoreBreakdown.TotalScore).
		Int("bars", len(in.Bars)).
		Int("headlines", sentiment.HeadlineCount).
		Msg("Scored instrument")

	return result
}
