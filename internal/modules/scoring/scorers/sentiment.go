package scorers

import (
	"github.com/finsight/advisor/internal/domain"
	"github.com/finsight/advisor/pkg/formulas"
)

// Consensus labels derived from the positive/negative headline ratio.
// Auxiliary only; the numeric contract is the plain mean.
const (
	ConsensusBullish = "BULLISH"
	ConsensusBearish = "BEARISH"
	ConsensusMixed   = "MIXED"
)

// Polarity band edges for counting a headline as positive or negative
const (
	polarityPositive = 0.55
	polarityNegative = 0.45
)

// SentimentScore represents aggregated headline sentiment.
// HeadlineCount makes the weight contribution auditable downstream,
// in particular HeadlineCount == 0 marks the neutral no-data case.
type SentimentScore struct {
	Score         float64 `json:"score"` // 0-1, 0.5 neutral
	Consensus     string  `json:"consensus"`
	HeadlineCount int     `json:"headline_count"`
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	Neutral       int     `json:"neutral"`
}

// SentimentScorer averages externally classified headline polarity
// scores. The headline list is opaque input; classification happened
// upstream.
type SentimentScorer struct{}

// NewSentimentScorer creates a new sentiment scorer
func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{}
}

// Aggregate computes the arithmetic mean of the polarity scores.
// An empty list is exactly neutral: score 0.5, HeadlineCount 0.
func (ss *SentimentScorer) Aggregate(headlines []domain.HeadlineScore) SentimentScore {
	if len(headlines) == 0 {
		return SentimentScore{Score: 0.5, Consensus: ConsensusMixed}
	}

	scores := make([]float64, len(headlines))
	var positive, negative, neutral int
	for i, h := range headlines {
		scores[i] = h.PolarityScore
		switch {
		case h.PolarityScore > polarityPositive:
			positive++
		case h.PolarityScore < polarityNegative:
			negative++
		default:
			neutral++
		}
	}

	return SentimentScore{
		Score:         round3(clamp01(formulas.Mean(scores))),
		Consensus:     consensusLabel(positive, negative),
		HeadlineCount: len(headlines),
		Positive:      positive,
		Negative:      negative,
		Neutral:       neutral,
	}
}

// consensusLabel: bullish when positives dominate negatives at least
// two to one, bearish mirrored, otherwise mixed
func consensusLabel(positive, negative int) string {
	switch {
	case positive > 0 && positive >= 2*negative:
		return ConsensusBullish
	case negative > 0 && negative >= 2*positive:
		return ConsensusBearish
	default:
		return ConsensusMixed
	}
}
