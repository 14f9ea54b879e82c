package domain

import "time"

// AssetClass identifies the kind of instrument being scored
type AssetClass string

const (
	AssetClassStock  AssetClass = "STOCK"
	AssetClassCrypto AssetClass = "CRYPTO"
	AssetClassETF    AssetClass = "ETF"
)

// Valid reports whether the asset class is one of the known values
func (a AssetClass) Valid() bool {
	switch a {
	case AssetClassStock, AssetClassCrypto, AssetClassETF:
		return true
	}
	return false
}

// Recommendation is the final buy/hold/sell label
type Recommendation string

const (
	RecommendationStrongBuy  Recommendation = "STRONG_BUY"
	RecommendationBuy        Recommendation = "BUY"
	RecommendationHold       Recommendation = "HOLD"
	RecommendationSell       Recommendation = "SELL"
	RecommendationStrongSell Recommendation = "STRONG_SELL"
)

// ConfidenceLevel classifies how much the component scores agree
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// Signal is the per-component directional label
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalHold Signal = "HOLD"
	SignalSell Signal = "SELL"
)

// PriceBar represents one OHLCV bar.
// Bars arrive strictly ascending by timestamp. High >= Low is assumed;
// Close inside [Low, High] is not enforced because upstream data may
// violate it, and the engine must tolerate that.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// FundamentalMetrics maps ratio names to values. Absent keys mean
// "no data", never zero. Unknown keys are ignored by the scorer.
type FundamentalMetrics map[string]float64

// Well-known fundamental ratio keys
const (
	MetricForwardPE       = "forward_pe"
	MetricDividendYield   = "dividend_yield"
	MetricCurrentRatio    = "current_ratio"
	MetricDebtToEquity    = "debt_to_equity"
	MetricOperatingMargin = "operating_margin"
	MetricReturnOnEquity  = "return_on_equity"
)

// HeadlineScore is a headline already classified by the external
// sentiment model. PolarityScore is in [0, 1].
type HeadlineScore struct {
	Text          string  `json:"text"`
	PolarityLabel string  `json:"polarity_label"`
	PolarityScore float64 `json:"polarity_score"`
}

// MarketContext carries the caller-supplied context that drives weight
// selection and the volatility warning. VolatilityIndex is external
// metadata (e.g. VIX); the engine never computes it.
type MarketContext struct {
	AssetClass         AssetClass `json:"asset_class"`
	HasAnalystCoverage bool       `json:"has_analyst_coverage"`
	VolatilityIndex    *float64   `json:"volatility_index,omitempty"`
}

// ScoreBreakdown shows how the total score was assembled.
// Invariant: TotalScore == TechnicalWeight*TechnicalScore +
// FundamentalWeight*FundamentalScore + SentimentWeight*SentimentScore
// within floating tolerance; all four scores lie in [0, 1].
type ScoreBreakdown struct {
	TechnicalScore    float64 `json:"technical_score"`
	FundamentalScore  float64 `json:"fundamental_score"`
	SentimentScore    float64 `json:"sentiment_score"`
	TechnicalWeight   float64 `json:"technical_weight"`
	FundamentalWeight float64 `json:"fundamental_weight"`
	SentimentWeight   float64 `json:"sentiment_weight"`
	TotalScore        float64 `json:"total_score"`
	HeadlineCount     int     `json:"headline_count"`
}

// RecommendationResult is the single scoring record returned per call.
// Constructed once, never mutated; list fields may be empty but are
// never nil when serialized.
type RecommendationResult struct {
	Symbol          string          `json:"symbol"`
	Recommendation  Recommendation  `json:"recommendation"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	Warnings        []string        `json:"warnings"`
	Explanation     string          `json:"explanation"`
	ScoreBreakdown  ScoreBreakdown  `json:"score_breakdown"`
	MarketContext   MarketContext   `json:"market_context"`
	GeneratedAt     time.Time       `json:"generated_at"`
}
