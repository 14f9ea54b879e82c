package scoring

import (
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/advisor/internal/domain"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func uptrendBars(n int) []domain.PriceBar {
	bars := make([]domain.PriceBar, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		price *= 1.008
		dip := math.Sin(float64(i)/5) * 1.5
		c := price + dip
		bars[i] = domain.PriceBar{
			Timestamp: start.AddDate(0, 0, i),
			Open:      c * 0.997,
			High:      c * 1.012,
			Low:       c * 0.989,
			Close:     c,
			Volume:    50000 + float64(i%7)*1000,
		}
	}
	return bars
}

func TestScoreEndToEndUptrend(t *testing.T) {
	engine := testEngine(t)

	vix := 14.0
	res := engine.Score(AnalysisInput{
		Symbol: "ACME",
		Bars:   uptrendBars(90),
		Fundamentals: domain.FundamentalMetrics{
			domain.MetricOperatingMargin: 0.18,
			domain.MetricDebtToEquity:    60,
			domain.MetricCurrentRatio:    1.8,
		},
		Headlines: []domain.HeadlineScore{
			{Text: "ACME beats estimates", PolarityLabel: "positive", PolarityScore: 0.9},
			{Text: "Analysts raise targets", PolarityLabel: "positive", PolarityScore: 0.8},
		},
		Context: domain.MarketContext{
			AssetClass:         domain.AssetClassStock,
			HasAnalystCoverage: false,
			VolatilityIndex:    &vix,
		},
	})

	if res.Symbol != "ACME" {
		t.Errorf("symbol = %q, want ACME", res.Symbol)
	}

	b := res.ScoreBreakdown
	for name, s := range map[string]float64{
		"technical":   b.TechnicalScore,
		"fundamental": b.FundamentalScore,
		"sentiment":   b.SentimentScore,
		"total":       b.TotalScore,
	} {
		if s < 0 || s > 1 {
			t.Errorf("%s score = %v, outside [0, 1]", name, s)
		}
	}

	want := b.TechnicalWeight*b.TechnicalScore +
		b.FundamentalWeight*b.FundamentalScore +
		b.SentimentWeight*b.SentimentScore
	if math.Abs(b.TotalScore-want) > 1e-9 {
		t.Errorf("total = %v, want weighted sum %v", b.TotalScore, want)
	}

	// Three factors present and no analyst coverage: balanced blend
	if b.TechnicalWeight != 0.65 || b.FundamentalWeight != 0.25 || b.SentimentWeight != 0.10 {
		t.Errorf("weights = %v/%v/%v, want 0.65/0.25/0.10",
			b.TechnicalWeight, b.FundamentalWeight, b.SentimentWeight)
	}

	if b.HeadlineCount != 2 {
		t.Errorf("headline count = %d, want 2", b.HeadlineCount)
	}
	if res.Warnings == nil {
		t.Error("warnings must never be nil")
	}
	if res.Explanation == "" {
		t.Error("explanation must not be empty")
	}
}

func TestScoreInsufficientHistory(t *testing.T) {
	engine := testEngine(t)

	res := engine.Score(AnalysisInput{
		Symbol:  "NEWCO",
		Bars:    uptrendBars(3),
		Context: domain.MarketContext{AssetClass: domain.AssetClassStock},
	})

	// Below the minimum bar count the technical leg is exactly neutral
	if res.ScoreBreakdown.TechnicalScore != 0.5 {
		t.Errorf("technical score = %v, want the neutral 0.5", res.ScoreBreakdown.TechnicalScore)
	}
}

func TestScoreEmptyInputIsNeutralHold(t *testing.T) {
	engine := testEngine(t)

	res := engine.Score(AnalysisInput{
		Symbol:  "GHOST",
		Context: domain.MarketContext{AssetClass: domain.AssetClassStock},
	})

	// No bars, no fundamentals, no headlines: momentum blend over two
	// neutral components
	b := res.ScoreBreakdown
	if b.TotalScore != 0.5 {
		t.Errorf("total = %v, want 0.5", b.TotalScore)
	}
	if res.Recommendation != domain.RecommendationHold {
		t.Errorf("recommendation = %v, want HOLD", res.Recommendation)
	}
	if b.HeadlineCount != 0 {
		t.Errorf("headline count = %d, want 0", b.HeadlineCount)
	}
}

func TestScoreDeterministic(t *testing.T) {
	engine := testEngine(t)

	in := AnalysisInput{
		Symbol:       "ACME",
		Bars:         uptrendBars(60),
		Fundamentals: domain.FundamentalMetrics{domain.MetricOperatingMargin: 0.12},
		Headlines:    []domain.HeadlineScore{{Text: "x", PolarityScore: 0.7}},
		Context:      domain.MarketContext{AssetClass: domain.AssetClassStock},
	}

	a := engine.Score(in)
	b := engine.Score(in)

	a.GeneratedAt = time.Time{}
	b.GeneratedAt = time.Time{}
	if !reflect.DeepEqual(a, b) {
		t.Error("two scoring calls over identical input differ")
	}
}

func TestScoreConcurrentCallsAgree(t *testing.T) {
	engine := testEngine(t)

	in := AnalysisInput{
		Symbol:       "ACME",
		Bars:         uptrendBars(90),
		Fundamentals: domain.FundamentalMetrics{domain.MetricReturnOnEquity: 0.22},
		Headlines:    []domain.HeadlineScore{{Text: "x", PolarityScore: 0.3}},
		Context:      domain.MarketContext{AssetClass: domain.AssetClassStock},
	}

	reference := engine.Score(in)
	reference.GeneratedAt = time.Time{}

	const workers = 16
	results := make([]domain.RecommendationResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = engine.Score(in)
		}(i)
	}
	wg.Wait()

	for i := range results {
		results[i].GeneratedAt = time.Time{}
		if !reflect.DeepEqual(results[i], reference) {
			t.Fatalf("concurrent result %d differs from sequential reference", i)
		}
	}
}

func TestNewEngineRejectsBrokenConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Momentum = WeightProfile{Technical: 0.7, Fundamental: 0.1, Sentiment: 0.1}

	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Error("expected error for weight profile not summing to 1.0")
	}
}
