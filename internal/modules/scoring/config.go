package scoring

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finsight/advisor/internal/modules/indicators"
	"github.com/finsight/advisor/internal/modules/scoring/scorers"
)

// weightTolerance is the permitted deviation of a profile sum from 1.0
const weightTolerance = 1e-9

// WeightProfile is one blend of the three component scores.
// Weights must sum to 1.0; a profile that does not is a configuration
// bug, not bad market data, and is rejected loudly at load time.
type WeightProfile struct {
	Technical   float64 `yaml:"technical" json:"technical"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
	Sentiment   float64 `yaml:"sentiment" json:"sentiment"`
}

// Sum returns the total of the three weights
func (p WeightProfile) Sum() float64 {
	return p.Technical + p.Fundamental + p.Sentiment
}

// WeightTable holds the three context-dependent blends
type WeightTable struct {
	// Analyst weighs fundamentals heaviest, used when analyst or
	// fundamental coverage is strong
	Analyst WeightProfile `yaml:"analyst"`
	// Momentum weighs technicals almost exclusively, used for crypto
	// and other names without usable fundamentals
	Momentum WeightProfile `yaml:"momentum"`
	// Balanced is the default three-factor blend
	Balanced WeightProfile `yaml:"balanced"`
}

// LabelThresholds maps the blended score to a recommendation label
type LabelThresholds struct {
	StrongBuy  float64 `yaml:"strong_buy"`  // total >= -> STRONG_BUY
	Buy        float64 `yaml:"buy"`         // total >  -> BUY
	Sell       float64 `yaml:"sell"`        // total <  -> SELL
	StrongSell float64 `yaml:"strong_sell"` // total <= -> STRONG_SELL
}

// ConfidenceBands classifies component-score spread into confidence
// levels: spread < High is HIGH, spread <= Medium is MEDIUM (boundary
// inclusive), anything wider is LOW.
type ConfidenceBands struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
}

// WarningRules holds the thresholds that trigger advisory warnings
type WarningRules struct {
	// WeakComponent: any used component below this is called out
	WeakComponent float64 `yaml:"weak_component"`
	// SingleFactorTotal/Others: a total above the first while all but
	// one component sit below the second means one factor carries the
	// whole result
	SingleFactorTotal  float64 `yaml:"single_factor_total"`
	SingleFactorOthers float64 `yaml:"single_factor_others"`
	// DisagreementSpread: two used components further apart than this
	// disagree materially
	DisagreementSpread float64 `yaml:"disagreement_spread"`
	// ElevatedVolatility: a caller-supplied volatility index strictly
	// above this is flagged as a volatile market context
	ElevatedVolatility float64 `yaml:"elevated_volatility"`
}

// Config is the full scoring configuration. Loaded once at startup and
// read-only for the lifetime of the process.
type Config struct {
	Weights      WeightTable                    `yaml:"weights"`
	Labels       LabelThresholds                `yaml:"labels"`
	Confidence   ConfidenceBands                `yaml:"confidence"`
	Warnings     WarningRules                   `yaml:"warnings"`
	Technical    scorers.TechnicalRules         `yaml:"technical"`
	Fundamentals scorers.FundamentalThresholds  `yaml:"fundamentals"`
	Indicators   indicators.Config              `yaml:"indicators"`
}

// DefaultConfig returns the standard configuration
func DefaultConfig() Config {
	return Config{
		Weights: WeightTable{
			Analyst:  WeightProfile{Technical: 0.30, Fundamental: 0.50, Sentiment: 0.20},
			Momentum: WeightProfile{Technical: 0.90, Fundamental: 0, Sentiment: 0.10},
			Balanced: WeightProfile{Technical: 0.65, Fundamental: 0.25, Sentiment: 0.10},
		},
		Labels: LabelThresholds{
			StrongBuy:  0.70,
			Buy:        0.60,
			Sell:       0.40,
			StrongSell: 0.30,
		},
		Confidence: ConfidenceBands{
			High:   0.2,
			Medium: 0.4,
		},
		Warnings: WarningRules{
			WeakComponent:      0.3,
			SingleFactorTotal:  0.8,
			SingleFactorOthers: 0.5,
			DisagreementSpread: 0.4,
			ElevatedVolatility: 25,
		},
		Technical:    scorers.DefaultTechnicalRules(),
		Fundamentals: scorers.DefaultFundamentalThresholds(),
		Indicators:   indicators.DefaultConfig(),
	}
}

// LoadConfig reads a YAML file over the defaults. A missing path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read scoring config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse scoring config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects configurations that would corrupt scoring
func (c Config) Validate() error {
	profiles := map[string]WeightProfile{
		"analyst":  c.Weights.Analyst,
		"momentum": c.Weights.Momentum,
		"balanced": c.Weights.Balanced,
	}
	for name, p := range profiles {
		if math.Abs(p.Sum()-1.0) > weightTolerance {
			return fmt.Errorf("weight profile %q sums to %v, must be 1.0", name, p.Sum())
		}
		if p.Technical < 0 || p.Fundamental < 0 || p.Sentiment < 0 {
			return fmt.Errorf("weight profile %q has a negative weight", name)
		}
	}

	if c.Labels.StrongBuy < c.Labels.Buy || c.Labels.Sell < c.Labels.StrongSell {
		return fmt.Errorf("label thresholds are not ordered")
	}
	if c.Confidence.High > c.Confidence.Medium {
		return fmt.Errorf("confidence bands are not ordered")
	}

	return nil
}
