package indicators

// Config holds calculator settings. Loaded once at startup and treated
// as read-only afterwards.
type Config struct {
	// MinDataPoints is the hard floor below which no snapshot is
	// produced at all.
	MinDataPoints int `yaml:"min_data_points"`

	// Extended enables the extra indicators (VWAP and Ichimoku) on top
	// of the base set. One calculator, one code path; the flag only
	// controls whether the extra series are filled in.
	Extended bool `yaml:"extended"`

	// BollingerStdDevs is the width of the Bollinger envelope in
	// rolling standard deviations.
	BollingerStdDevs float64 `yaml:"bollinger_std_devs"`
}

// DefaultConfig returns the standard calculator settings
func DefaultConfig() Config {
	return Config{
		MinDataPoints:    5,
		Extended:         true,
		BollingerStdDevs: 2.0,
	}
}

// Windows holds the effective indicator windows for one calculation.
// Every window adapts to the available history so short series still
// produce some signal, floored at a hard minimum and capped at the
// traditional default.
type Windows struct {
	SMAShort   int `json:"sma_short"`
	SMALong    int `json:"sma_long"`
	RSI        int `json:"rsi"`
	MACDFast   int `json:"macd_fast"`
	MACDSlow   int `json:"macd_slow"`
	MACDSignal int `json:"macd_signal"`
	Bollinger  int `json:"bollinger"`
	Tenkan     int `json:"tenkan"`
	Kijun      int `json:"kijun"`
	SenkouB    int `json:"senkou_b"`
}

// Traditional Ichimoku periods, scaled down proportionally when the
// series is shorter than the longest span.
const (
	ichimokuTenkanDefault  = 9
	ichimokuKijunDefault   = 26
	ichimokuSenkouBDefault = 52

	ichimokuTenkanFloor = 2
	ichimokuKijunFloor  = 4
)

// WindowsFor derives the effective windows for a series of length n
func WindowsFor(n int) Windows {
	w := Windows{
		SMAShort:   clamp(n/3, 5, 20),
		SMALong:    clamp(n/2, 10, 50),
		RSI:        clamp(n/4, 5, 14),
		MACDFast:   clamp(n/5, 3, 12),
		MACDSlow:   clamp(n/3, 6, 26),
		MACDSignal: clamp(n/6, 3, 9),
		Bollinger:  clamp(n/3, 5, 20),
		Tenkan:     ichimokuTenkanDefault,
		Kijun:      ichimokuKijunDefault,
		SenkouB:    ichimokuSenkouBDefault,
	}

	if n < ichimokuSenkouBDefault {
		w.Tenkan = maxInt(ichimokuTenkanFloor, n*ichimokuTenkanDefault/ichimokuSenkouBDefault)
		w.Kijun = maxInt(ichimokuKijunFloor, n*ichimokuKijunDefault/ichimokuSenkouBDefault)
		w.SenkouB = n
	}

	return w
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
