package models

import (
	"time"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	HistoryDays     int           `env:"HISTORY_DAYS" envDefault:"30"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS" envDefault:"1.7"` // ~100 per minute
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST" envDefault:"20"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// CurrencyPair identifies a supported FX pair, e.g. "USD/JPY".
type CurrencyPair string

const (
	USDJPY CurrencyPair = "USD/JPY"
	EURJPY CurrencyPair = "EUR/JPY"
	EURUSD CurrencyPair = "EUR/USD"
)

// SupportedPairs lists every pair the service accepts, in display order.
var SupportedPairs = []CurrencyPair{USDJPY, EURJPY, EURUSD}

// ParsePair validates a raw pair string against the supported set.
func ParsePair(s string) (CurrencyPair, error) {
	for _, p := range SupportedPairs {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrInvalidPair
}

func (p CurrencyPair) String() string { return string(p) }

// PricePoint is a single simulated daily rate. Day offsets start at 1 and
// are strictly increasing within a series.
type PricePoint struct {
	Day  int     `json:"day"`
	Rate float64 `json:"rate"`
}

// RateSeries is an ordered sequence of price points for one pair.
type RateSeries []PricePoint

// Rates returns the raw rate values in series order.
func (s RateSeries) Rates() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Rate
	}
	return out
}

// Last returns the most recent rate in the series, or 0 for an empty series.
func (s RateSeries) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Rate
}

// Trend labels the relation between the short and long moving averages.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
	TrendFlat Trend = "FLAT"
)

// IndicatorSet holds the indicators derived from a rate series. It is
// recomputed per request and never persisted.
type IndicatorSet struct {
	MAShort float64 `json:"ma5"`
	MALong  float64 `json:"ma10"`
	RSI     float64 `json:"rsi"`
	Trend   Trend   `json:"trend"`
}

// ForecastMode selects between a next-day and a multi-day forecast.
type ForecastMode int

const (
	ModeSingle ForecastMode = iota
	ModeMulti
)

// ForecastPoint is one projected day in a forecast.
type ForecastPoint struct {
	Day           int     `json:"day"`
	Date          string  `json:"date"`
	PredictedRate float64 `json:"predicted_rate"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Confidence    float64 `json:"confidence"`
}

// ForecastResult is an ordered multi-day forecast for a pair, together with
// the indicator set that produced it.
type ForecastResult struct {
	ID          string          `json:"id"`
	Pair        CurrencyPair    `json:"pair"`
	Horizon     int             `json:"horizon"`
	CurrentRate float64         `json:"current_rate"`
	GeneratedAt time.Time       `json:"generated_at"`
	Points      []ForecastPoint `json:"forecasts"`
	Indicators  IndicatorSet    `json:"indicators"`
}
