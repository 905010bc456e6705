// Package forecast projects forward-looking FX rates from a synthetic
// historical series and its technical indicators.
package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fxpredict/internal/calculate"
	"fxpredict/internal/rates"
	"fxpredict/models"
)

// Projection parameters. Named here rather than inlined so boundary behavior
// can be asserted in tests.
const (
	// LatestWeight blends the latest observed rate against the short
	// moving average when forming the projection base.
	LatestWeight = 0.7

	// TrendNudge is the per-day directional factor applied for an UP or
	// DOWN trend; FLAT applies no nudge.
	TrendNudge = 0.001

	// RSIOverbought / RSIOversold bound the zone outside which the RSI
	// pushes back against the trend factor.
	RSIOverbought = 70.0
	RSIOversold   = 30.0
	// RSIAdjust is the counter-nudge applied outside that zone.
	RSIAdjust = 0.002

	// VolatilityBound limits the random per-day perturbation; the bound
	// widens with the day offset by UncertaintyGrowth per day.
	VolatilityBound   = 0.005
	UncertaintyGrowth = 0.002

	// Confidence follows a linear decay from ConfidenceCeiling by
	// ConfidenceDecay per day, never dropping below ConfidenceFloor.
	ConfidenceCeiling = 0.85
	ConfidenceDecay   = 0.02
	ConfidenceFloor   = 0.60

	// MaxHorizonDays bounds how far ahead a forecast may reach.
	MaxHorizonDays = 10
)

// Engine turns a pair and horizon into a multi-day forecast. It is stateless
// across requests: every call draws from a freshly seeded random source, so
// concurrent forecasts never contend on shared generator state.
type Engine struct {
	gen    *rates.Generator
	cfg    *models.Config
	logger zerolog.Logger
	seed   func() int64
}

func NewEngine(gen *rates.Generator, cfg *models.Config) *Engine {
	return &Engine{
		gen:    gen,
		cfg:    cfg,
		logger: log.With().Str("component", "forecast_engine").Logger(),
		seed:   timeSeed(),
	}
}

// WithFixedSeed pins the per-request seed, making forecasts reproducible.
// Intended for tests.
func (e *Engine) WithFixedSeed(seed int64) *Engine {
	e.seed = func() int64 { return seed }
	return e
}

// Forecast projects horizonDays of rates for the pair. ModeSingle forces a
// one-day horizon regardless of horizonDays; ModeMulti accepts 1..10.
func (e *Engine) Forecast(pair models.CurrencyPair, horizonDays int, mode models.ForecastMode) (*models.ForecastResult, error) {
	if mode == models.ModeSingle {
		horizonDays = 1
	}
	if horizonDays < 1 || horizonDays > MaxHorizonDays {
		return nil, fmt.Errorf("horizon %d: %w", horizonDays, models.ErrInvalidHorizon)
	}

	rng := rand.New(rand.NewSource(e.seed()))

	series, err := e.gen.Generate(pair, e.cfg.HistoryDays, rng)
	if err != nil {
		return nil, fmt.Errorf("generating base series: %w", err)
	}

	indicators, err := calculate.Compute(series)
	if err != nil {
		return nil, fmt.Errorf("computing indicators: %w", err)
	}

	latest := series.Last()
	base := LatestWeight*latest + (1-LatestWeight)*indicators.MAShort
	factor := trendFactor(indicators)

	now := time.Now()
	points := make([]models.ForecastPoint, 0, horizonDays)
	for day := 1; day <= horizonDays; day++ {
		uncertainty := 1 + float64(day)*UncertaintyGrowth
		volatility := (rng.Float64()*2 - 1) * VolatilityBound * uncertainty
		predicted := base * math.Pow(factor, float64(day)) * (1 + volatility)

		points = append(points, models.ForecastPoint{
			Day:           day,
			Date:          now.AddDate(0, 0, day).Format("2006-01-02"),
			PredictedRate: predicted,
			Change:        predicted - latest,
			ChangePercent: (predicted - latest) / latest * 100,
			Confidence:    confidence(day),
		})
	}

	result := &models.ForecastResult{
		ID:          uuid.NewString(),
		Pair:        pair,
		Horizon:     horizonDays,
		CurrentRate: latest,
		GeneratedAt: now,
		Points:      points,
		Indicators:  indicators,
	}

	e.logger.Debug().
		Str("pair", pair.String()).
		Int("horizon", horizonDays).
		Str("trend", string(indicators.Trend)).
		Float64("rsi", indicators.RSI).
		Msg("forecast generated")

	return result, nil
}

// trendFactor derives the per-day multiplicative drift from the trend label,
// with the RSI pushing back when the series looks overbought or oversold.
func trendFactor(ind models.IndicatorSet) float64 {
	factor := 1.0
	switch ind.Trend {
	case models.TrendUp:
		factor = 1 + TrendNudge
	case models.TrendDown:
		factor = 1 - TrendNudge
	}

	if ind.RSI > RSIOverbought {
		factor *= 1 - RSIAdjust
	} else if ind.RSI < RSIOversold {
		factor *= 1 + RSIAdjust
	}
	return factor
}

// confidence decays linearly with the day offset and clamps to the floor, so
// it is non-increasing across any forecast.
func confidence(day int) float64 {
	c := ConfidenceCeiling - ConfidenceDecay*float64(day)
	if c < ConfidenceFloor {
		return ConfidenceFloor
	}
	return c
}

// timeSeed returns a seed source that never repeats even when two requests
// land on the same nanosecond.
func timeSeed() func() int64 {
	var counter int64
	return func() int64 {
		return time.Now().UnixNano() + atomic.AddInt64(&counter, 1)
	}
}
