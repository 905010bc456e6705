// Package rates produces synthetic historical price series for supported
// currency pairs. No external data source is consulted: each series is a
// bounded random walk around a fixed, plausible baseline per pair.
package rates

import (
	"fmt"
	"math/rand"

	"fxpredict/models"
)

// Baseline spot rates per pair. The walk stays within a few percent of
// these, so generated series always look like the pair they belong to.
var baseRates = map[models.CurrencyPair]float64{
	models.USDJPY: 150.0,
	models.EURJPY: 160.0,
	models.EURUSD: 1.08,
}

const (
	// spotJitter bounds the deviation of the simulated current rate from
	// the pair baseline.
	spotJitter = 0.02
	// walkNoise bounds the day-over-day perturbation of the walk.
	walkNoise = 0.01
)

// Generator builds rate series from per-request random sources. It holds no
// mutable state and is safe for concurrent use.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Spot returns a simulated current rate for the pair: the baseline with a
// bounded random deviation.
func (g *Generator) Spot(pair models.CurrencyPair, rng *rand.Rand) (float64, error) {
	base, ok := baseRates[pair]
	if !ok {
		return 0, fmt.Errorf("pair %q: %w", pair, models.ErrInvalidPair)
	}
	return base * (1 + uniform(rng, spotJitter)), nil
}

// Generate produces a series of exactly lengthDays points with day offsets
// 1..lengthDays. The walk starts from a jittered spot rate and perturbs the
// previous point by at most walkNoise each day.
func (g *Generator) Generate(pair models.CurrencyPair, lengthDays int, rng *rand.Rand) (models.RateSeries, error) {
	if lengthDays < 1 {
		return nil, fmt.Errorf("lengthDays %d: %w", lengthDays, models.ErrInvalidLength)
	}

	rate, err := g.Spot(pair, rng)
	if err != nil {
		return nil, err
	}

	series := make(models.RateSeries, 0, lengthDays)
	for day := 1; day <= lengthDays; day++ {
		rate *= 1 + uniform(rng, walkNoise)
		series = append(series, models.PricePoint{Day: day, Rate: rate})
	}
	return series, nil
}

// uniform draws from [-bound, +bound).
func uniform(rng *rand.Rand, bound float64) float64 {
	return (rng.Float64()*2 - 1) * bound
}
