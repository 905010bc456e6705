// Package calculate derives technical indicators from a rate series.
// Everything here is a pure function of its input: no state is kept between
// calls and nothing is cached.
package calculate

import (
	"fxpredict/models"
)

const (
	// ShortWindow and LongWindow are the moving-average periods.
	ShortWindow = 5
	LongWindow  = 10
	// RSIPeriod is the trailing delta window for the RSI.
	RSIPeriod = 14
	// TrendThreshold is the dead-band, as a fraction of the long average,
	// inside which the trend classifies as FLAT.
	TrendThreshold = 0.0005
)

// Compute derives the indicator set for a series. A series shorter than an
// indicator window is not an error: each indicator falls back to the largest
// available window, trading precision for availability. Only an empty
// series fails, with ErrInsufficientData.
func Compute(series models.RateSeries) (models.IndicatorSet, error) {
	if len(series) == 0 {
		return models.IndicatorSet{}, models.ErrInsufficientData
	}

	rates := series.Rates()
	maShort := tailAverage(rates, ShortWindow)
	maLong := tailAverage(rates, LongWindow)

	return models.IndicatorSet{
		MAShort: maShort,
		MALong:  maLong,
		RSI:     rsi(rates, RSIPeriod),
		Trend:   classifyTrend(maShort, maLong),
	}, nil
}

// tailAverage is the arithmetic mean of the last window values, or of the
// whole slice when it is shorter than the window.
func tailAverage(values []float64, window int) float64 {
	if len(values) > window {
		values = values[len(values)-window:]
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// rsi computes the relative strength index over the trailing period deltas:
// average gain / (average gain + average loss), scaled to 0-100. With no
// losses in the window it saturates at 100; with no gains it floors at 0.
func rsi(rates []float64, period int) float64 {
	if len(rates) < 2 {
		return 50.0 // a single point has no deltas; neutral by convention
	}

	deltas := len(rates) - 1
	if deltas > period {
		rates = rates[len(rates)-period-1:]
		deltas = period
	}

	var gains, losses float64
	for i := 1; i < len(rates); i++ {
		change := rates[i] - rates[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(deltas)
	avgLoss := losses / float64(deltas)
	if avgGain+avgLoss == 0 {
		return 50.0 // perfectly flat window
	}

	value := 100.0 * avgGain / (avgGain + avgLoss)
	if value > 100.0 {
		return 100.0
	}
	if value < 0.0 {
		return 0.0
	}
	return value
}

// classifyTrend compares the two moving averages with a dead-band so that
// noise-level differences read as FLAT.
func classifyTrend(maShort, maLong float64) models.Trend {
	band := maLong * TrendThreshold
	switch {
	case maShort > maLong+band:
		return models.TrendUp
	case maShort < maLong-band:
		return models.TrendDown
	default:
		return models.TrendFlat
	}
}
