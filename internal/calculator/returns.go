package calculator

import (
	"errors"
	"math"
)

// CalculateMomentum returns the fractional price change between the most
// recent close and the close `period` bars back.
func CalculateMomentum(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, errors.New("not enough data for momentum calculation")
	}
	past := closes[len(closes)-1-period]
	if past == 0 {
		return 0, errors.New("zero reference price")
	}
	return (closes[len(closes)-1] - past) / past, nil
}

// CalculateVolatility returns the standard deviation of simple returns over
// the most recent `window` bars.
func CalculateVolatility(closes []float64, window int) (float64, error) {
	if window <= 1 {
		return 0, errors.New("window must be greater than 1")
	}
	if len(closes) < window+1 {
		return 0, errors.New("not enough data for volatility calculation")
	}

	returns := make([]float64, 0, window)
	for i := len(closes) - window; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return 0, errors.New("zero price in series")
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance), nil
}
