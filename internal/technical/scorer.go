package technical

import (
	"MarketPredictor/internal/calculator"
	"MarketPredictor/internal/model"
)

// Indicator lookback windows.
const (
	RSIPeriod        = 14
	ShortMAWindow    = 10
	LongMAWindow     = 50
	MomentumPeriod   = 10
	VolatilityWindow = 20
)

// Reference composite weighting. Volatility carries its own weight but is
// excluded from the directional composite (it only scales confidence), so
// the remaining weights are renormalized to sum to 1.
const (
	RSIWeight        = 0.25
	MAWeight         = 0.25
	MomentumWeight   = 0.15
	VolatilityWeight = 0.10
)

// Saturation points mapping raw readings onto the [-1, 1] signal range.
const (
	maSaturation       = 0.05 // 5% short/long MA spread is a full signal
	momentumSaturation = 0.10 // 10% move over the lookback is a full signal
	volSaturation      = 0.02 // 2% daily return stddev counts as fully volatile
)

// Score computes all indicator signals for a price series and blends them
// into one composite. A series shorter than the lookback windows still
// produces a score: missing indicators stay neutral and Partial is set so
// downstream confidence is reduced.
func Score(series *model.PriceSeries) model.TechnicalScore {
	closes := series.Closes()
	score := model.TechnicalScore{Symbol: series.Symbol, RSI: 50}

	if rsi, err := calculator.CalculateRSI(closes, RSIPeriod); err == nil {
		score.RSI = rsi
	} else {
		score.Partial = true
	}
	if len(closes) < RSIPeriod+1 {
		score.Partial = true
	}
	score.RSISignal = (score.RSI - 50) / 50

	shortMA, errShort := calculator.CalculateSMA(closes, ShortMAWindow)
	longMA, errLong := calculator.CalculateSMA(closes, LongMAWindow)
	if errShort == nil && errLong == nil && longMA != 0 {
		score.MASignal = clamp((shortMA-longMA)/longMA/maSaturation, -1, 1)
	} else {
		score.Partial = true
	}

	if mom, err := calculator.CalculateMomentum(closes, MomentumPeriod); err == nil {
		score.Momentum = clamp(mom/momentumSaturation, -1, 1)
	} else {
		score.Partial = true
	}

	if vol, err := calculator.CalculateVolatility(closes, VolatilityWindow); err == nil {
		score.Volatility = clamp(vol/volSaturation, 0, 1)
	} else {
		score.Partial = true
	}

	directionalWeight := RSIWeight + MAWeight + MomentumWeight
	score.Composite = clamp(
		(RSIWeight*score.RSISignal+MAWeight*score.MASignal+MomentumWeight*score.Momentum)/directionalWeight,
		-1, 1)

	return score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
