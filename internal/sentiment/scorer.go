package sentiment

import (
	"math/rand"

	"MarketPredictor/internal/model"
)

// ItemScorer derives a sentiment value in [-1, 1] for a single news item.
// Swapping in a real NLP scorer only requires passing a different function
// to NewAggregator; the aggregation logic never changes.
type ItemScorer func(source model.NewsSource, item int) (float64, error)

type sourceProfile struct {
	bias       float64
	volatility float64
}

// Observed per-outlet tendencies used by the simulated scorer.
var sourceProfiles = map[string]sourceProfile{
	"Alpha Vantage News":  {bias: 0.0, volatility: 0.3},
	"Marketaux Financial": {bias: -0.05, volatility: 0.4},
	"Finnhub Sentiment":   {bias: 0.02, volatility: 0.25},
	"Yahoo Finance":       {bias: 0.08, volatility: 0.35},
	"MarketWatch":         {bias: -0.02, volatility: 0.3},
	"Reuters Financial":   {bias: 0.0, volatility: 0.2},
	"Bloomberg Market":    {bias: 0.1, volatility: 0.3},
	"CNBC Market News":    {bias: 0.05, volatility: 0.4},
	"Financial Times":     {bias: -0.03, volatility: 0.25},
	"Wall Street Journal": {bias: 0.02, volatility: 0.3},
}

// SimulatedScorer returns an ItemScorer drawing Gaussian samples around each
// source's bias. Stand-in for real per-provider news scoring APIs.
func SimulatedScorer(seed int64) ItemScorer {
	rng := rand.New(rand.NewSource(seed))
	return func(source model.NewsSource, _ int) (float64, error) {
		profile, ok := sourceProfiles[source.Name]
		if !ok {
			profile = sourceProfile{bias: 0, volatility: 0.3}
		}
		return clamp(rng.NormFloat64()*profile.volatility+profile.bias, -1, 1), nil
	}
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
