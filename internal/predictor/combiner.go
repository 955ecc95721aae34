package predictor

import (
	"math"
	"time"

	"MarketPredictor/internal/model"
)

// Default blending policy. Overridable through config, never hard-coded at
// call sites.
const (
	DefaultTechnicalWeight   = 0.75
	DefaultSentimentWeight   = 0.25
	DefaultMaxMagnitude      = 4.0 // percent
	DefaultConfidenceFloor   = 60.0
	DefaultConfidenceCeiling = 90.0
	DefaultDeadBand          = 0.01
)

// magnitudeScale maps the combined [-1,1] score onto a percentage move.
const magnitudeScale = 4.0

// volatilityPenalty is the maximum confidence reduction a fully volatile
// market applies before the floor clamp.
const volatilityPenalty = 0.3

// Combiner blends a technical composite and a weighted sentiment score into
// a directional prediction.
type Combiner struct {
	TechnicalWeight   float64
	SentimentWeight   float64
	MaxMagnitude      float64
	ConfidenceFloor   float64
	ConfidenceCeiling float64
	DeadBand          float64
}

// NewCombiner returns a Combiner with the default policy.
func NewCombiner() *Combiner {
	return &Combiner{
		TechnicalWeight:   DefaultTechnicalWeight,
		SentimentWeight:   DefaultSentimentWeight,
		MaxMagnitude:      DefaultMaxMagnitude,
		ConfidenceFloor:   DefaultConfidenceFloor,
		ConfidenceCeiling: DefaultConfidenceCeiling,
		DeadBand:          DefaultDeadBand,
	}
}

// Combine produces the prediction for one tracked index. Passing a nil
// sentiment summary (news analysis disabled or unavailable) zeroes the
// sentiment weight and renormalizes onto the technical score alone.
func (c *Combiner) Combine(tech model.TechnicalScore, sent *model.SentimentSummary, market string) model.Prediction {
	techWeight, sentWeight := c.TechnicalWeight, c.SentimentWeight
	sentScore := 0.0
	reduced := tech.Partial

	if sent == nil {
		sentWeight = 0
	} else {
		sentScore = sent.Weighted
		if sent.LowConfidence {
			reduced = true
		}
	}

	raw := 0.0
	if total := techWeight + sentWeight; total > 0 {
		raw = (techWeight*sanitize(tech.Composite) + sentWeight*sanitize(sentScore)) / total
	}
	raw = clamp(raw, -1, 1)

	move := clamp(raw*magnitudeScale, -c.MaxMagnitude, c.MaxMagnitude)

	direction := model.DirectionNeutral
	switch {
	case raw > c.DeadBand:
		direction = model.DirectionUp
	case raw < -c.DeadBand:
		direction = model.DirectionDown
	}

	strength := math.Min(math.Abs(raw), 1)
	strength *= 1 - volatilityPenalty*clamp(tech.Volatility, 0, 1)
	if reduced {
		strength *= 0.5
	}
	confidence := c.ConfidenceFloor + strength*(c.ConfidenceCeiling-c.ConfidenceFloor)
	confidence = clamp(confidence, c.ConfidenceFloor, c.ConfidenceCeiling)

	return model.Prediction{
		Symbol:            tech.Symbol,
		Market:            market,
		Direction:         direction,
		Magnitude:         math.Abs(move),
		Confidence:        confidence,
		TechnicalScore:    sanitize(tech.Composite),
		SentimentScore:    sentScore,
		CombinedScore:     raw,
		ReducedConfidence: reduced,
		CreatedAt:         time.Now(),
	}
}

// sanitize guards against NaN/Inf inputs leaking into the blend.
func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, -1, 1)
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
