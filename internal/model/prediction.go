package model

import "time"

// Direction indicates the predicted market move.
type Direction string

const (
	DirectionUp      Direction = "UP"
	DirectionDown    Direction = "DOWN"
	DirectionNeutral Direction = "NEUTRAL"
)

// Prediction is the final forecast for one tracked index. Immutable once
// published; the next run's prediction supersedes it.
type Prediction struct {
	Symbol            string    `json:"symbol"`
	Market            string    `json:"market"`
	Direction         Direction `json:"direction"`
	Magnitude         float64   `json:"magnitude"`  // percent, >= 0, capped
	Confidence        float64   `json:"confidence"` // percent, within [floor, ceiling]
	TechnicalScore    float64   `json:"technical_score"`
	SentimentScore    float64   `json:"sentiment_score"`
	CombinedScore     float64   `json:"combined_score"`
	ReducedConfidence bool      `json:"reduced_confidence"`
	CreatedAt         time.Time `json:"created_at"`
}
