package recorder

import (
	"time"

	"MarketPredictor/internal/model"
)

// RunRecord summarizes one coordinator run for the history log.
type RunRecord struct {
	StartedAt   time.Time
	Duration    time.Duration
	Status      string // "complete", "error", "cancelled"
	Error       string
	Predictions []model.Prediction
}

// PredictionRow is one persisted prediction, as returned by history queries.
type PredictionRow struct {
	Timestamp      time.Time `json:"timestamp"`
	Symbol         string    `json:"symbol"`
	Market         string    `json:"market"`
	Direction      string    `json:"direction"`
	Magnitude      float64   `json:"magnitude"`
	Confidence     float64   `json:"confidence"`
	TechnicalScore float64   `json:"technical_score"`
	SentimentScore float64   `json:"sentiment_score"`
	CombinedScore  float64   `json:"combined_score"`
}

// Recorder persists run and prediction history for later analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecentPredictions(hours int) ([]PredictionRow, error)
	Close() error
}
