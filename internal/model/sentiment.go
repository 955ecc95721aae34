package model

import "time"

// NewsSource is a static descriptor for one configured news provider.
type NewsSource struct {
	Name      string
	Weight    float64
	Items     int
	ItemDelay time.Duration
}

// SourceResult is the aggregated sentiment for a single source.
type SourceResult struct {
	Source         string
	Sentiment      float64 // average item sentiment, -1 ~ 1
	Weight         float64
	ItemsProcessed int
	Failed         bool
	Elapsed        time.Duration
}

// SentimentSummary combines all per-source results into one weighted score.
// Weighted is only valid once every configured source has been visited.
type SentimentSummary struct {
	Weighted      float64 // -1 ~ 1
	Sources       []SourceResult
	SourcesFailed int
	LowConfidence bool // set when every source failed
	Elapsed       time.Duration
}
