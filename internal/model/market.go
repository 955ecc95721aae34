package model

import "time"

// TrackedIndex pairs a display name with the provider symbol used to fetch it.
type TrackedIndex struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// PriceBar is a single (timestamp, close) observation.
type PriceBar struct {
	Time  time.Time
	Close float64
}

// PriceSeries holds the close-price history for one tracked index,
// oldest bar first. Fetched fresh each run.
type PriceSeries struct {
	Symbol    string
	Bars      []PriceBar
	FetchedAt time.Time
}

// Closes returns the close prices in chronological order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}
