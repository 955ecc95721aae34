package collector

import (
	"context"
	"fmt"

	"MarketPredictor/internal/model"
)

// Fetcher retrieves the daily close-price history for one symbol.
type Fetcher interface {
	FetchDailySeries(ctx context.Context, symbol string, days int) (*model.PriceSeries, error)
	// Provider is the quota-tracking key for the backing API.
	Provider() string
	Name() string
}

// FetchError marks a per-index fetch failure. It is recoverable for the run:
// the affected index is skipped, the others continue.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
