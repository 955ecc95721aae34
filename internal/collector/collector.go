package collector

import (
	"context"
	"log"
	"time"

	"MarketPredictor/internal/model"
	"MarketPredictor/internal/quota"
)

// DefaultLookbackDays covers the longest indicator window with margin.
const DefaultLookbackDays = 100

// DefaultInterCallDelay keeps successive calls under the provider's
// 5-per-minute ceiling.
const DefaultInterCallDelay = 12 * time.Second

// Collector fetches the price series for every tracked index, reserving
// quota before each call and pacing calls to the same provider.
type Collector struct {
	Fetcher        Fetcher
	Quota          *quota.Tracker
	LookbackDays   int
	InterCallDelay time.Duration
}

// NewCollector creates a Collector with default lookback and pacing.
func NewCollector(fetcher Fetcher, tracker *quota.Tracker) *Collector {
	return &Collector{
		Fetcher:        fetcher,
		Quota:          tracker,
		LookbackDays:   DefaultLookbackDays,
		InterCallDelay: DefaultInterCallDelay,
	}
}

// CollectAll fetches one series per tracked index, sequentially. Per-index
// failures land in the returned error map and do not stop the remaining
// indices. Quota exhaustion or context cancellation aborts immediately and
// is returned as the third value.
func (c *Collector) CollectAll(ctx context.Context, indices []model.TrackedIndex) (map[string]*model.PriceSeries, map[string]error, error) {
	series := make(map[string]*model.PriceSeries, len(indices))
	failures := make(map[string]error)

	for i, idx := range indices {
		if i > 0 {
			if err := waitCtx(ctx, c.InterCallDelay); err != nil {
				return nil, nil, err
			}
		}

		if err := c.Quota.Reserve(c.Fetcher.Provider()); err != nil {
			return nil, nil, err
		}

		s, err := c.Fetcher.FetchDailySeries(ctx, idx.Symbol, c.LookbackDays)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			log.Printf("[WARN] fetch failed for %s (%s): %v, skipping index", idx.Name, idx.Symbol, err)
			failures[idx.Symbol] = &FetchError{Symbol: idx.Symbol, Err: err}
			continue
		}
		log.Printf("[INFO] fetched %d bars for %s (%s)", len(s.Bars), idx.Name, idx.Symbol)
		series[idx.Symbol] = s
	}
	return series, failures, nil
}

func waitCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
