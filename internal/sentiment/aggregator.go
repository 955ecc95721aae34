package sentiment

import (
	"context"
	"fmt"
	"log"
	"time"

	"MarketPredictor/internal/model"
)

// ProgressFunc receives item-level progress as aggregation advances.
// `source` is the current source name annotated with the item index.
type ProgressFunc func(processed, total int, source string)

// Aggregator walks the configured sources in their fixed order, scores every
// item, and combines per-source averages into one weighted sentiment score.
type Aggregator struct {
	sources []model.NewsSource
	scorer  ItemScorer

	// DelayScale stretches or shrinks per-item delays. 1.0 in production;
	// tests set 0 so nothing sleeps.
	DelayScale float64
}

// NewAggregator creates an Aggregator over the given sources.
func NewAggregator(sources []model.NewsSource, scorer ItemScorer) *Aggregator {
	return &Aggregator{sources: sources, scorer: scorer, DelayScale: 1.0}
}

// TotalItems is the number of items across all configured sources.
func (a *Aggregator) TotalItems() int {
	total := 0
	for _, s := range a.sources {
		total += s.Items
	}
	return total
}

// Aggregate processes every source and returns the weighted sentiment.
// A source whose scorer fails is excluded from the weighted average (its
// weight leaves the divisor); the run continues. If every source fails the
// result is neutral with LowConfidence set. Only context cancellation
// returns an error.
func (a *Aggregator) Aggregate(ctx context.Context, onProgress ProgressFunc) (*model.SentimentSummary, error) {
	started := time.Now()
	total := a.TotalItems()
	processed := 0

	log.Printf("[INFO] starting sentiment analysis across %d sources (%d items)", len(a.sources), total)

	summary := &model.SentimentSummary{}
	for i, source := range a.sources {
		log.Printf("[INFO] processing sentiment source %d/%d: %s", i+1, len(a.sources), source.Name)
		sourceStart := time.Now()

		result := model.SourceResult{Source: source.Name, Weight: source.Weight}
		sum := 0.0
		for item := 0; item < source.Items; item++ {
			if err := a.wait(ctx, source.ItemDelay); err != nil {
				return nil, err
			}

			value, err := a.scorer(source, item)
			if err != nil {
				log.Printf("[WARN] %s failed on item %d: %v, excluding source", source.Name, item+1, err)
				result.Failed = true
				// The unvisited items still count toward progress so the
				// percentage stays linear in planned work.
				processed += source.Items - item
				break
			}
			sum += clamp(value, -1, 1)
			result.ItemsProcessed++
			processed++
			if onProgress != nil {
				onProgress(processed, total, fmt.Sprintf("%s (item %d/%d)", source.Name, item+1, source.Items))
			}
		}

		if !result.Failed && result.ItemsProcessed > 0 {
			result.Sentiment = sum / float64(result.ItemsProcessed)
		}
		result.Elapsed = time.Since(sourceStart)
		if result.Failed {
			summary.SourcesFailed++
		} else {
			log.Printf("[INFO] completed %s: sentiment=%.4f weight=%.1f items=%d",
				source.Name, result.Sentiment, result.Weight, result.ItemsProcessed)
		}
		summary.Sources = append(summary.Sources, result)
	}

	var weightedSum, totalWeight float64
	for _, r := range summary.Sources {
		if r.Failed {
			continue
		}
		weightedSum += r.Sentiment * r.Weight
		totalWeight += r.Weight
	}
	if totalWeight > 0 {
		summary.Weighted = clamp(weightedSum/totalWeight, -1, 1)
	} else {
		summary.Weighted = 0
		summary.LowConfidence = true
		log.Printf("[WARN] all sentiment sources failed, defaulting to neutral")
	}
	summary.Elapsed = time.Since(started)

	log.Printf("[INFO] sentiment analysis complete: weighted=%.4f from %d/%d sources",
		summary.Weighted, len(summary.Sources)-summary.SourcesFailed, len(summary.Sources))
	return summary, nil
}

func (a *Aggregator) wait(ctx context.Context, d time.Duration) error {
	d = time.Duration(float64(d) * a.DelayScale)
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
