package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"MarketPredictor/internal/collector"
	"MarketPredictor/internal/model"
	"MarketPredictor/internal/predictor"
	"MarketPredictor/internal/progress"
	"MarketPredictor/internal/quota"
	"MarketPredictor/internal/recorder"
	"MarketPredictor/internal/sentiment"
	"MarketPredictor/internal/technical"
)

// ErrRunInFlight is returned when a run is requested while one is executing.
// Runs are never interleaved: progress and quota are single shared records.
var ErrRunInFlight = errors.New("prediction run already in flight")

// Result is the output of one completed run.
type Result struct {
	Predictions map[string]model.Prediction `json:"predictions"` // keyed by symbol
	Technical   map[string]model.TechnicalScore
	Sentiment   *model.SentimentSummary
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
}

// Freshness of the coordinator's published data.
const (
	StateNoData  = "no data yet" // first run never completed
	StateRunning = "running"
	StateStale   = "stale" // a run failed after a prior success
	StateFresh   = "fresh"
)

// Status describes the coordinator for outward display.
type Status struct {
	State       string            `json:"state"`
	Running     bool              `json:"running"`
	LastSuccess time.Time         `json:"last_success,omitempty"`
	LastError   string            `json:"last_error,omitempty"`
	Progress    model.RunProgress `json:"progress"`
	Quota       []quota.Usage     `json:"quota"`
}

// Coordinator owns the fetch -> score -> aggregate -> combine pipeline.
// A single run executes sequentially; concurrent run requests are rejected.
type Coordinator struct {
	collector  *collector.Collector
	aggregator *sentiment.Aggregator
	combiner   *predictor.Combiner
	progress   *progress.Tracker
	quota      *quota.Tracker
	recorder   recorder.Recorder
	indices    []model.TrackedIndex

	// sentimentEnabled is false when the optional news credential is absent;
	// predictions then fall back to technical-only.
	sentimentEnabled bool

	mu              sync.Mutex
	running         bool
	last            *Result
	lastErr         error
	failedAfterGood bool
}

// New creates a Coordinator.
func New(col *collector.Collector, agg *sentiment.Aggregator, comb *predictor.Combiner,
	prog *progress.Tracker, qt *quota.Tracker, rec recorder.Recorder,
	indices []model.TrackedIndex, sentimentEnabled bool) *Coordinator {
	return &Coordinator{
		collector:        col,
		aggregator:       agg,
		combiner:         comb,
		progress:         prog,
		quota:            qt,
		recorder:         rec,
		indices:          indices,
		sentimentEnabled: sentimentEnabled,
	}
}

// RunNow executes one full prediction run, blocking until it completes.
// Returns ErrRunInFlight if another run holds the guard.
func (c *Coordinator) RunNow(ctx context.Context) (*Result, error) {
	if !c.tryAcquire() {
		return nil, ErrRunInFlight
	}
	defer c.release()
	return c.run(ctx)
}

// RunAsync acquires the run guard synchronously, then executes the run in
// the background. Lets callers (HTTP trigger, Telegram command) reject
// reentrant requests without waiting for the multi-minute run.
func (c *Coordinator) RunAsync(ctx context.Context) error {
	if !c.tryAcquire() {
		return ErrRunInFlight
	}
	go func() {
		defer c.release()
		if _, err := c.run(ctx); err != nil {
			log.Printf("[ERROR] background run: %v", err)
		}
	}()
	return nil
}

func (c *Coordinator) run(ctx context.Context) (*Result, error) {
	started := time.Now()
	log.Printf("[INFO] prediction run started for %d indices", len(c.indices))

	c.progress.Begin()
	c.progress.Advance(model.PctInitializing, model.StageInitializing, "system startup")

	// Stage: market data
	c.progress.Advance(model.PctFetching, model.StageFetching, c.collector.Fetcher.Name())
	series, fetchFailures, err := c.collector.CollectAll(ctx, c.indices)
	if err != nil {
		return nil, c.fail(started, err)
	}
	if len(series) == 0 {
		return nil, c.fail(started, fmt.Errorf("no index data available: %d fetches failed", len(fetchFailures)))
	}

	// Stage: technical analysis
	c.progress.Advance(model.PctTechnical, model.StageTechnical, "RSI, moving averages")
	scores := make(map[string]model.TechnicalScore, len(series))
	for symbol, s := range series {
		scores[symbol] = technical.Score(s)
	}

	// Stage: sentiment (the dominant share of run time, by design)
	var summary *model.SentimentSummary
	if c.sentimentEnabled {
		summary, err = c.aggregator.Aggregate(ctx, func(processed, total int, source string) {
			pct := model.PctSentimentStart +
				(model.PctSentimentEnd-model.PctSentimentStart)*float64(processed)/float64(total)
			c.progress.Advance(pct, model.StageSentiment, source)
		})
		if err != nil {
			return nil, c.fail(started, err)
		}
	}

	// Stage: combine
	c.progress.Advance(model.PctCalculating, model.StageCalculating, "final calculations")
	predictions := make(map[string]model.Prediction, len(scores))
	for _, idx := range c.indices {
		score, ok := scores[idx.Symbol]
		if !ok {
			continue // fetch failed for this index, prediction unavailable
		}
		p := c.combiner.Combine(score, summary, idx.Name)
		predictions[idx.Symbol] = p
		log.Printf("[INFO] %s prediction: %s %.2f%% (confidence %.1f%%)",
			idx.Name, p.Direction, p.Magnitude, p.Confidence)
	}

	result := &Result{
		Predictions: predictions,
		Technical:   scores,
		Sentiment:   summary,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	result.Duration = result.CompletedAt.Sub(started)

	c.progress.Advance(model.PctComplete, model.StageComplete, "analysis finished")

	c.mu.Lock()
	c.last = result
	c.lastErr = nil
	c.failedAfterGood = false
	c.mu.Unlock()

	c.record(&recorder.RunRecord{
		StartedAt:   started,
		Duration:    result.Duration,
		Status:      "complete",
		Predictions: predictionList(predictions),
	})
	log.Printf("[INFO] prediction run complete in %.1fs", result.Duration.Seconds())
	return result, nil
}

// fail moves progress to the proper terminal state and keeps the previous
// run's predictions in place (stale-but-available).
func (c *Coordinator) fail(started time.Time, err error) error {
	status := "error"
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = "cancelled"
		c.progress.Cancel("run cancelled")
		log.Printf("[WARN] prediction run cancelled after %.1fs", time.Since(started).Seconds())
	} else {
		c.progress.Fail(err.Error())
		log.Printf("[ERROR] prediction run failed: %v", err)
	}

	c.mu.Lock()
	c.lastErr = err
	if c.last != nil {
		c.failedAfterGood = true
	}
	c.mu.Unlock()

	c.record(&recorder.RunRecord{
		StartedAt: started,
		Duration:  time.Since(started),
		Status:    status,
		Error:     err.Error(),
	})
	return err
}

func (c *Coordinator) record(rec *recorder.RunRecord) {
	if err := c.recorder.RecordRun(rec); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}

func (c *Coordinator) tryAcquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return false
	}
	c.running = true
	return true
}

func (c *Coordinator) release() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

// LastResult returns the most recent completed run, or nil before the first
// success. The returned value is shared and must be treated as read-only.
func (c *Coordinator) LastResult() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Progress returns a snapshot of the live run progress. Reads may be stale
// by one update; that is acceptable for display.
func (c *Coordinator) Progress() model.RunProgress {
	return c.progress.Snapshot()
}

// Status reports freshness so consumers can tell "no data yet" from
// "stale data" from "actively running".
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	running := c.running
	last := c.last
	lastErr := c.lastErr
	stale := c.failedAfterGood
	c.mu.Unlock()

	st := Status{
		Running:  running,
		Progress: c.progress.Snapshot(),
		Quota:    c.quota.Snapshot(),
	}
	switch {
	case running:
		st.State = StateRunning
	case last == nil:
		st.State = StateNoData
	case stale:
		st.State = StateStale
	default:
		st.State = StateFresh
	}
	if last != nil {
		st.LastSuccess = last.CompletedAt
	}
	if lastErr != nil {
		st.LastError = lastErr.Error()
	}
	return st
}

func predictionList(m map[string]model.Prediction) []model.Prediction {
	out := make([]model.Prediction, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	return out
}
