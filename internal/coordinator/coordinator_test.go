package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketPredictor/internal/collector"
	"MarketPredictor/internal/model"
	"MarketPredictor/internal/predictor"
	"MarketPredictor/internal/progress"
	"MarketPredictor/internal/quota"
	"MarketPredictor/internal/recorder"
	"MarketPredictor/internal/sentiment"
)

func testIndices() []model.TrackedIndex {
	return []model.TrackedIndex{
		{Name: "S&P 500", Symbol: "SPY"},
		{Name: "FTSE 100", Symbol: "ISF.L"},
	}
}

func testAggregator(scorer sentiment.ItemScorer) *sentiment.Aggregator {
	sources := []model.NewsSource{
		{Name: "A", Weight: 2.0, Items: 3},
		{Name: "B", Weight: 1.0, Items: 2},
	}
	a := sentiment.NewAggregator(sources, scorer)
	a.DelayScale = 0
	return a
}

func newTestCoordinator(fetcher collector.Fetcher, limit int, scorer sentiment.ItemScorer) *Coordinator {
	tracker := quota.NewTracker()
	tracker.SetLimit("mock", limit)

	col := collector.NewCollector(fetcher, tracker)
	col.InterCallDelay = 0

	return New(col, testAggregator(scorer), predictor.NewCombiner(),
		progress.NewTracker(nil), tracker, recorder.NewNoopRecorder(),
		testIndices(), scorer != nil)
}

func steadyScorer(_ model.NewsSource, _ int) (float64, error) { return 0.4, nil }

func TestRunNow_FullPipeline(t *testing.T) {
	c := newTestCoordinator(&collector.MockFetcher{}, 10, steadyScorer)

	res, err := c.RunNow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(res.Predictions))
	}
	for symbol, p := range res.Predictions {
		if p.Symbol != symbol {
			t.Errorf("prediction keyed by %q carries symbol %q", symbol, p.Symbol)
		}
		if p.Confidence < 60 || p.Confidence > 90 {
			t.Errorf("%s confidence %.1f outside [60,90]", symbol, p.Confidence)
		}
	}
	if res.Sentiment == nil {
		t.Fatal("sentiment summary missing on sentiment-enabled run")
	}

	prog := c.Progress()
	if prog.Stage != model.StageComplete || prog.Percentage != 100 {
		t.Errorf("expected terminal Complete/100, got %s/%.0f", prog.Stage, prog.Percentage)
	}
	if got := c.Status().State; got != StateFresh {
		t.Errorf("expected fresh state after success, got %q", got)
	}
}

func TestRunNow_TechnicalOnlyWhenSentimentDisabled(t *testing.T) {
	c := newTestCoordinator(&collector.MockFetcher{}, 10, nil)

	res, err := c.RunNow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sentiment != nil {
		t.Error("sentiment summary must be nil when disabled")
	}
	if len(res.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(res.Predictions))
	}
	for _, p := range res.Predictions {
		if p.SentimentScore != 0 {
			t.Errorf("disabled sentiment should contribute 0, got %.4f", p.SentimentScore)
		}
	}
}

func TestRunNow_RejectsConcurrentRun(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var once bool
	blockingScorer := func(_ model.NewsSource, _ int) (float64, error) {
		if !once {
			once = true
			close(started)
			<-gate
		}
		return 0, nil
	}
	c := newTestCoordinator(&collector.MockFetcher{}, 10, blockingScorer)

	if err := c.RunAsync(context.Background()); err != nil {
		t.Fatalf("first run should acquire the guard: %v", err)
	}
	<-started

	if _, err := c.RunNow(context.Background()); !errors.Is(err, ErrRunInFlight) {
		t.Errorf("expected ErrRunInFlight, got %v", err)
	}
	close(gate)

	deadline := time.After(5 * time.Second)
	for c.Status().Running {
		select {
		case <-deadline:
			t.Fatal("background run never finished")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if _, err := c.RunNow(context.Background()); err != nil {
		t.Errorf("guard should be free after the run: %v", err)
	}
}

func TestRunNow_PartialFetchStillPredicts(t *testing.T) {
	mock := &collector.MockFetcher{Errs: map[string]error{"ISF.L": errors.New("status 502")}}
	c := newTestCoordinator(mock, 10, steadyScorer)

	res, err := c.RunNow(context.Background())
	if err != nil {
		t.Fatalf("one failed index must not abort the run: %v", err)
	}
	if len(res.Predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(res.Predictions))
	}
	if _, ok := res.Predictions["SPY"]; !ok {
		t.Error("healthy index should still be predicted")
	}
}

func TestRunNow_QuotaExhaustionFailsRun(t *testing.T) {
	c := newTestCoordinator(&collector.MockFetcher{}, 0, steadyScorer)

	_, err := c.RunNow(context.Background())
	if !errors.Is(err, quota.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	prog := c.Progress()
	if prog.Stage != model.StageError || prog.Percentage != 0 {
		t.Errorf("expected Error/0 after quota failure, got %s/%.0f", prog.Stage, prog.Percentage)
	}
	if got := c.Status().State; got != StateNoData {
		t.Errorf("failure before any success should report %q, got %q", StateNoData, got)
	}
}

func TestStatus_StaleKeepsLastResult(t *testing.T) {
	mock := &collector.MockFetcher{}
	c := newTestCoordinator(mock, 10, steadyScorer)

	first, err := c.RunNow(context.Background())
	if err != nil {
		t.Fatalf("seed run failed: %v", err)
	}

	mock.Errs = map[string]error{"SPY": errors.New("down"), "ISF.L": errors.New("down")}
	if _, err := c.RunNow(context.Background()); err == nil {
		t.Fatal("run with every fetch failing should error")
	}

	st := c.Status()
	if st.State != StateStale {
		t.Errorf("expected stale state, got %q", st.State)
	}
	if st.LastError == "" {
		t.Error("stale status should carry the last error")
	}
	if got := c.LastResult(); got != first {
		t.Error("failed run must not discard the previous result")
	}
}

func TestRunNow_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &collector.MockFetcher{}
	tracker := quota.NewTracker()
	tracker.SetLimit("mock", 10)
	col := collector.NewCollector(mock, tracker) // default pacing so the wait observes cancellation

	c := New(col, testAggregator(steadyScorer), predictor.NewCombiner(),
		progress.NewTracker(nil), tracker, recorder.NewNoopRecorder(),
		testIndices(), true)

	_, err := c.RunNow(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := c.Progress().Stage; got != model.StageCancelled {
		t.Errorf("expected Cancelled stage, got %s", got)
	}
}
