package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketPredictor/internal/collector"
	"MarketPredictor/internal/coordinator"
	"MarketPredictor/internal/model"
	"MarketPredictor/internal/predictor"
	"MarketPredictor/internal/progress"
	"MarketPredictor/internal/quota"
	"MarketPredictor/internal/recorder"
	"MarketPredictor/internal/sentiment"
)

func newTestServer(scorer sentiment.ItemScorer) (*Server, *coordinator.Coordinator) {
	tracker := quota.NewTracker()
	tracker.SetLimit("mock", 100)

	col := collector.NewCollector(&collector.MockFetcher{}, tracker)
	col.InterCallDelay = 0

	agg := sentiment.NewAggregator([]model.NewsSource{{Name: "A", Weight: 1.0, Items: 2}}, scorer)
	agg.DelayScale = 0

	indices := []model.TrackedIndex{{Name: "S&P 500", Symbol: "SPY"}}
	coord := coordinator.New(col, agg, predictor.NewCombiner(), progress.NewTracker(nil),
		tracker, recorder.NewNoopRecorder(), indices, true)

	return NewServer(coord, recorder.NewNoopRecorder(), ":0"), coord
}

func doRequest(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestPredictions_NotFoundBeforeFirstRun(t *testing.T) {
	s, _ := newTestServer(func(model.NewsSource, int) (float64, error) { return 0, nil })

	rec := doRequest(s, http.MethodGet, "/api/predictions")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any run, got %d", rec.Code)
	}
}

func TestPredictions_AfterRun(t *testing.T) {
	s, coord := newTestServer(func(model.NewsSource, int) (float64, error) { return 0.3, nil })
	if _, err := coord.RunNow(context.Background()); err != nil {
		t.Fatalf("seed run failed: %v", err)
	}

	rec := doRequest(s, http.MethodGet, "/api/predictions")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Predictions map[string]model.Prediction `json:"predictions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := res.Predictions["SPY"]; !ok {
		t.Error("response should carry the SPY prediction")
	}
}

func TestStatus_ReportsState(t *testing.T) {
	s, _ := newTestServer(func(model.NewsSource, int) (float64, error) { return 0, nil })

	rec := doRequest(s, http.MethodGet, "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var st coordinator.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.State != coordinator.StateNoData {
		t.Errorf("expected %q, got %q", coordinator.StateNoData, st.State)
	}
}

func TestTriggerRun_ConflictWhileRunning(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var once bool
	s, coord := newTestServer(func(model.NewsSource, int) (float64, error) {
		if !once {
			once = true
			close(started)
			<-gate
		}
		return 0, nil
	})

	rec := doRequest(s, http.MethodPost, "/api/run")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	<-started

	rec = doRequest(s, http.MethodPost, "/api/run")
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 while a run is in flight, got %d", rec.Code)
	}
	close(gate)

	deadline := time.After(5 * time.Second)
	for coord.Status().Running {
		select {
		case <-deadline:
			t.Fatal("background run never finished")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRecentPredictions_RejectsBadHours(t *testing.T) {
	s, _ := newTestServer(func(model.NewsSource, int) (float64, error) { return 0, nil })

	rec := doRequest(s, http.MethodGet, "/api/predictions/recent?hours=abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric hours, got %d", rec.Code)
	}
	rec = doRequest(s, http.MethodGet, "/api/predictions/recent?hours=-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative hours, got %d", rec.Code)
	}
	rec = doRequest(s, http.MethodGet, "/api/predictions/recent")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with default window, got %d", rec.Code)
	}
}
