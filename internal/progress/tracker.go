package progress

import (
	"sync"
	"time"

	"MarketPredictor/internal/model"
)

// Observer is notified after every progress update. Called outside the
// tracker's lock; implementations must not call back into the tracker's
// mutating methods.
type Observer func(model.RunProgress)

// Tracker is the shared progress record for the run in flight. One owner (the
// coordinator) resets it per run and threads it through every stage; the
// outward layer only reads snapshots. Percentage never decreases within a
// run; Fail and Cancel move to terminal states instead of advancing.
type Tracker struct {
	mu        sync.Mutex
	cur       model.RunProgress
	startedAt time.Time
	terminal  bool
	observer  Observer
	now       func() time.Time
}

// NewTracker creates a Tracker. observer may be nil.
func NewTracker(observer Observer) *Tracker {
	return &Tracker{observer: observer, now: time.Now}
}

// NewTrackerWithClock creates a Tracker with an injectable clock for tests.
func NewTrackerWithClock(observer Observer, now func() time.Time) *Tracker {
	return &Tracker{observer: observer, now: now}
}

// Begin resets the tracker for a new run.
func (t *Tracker) Begin() {
	t.mu.Lock()
	t.cur = model.RunProgress{Stage: model.StageInitializing}
	t.startedAt = t.now()
	t.terminal = false
	snap := t.cur
	t.mu.Unlock()
	t.notify(snap)
}

// Advance moves the run forward. Percentages below the current value are
// raised to it (monotonic); calls after a terminal state are ignored.
func (t *Tracker) Advance(percentage float64, stage model.Stage, source string) {
	t.mu.Lock()
	if t.terminal {
		t.mu.Unlock()
		return
	}
	if percentage < t.cur.Percentage {
		percentage = t.cur.Percentage
	}
	if percentage > 100 {
		percentage = 100
	}

	elapsed := t.now().Sub(t.startedAt).Seconds()
	eta := 0.0
	if percentage > 0 {
		eta = elapsed * (100/percentage - 1)
		if eta < 0 {
			eta = 0
		}
	}
	t.cur = model.RunProgress{
		Percentage:     percentage,
		Stage:          stage,
		CurrentSource:  source,
		ETASeconds:     eta,
		ElapsedSeconds: elapsed,
	}
	if stage == model.StageComplete {
		t.terminal = true
	}
	snap := t.cur
	t.mu.Unlock()
	t.notify(snap)
}

// Fail moves the run to the terminal error state. Percentage drops to 0 so
// the outward layer can tell an aborted run from a completed one.
func (t *Tracker) Fail(reason string) {
	t.terminate(0, model.StageError, reason)
}

// Cancel moves the run to the terminal cancelled state, keeping the
// percentage reached so far.
func (t *Tracker) Cancel(reason string) {
	t.mu.Lock()
	pct := t.cur.Percentage
	t.mu.Unlock()
	t.terminate(pct, model.StageCancelled, reason)
}

func (t *Tracker) terminate(percentage float64, stage model.Stage, source string) {
	t.mu.Lock()
	if t.terminal {
		t.mu.Unlock()
		return
	}
	elapsed := t.now().Sub(t.startedAt).Seconds()
	t.cur = model.RunProgress{
		Percentage:     percentage,
		Stage:          stage,
		CurrentSource:  source,
		ElapsedSeconds: elapsed,
	}
	t.terminal = true
	snap := t.cur
	t.mu.Unlock()
	t.notify(snap)
}

// Snapshot returns a copy of the current progress.
func (t *Tracker) Snapshot() model.RunProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur
}

func (t *Tracker) notify(snap model.RunProgress) {
	if t.observer != nil {
		t.observer(snap)
	}
}
