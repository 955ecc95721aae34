package quota

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrQuotaExceeded is returned when a provider's daily call budget is used up.
// It is fatal for the run that requested the reservation.
var ErrQuotaExceeded = errors.New("daily API quota exceeded")

// Usage reports a provider's quota consumption for diagnostics.
type Usage struct {
	Provider string    `json:"provider"`
	Calls    int       `json:"calls_made_today"`
	Limit    int       `json:"daily_limit"`
	ResetAt  time.Time `json:"reset_at"`
}

type providerState struct {
	limit int
	calls int
	day   string // UTC date the counter belongs to
}

// Tracker counts external API calls per provider against fixed daily
// ceilings. Counters reset when the UTC date changes. Safe for use from
// multiple goroutines; check and increment happen under one lock.
type Tracker struct {
	mu        sync.Mutex
	providers map[string]*providerState
	now       func() time.Time
}

// NewTracker creates an empty Tracker using the wall clock.
func NewTracker() *Tracker {
	return &Tracker{
		providers: make(map[string]*providerState),
		now:       time.Now,
	}
}

// NewTrackerWithClock creates a Tracker with an injectable clock for tests.
func NewTrackerWithClock(now func() time.Time) *Tracker {
	return &Tracker{
		providers: make(map[string]*providerState),
		now:       now,
	}
}

// SetLimit registers a provider's daily call ceiling.
func (t *Tracker) SetLimit(provider string, daily int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.providers[provider] = &providerState{limit: daily, day: t.utcDay()}
}

// Reserve records one call for the provider, or returns ErrQuotaExceeded if
// the daily ceiling is already reached. Calls against an unregistered
// provider are counted but never rejected.
func (t *Tracker) Reserve(provider string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps, ok := t.providers[provider]
	if !ok {
		ps = &providerState{day: t.utcDay()}
		t.providers[provider] = ps
	}
	t.rollover(ps)

	if ps.limit > 0 && ps.calls >= ps.limit {
		log.Printf("[WARN] quota denied for %s: %d/%d calls used today", provider, ps.calls, ps.limit)
		return fmt.Errorf("%s: %w", provider, ErrQuotaExceeded)
	}
	ps.calls++
	log.Printf("[INFO] quota reserved for %s: %d/%d", provider, ps.calls, ps.limit)
	return nil
}

// Snapshot returns current usage for all known providers.
func (t *Tracker) Snapshot() []Usage {
	t.mu.Lock()
	defer t.mu.Unlock()

	usages := make([]Usage, 0, len(t.providers))
	for name, ps := range t.providers {
		t.rollover(ps)
		usages = append(usages, Usage{
			Provider: name,
			Calls:    ps.calls,
			Limit:    ps.limit,
			ResetAt:  t.nextReset(),
		})
	}
	return usages
}

func (t *Tracker) utcDay() string {
	return t.now().UTC().Format("2006-01-02")
}

// rollover zeroes the counter when the UTC date has moved past the one the
// counter was accumulated under. Caller must hold the lock.
func (t *Tracker) rollover(ps *providerState) {
	if day := t.utcDay(); ps.day != day {
		ps.calls = 0
		ps.day = day
	}
}

func (t *Tracker) nextReset() time.Time {
	now := t.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
