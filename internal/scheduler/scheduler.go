package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"MarketPredictor/internal/coordinator"
	"MarketPredictor/internal/notifier"
	"MarketPredictor/internal/recorder"
)

// Scheduler drives periodic prediction runs and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Coord    *coordinator.Coordinator
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Ctx      context.Context
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, coord *coordinator.Coordinator, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Coord:    coord,
		Notifier: tn,
		Recorder: rec,
		Ctx:      ctx,
	}
}

// Register registers the periodic prediction run.
func (s *Scheduler) Register(updateCron string) error {
	if _, err := s.Cron.AddFunc(updateCron, s.runTask); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the prediction task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runTask()
}

func (s *Scheduler) runTask() {
	log.Println("[INFO] running scheduled prediction task")
	res, err := s.Coord.RunNow(s.Ctx)
	if err != nil {
		if errors.Is(err, coordinator.ErrRunInFlight) {
			log.Println("[WARN] scheduled run skipped, previous run still in flight")
			return
		}
		s.trySend(notifier.FormatFailure(err, time.Now()))
		return
	}
	s.trySend(notifier.FormatRunReport(res))
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/predict":
		if s.Coord.Status().Running {
			return "A prediction run is already in flight. Check /status for progress."
		}
		// runTask sends the report itself once the run completes.
		go s.runTask()
		return "Prediction run started. The report will follow when it completes."
	case "/status":
		return notifier.FormatStatus(s.Coord.Status())
	case "/recent":
		rows, err := s.Recorder.RecentPredictions(24)
		if err != nil {
			log.Printf("[ERROR] query recent predictions: %v", err)
			return "History query failed."
		}
		return notifier.FormatRecent(rows, 24)
	case "/last":
		res := s.Coord.LastResult()
		if res == nil {
			return "No completed run yet. Use /predict to start one."
		}
		return notifier.FormatRunReport(res)
	default:
		return "Available commands:\n• /predict — run predictions now\n• /status — show run status\n• /last — show the latest predictions\n• /recent — show 24h history"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
