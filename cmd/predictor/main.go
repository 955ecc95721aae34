package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketPredictor/internal/api"
	"MarketPredictor/internal/collector"
	"MarketPredictor/internal/config"
	"MarketPredictor/internal/coordinator"
	"MarketPredictor/internal/notifier"
	"MarketPredictor/internal/predictor"
	"MarketPredictor/internal/progress"
	"MarketPredictor/internal/quota"
	"MarketPredictor/internal/recorder"
	"MarketPredictor/internal/scheduler"
	"MarketPredictor/internal/sentiment"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarketPredictor starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher and quota tracker
	fetcher := collector.NewAlphaVantageFetcher(cfg.APIKeys.AlphaVantage, cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	tracker := quota.NewTracker()
	tracker.SetLimit(fetcher.Provider(), cfg.Quota.AlphaVantageDaily)
	tracker.SetLimit("news", cfg.Quota.NewsDaily)

	col := collector.NewCollector(fetcher, tracker)

	// Init sentiment aggregator. Without a news key predictions are
	// technical-only.
	sentimentEnabled := cfg.APIKeys.News != ""
	agg := sentiment.NewAggregator(sentiment.DefaultSources, sentiment.SimulatedScorer(time.Now().UnixNano()))
	if !sentimentEnabled {
		log.Println("[WARN] no news API key configured, sentiment analysis disabled")
	}

	// Init combiner, with config overrides where set
	comb := predictor.NewCombiner()
	if p := cfg.Prediction; p.TechnicalWeight > 0 || p.SentimentWeight > 0 {
		comb.TechnicalWeight = p.TechnicalWeight
		comb.SentimentWeight = p.SentimentWeight
	}
	if cfg.Prediction.MaxMagnitude > 0 {
		comb.MaxMagnitude = cfg.Prediction.MaxMagnitude
	}
	if cfg.Prediction.ConfidenceFloor > 0 {
		comb.ConfidenceFloor = cfg.Prediction.ConfidenceFloor
	}
	if cfg.Prediction.ConfidenceCeiling > 0 {
		comb.ConfidenceCeiling = cfg.Prediction.ConfidenceCeiling
	}
	if cfg.Prediction.DeadBand > 0 {
		comb.DeadBand = cfg.Prediction.DeadBand
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init coordinator
	coord := coordinator.New(col, agg, comb, progress.NewTracker(nil), tracker, rec,
		cfg.Indices, sentimentEnabled)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, coord, tn, rec)
	if err := sched.Register(cfg.Schedule.UpdateCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Start dashboard API
	srv := api.NewServer(coord, rec, cfg.Server.Listen)
	srv.Start()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing prediction run now")
		go sched.RunNow()
	}

	log.Println("[INFO] MarketPredictor is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] API server shutdown: %v", err)
	}
	log.Println("[INFO] MarketPredictor stopped")
}
