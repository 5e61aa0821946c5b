package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"EarningsRadar/internal/collector"
	"EarningsRadar/internal/config"
	"EarningsRadar/internal/engine"
	"EarningsRadar/internal/notifier"
	"EarningsRadar/internal/recorder"
	"EarningsRadar/internal/scheduler"
	"EarningsRadar/internal/watchlist"
)

func main() {
	_ = godotenv.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}
	log.Info("EarningsRadar starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	// Init fetcher; all market-data traffic shares one rate-limited client.
	client := collector.NewHTTPClient(cfg.Analysis.RateLimitRPS, cfg.Proxy)
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewTradierFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, client)
	} else {
		fetcher = collector.NewYahooFetcher(client)
	}
	log.Infof("data source: %s", fetcher.Name())

	// Init analysis engine
	eng := engine.New(fetcher, cfg.Analysis)

	// Init watchlist
	wl, err := watchlist.NewManager(cfg.Watchlist.StateFile, cfg.Watchlist.Tickers)
	if err != nil {
		log.Fatalf("init watchlist: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, eng, wl, tn, rec)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info("Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Info("EarningsRadar is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	log.Info("EarningsRadar stopped")
}
