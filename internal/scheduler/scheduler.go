package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"EarningsRadar/internal/engine"
	"EarningsRadar/internal/model"
	"EarningsRadar/internal/notifier"
	"EarningsRadar/internal/recorder"
	"EarningsRadar/internal/watchlist"
)

// scanTimeout bounds a single manually-triggered analysis.
const scanTimeout = 3 * time.Minute

// Scheduler manages the cron-driven watchlist scans and user commands.
type Scheduler struct {
	Cron      *cron.Cron
	Engine    *engine.Engine
	Watchlist *watchlist.Manager
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, eng *engine.Engine, wl *watchlist.Manager, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Engine:    eng,
		Watchlist: wl,
		Notifier:  tn,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the scheduled scan task.
func (s *Scheduler) RegisterAll(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info("scheduler stopped")
}

// RunScanNow executes the scan task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	tickers := s.Watchlist.List()
	run := &recorder.ScanRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Tickers:   len(tickers),
	}
	log.Infof("running watchlist scan %s over %d tickers", run.ID, len(tickers))

	for _, ticker := range tickers {
		res, err := s.Engine.Analyze(s.Ctx, ticker)
		if err != nil {
			// One ticker failing never aborts the rest of the scan.
			log.Errorf("scan %s: analyze %s: %v", run.ID, ticker, err)
			run.Errors++
			continue
		}
		if err := s.Recorder.RecordAnalysis(run.ID, res); err != nil {
			log.Errorf("scan %s: record %s: %v", run.ID, ticker, err)
		}
		if res.Recommendation == model.Recommended {
			run.Recommended++
			s.trySend(notifier.FormatAnalysisReport(res))
		}
	}

	if err := s.Recorder.RecordScanRun(run); err != nil {
		log.Errorf("record scan run: %v", err)
	}
	s.trySend(notifier.FormatScanSummary(run.Tickers, run.Recommended, run.Errors))
	log.Infof("scan %s done: %d recommended, %d errors", run.ID, run.Recommended, run.Errors)
}

// HandleCommand routes Telegram commands to actions. Returns the reply text.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.ToLower(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToUpper(fields[1])
	}

	switch cmd {
	case "/scan":
		if arg == "" {
			go s.RunScanNow()
			return "full watchlist scan started"
		}
		ctx, cancel := context.WithTimeout(s.Ctx, scanTimeout)
		defer cancel()
		res, err := s.Engine.Analyze(ctx, arg)
		if err != nil {
			return fmt.Sprintf("❌ %s: %v", arg, err)
		}
		if err := s.Recorder.RecordAnalysis("", res); err != nil {
			log.Errorf("record %s: %v", arg, err)
		}
		return notifier.FormatAnalysisReport(res)
	case "/watch":
		if arg == "" {
			return "usage: /watch TICKER"
		}
		if s.Watchlist.Add(arg) {
			return fmt.Sprintf("%s added to watchlist", arg)
		}
		return fmt.Sprintf("%s is already on the watchlist", arg)
	case "/unwatch":
		if arg == "" {
			return "usage: /unwatch TICKER"
		}
		if s.Watchlist.Remove(arg) {
			return fmt.Sprintf("%s removed from watchlist", arg)
		}
		return fmt.Sprintf("%s is not on the watchlist", arg)
	case "/list":
		return notifier.FormatWatchlist(s.Watchlist.List())
	case "/help", "/start":
		return "commands: /scan [TICKER], /watch TICKER, /unwatch TICKER, /list"
	default:
		return ""
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Errorf("notify: %v", err)
	}
}
