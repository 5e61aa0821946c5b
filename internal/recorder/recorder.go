package recorder

import (
	"time"

	"EarningsRadar/internal/model"
)

// ScanRun summarizes one pass over the watchlist.
type ScanRun struct {
	ID          string
	StartedAt   time.Time
	Tickers     int
	Recommended int
	Errors      int
}

// Recorder persists analysis history.
type Recorder interface {
	RecordScanRun(run *ScanRun) error
	RecordAnalysis(scanID string, res *model.AnalysisResult) error
	Close() error
}
