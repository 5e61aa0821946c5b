package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"EarningsRadar/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while
	// the bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			tickers     INTEGER,
			recommended INTEGER,
			errors      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_runs_ts ON scan_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS analyses (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id         TEXT,
			timestamp       INTEGER NOT NULL,
			ticker          TEXT NOT NULL,
			current_price   REAL,
			avg_volume      REAL,
			avg_volume_pass INTEGER,
			iv30_rv30       REAL,
			iv30_rv30_pass  INTEGER,
			ts_slope        REAL,
			ts_slope_pass   INTEGER,
			expected_move   TEXT,
			recommendation  TEXT,
			spread_strike   REAL,
			spread_front    TEXT,
			spread_back     TEXT,
			spread_cost     REAL,
			spread_iv_diff  REAL,
			spread_score    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ts ON analyses(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ticker ON analyses(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScanRun(run *ScanRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_runs (id, timestamp, tickers, recommended, errors)
		VALUES (?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.Tickers, run.Recommended, run.Errors,
	)
	return err
}

func (r *SQLiteRecorder) RecordAnalysis(scanID string, res *model.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		spreadStrike, spreadCost, spreadIVDiff, spreadScore sql.NullFloat64
		spreadFront, spreadBack                             sql.NullString
	)
	if s := res.OptimalSpread; s != nil {
		spreadStrike = sql.NullFloat64{Float64: s.Strike, Valid: true}
		spreadCost = sql.NullFloat64{Float64: s.Cost, Valid: true}
		spreadIVDiff = sql.NullFloat64{Float64: s.IVDifferential, Valid: true}
		spreadScore = sql.NullFloat64{Float64: s.Score, Valid: true}
		spreadFront = sql.NullString{String: s.FrontExpiration, Valid: true}
		spreadBack = sql.NullString{String: s.BackExpiration, Valid: true}
	}

	m := res.Metrics
	_, err := r.db.Exec(`INSERT INTO analyses
		(scan_id, timestamp, ticker, current_price,
		 avg_volume, avg_volume_pass, iv30_rv30, iv30_rv30_pass, ts_slope, ts_slope_pass,
		 expected_move, recommendation,
		 spread_strike, spread_front, spread_back, spread_cost, spread_iv_diff, spread_score)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		scanID, time.Now().Unix(), res.Ticker, res.CurrentPrice,
		m.AvgVolume, m.AvgVolumePass, m.IV30RV30, m.IV30RV30Pass, m.TSSlope, m.TSSlopePass,
		res.ExpectedMove, string(res.Recommendation),
		spreadStrike, spreadFront, spreadBack, spreadCost, spreadIVDiff, spreadScore,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
