package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Analysis holds the tunable knobs of the recommendation engine. A single
// explicit struct, constructed once at startup and passed by parameter; the
// engine never reads global state.
type Analysis struct {
	MinAvgVolume     float64 `yaml:"min_avg_volume"`     // 30-day average volume threshold
	MinIV30RV30      float64 `yaml:"min_iv30_rv30"`      // implied/realized vol ratio threshold
	MaxTSSlope       float64 `yaml:"max_ts_slope"`       // term-structure slope threshold (pass when slope <= this)
	BackMonthOffsets []int   `yaml:"back_month_offsets"` // days-out targets for the back month
	MinViableScore   float64 `yaml:"min_viable_score"`   // spread candidates below this are discarded
	StrikeBandPct    float64 `yaml:"strike_band_pct"`    // grid strikes within +/- this fraction of spot
	VolWindow        int     `yaml:"vol_window"`         // Yang-Zhang rolling window
	HorizonDays      int     `yaml:"horizon_days"`       // expiration filter horizon
	RateLimitRPS     float64 `yaml:"rate_limit_rps"`     // outbound market-data requests per second
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Watchlist struct {
		Tickers   []string `yaml:"tickers"`
		StateFile string   `yaml:"state_file"`
	} `yaml:"watchlist"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Analysis Analysis `yaml:"analysis"`
	Proxy    string   `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TRADIER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("TRADIER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist.Tickers = nil
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.Watchlist.Tickers = append(cfg.Watchlist.Tickers, strings.ToUpper(t))
			}
		}
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 0 14 * * 1-5" // weekdays, before US open
	}
	if cfg.Watchlist.StateFile == "" {
		cfg.Watchlist.StateFile = "data/watchlist.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/earnings_radar.db"
	}
	applyAnalysisDefaults(&cfg.Analysis)

	return cfg, nil
}

func applyAnalysisDefaults(a *Analysis) {
	if a.MinAvgVolume == 0 {
		a.MinAvgVolume = 1_500_000
	}
	if a.MinIV30RV30 == 0 {
		a.MinIV30RV30 = 1.25
	}
	if a.MaxTSSlope == 0 {
		a.MaxTSSlope = -0.00406
	}
	if len(a.BackMonthOffsets) == 0 {
		a.BackMonthOffsets = []int{30, 45, 60}
	}
	if a.MinViableScore == 0 {
		a.MinViableScore = 3.0
	}
	if a.StrikeBandPct == 0 {
		a.StrikeBandPct = 0.15
	}
	if a.VolWindow == 0 {
		a.VolWindow = 30
	}
	if a.HorizonDays == 0 {
		a.HorizonDays = 45
	}
	if a.RateLimitRPS == 0 {
		a.RateLimitRPS = 2
	}
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.Watchlist.Tickers) == 0 {
		return fmt.Errorf("watchlist.tickers must not be empty")
	}
	if c.Analysis.VolWindow < 2 {
		return fmt.Errorf("analysis.vol_window must be at least 2")
	}
	if c.Analysis.StrikeBandPct <= 0 {
		return fmt.Errorf("analysis.strike_band_pct must be positive")
	}
	if c.Analysis.MinViableScore < 0 {
		return fmt.Errorf("analysis.min_viable_score must not be negative")
	}
	for _, d := range c.Analysis.BackMonthOffsets {
		if d <= 0 {
			return fmt.Errorf("analysis.back_month_offsets must be positive, got %d", d)
		}
	}
	return nil
}
