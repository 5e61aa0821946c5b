package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"EarningsRadar/internal/calculator"
	"EarningsRadar/internal/collector"
	"EarningsRadar/internal/config"
	"EarningsRadar/internal/model"
	"EarningsRadar/internal/options"
	"EarningsRadar/internal/pool"
	"EarningsRadar/internal/spread"
)

// Pool bound for the expiration chain fetch fan-out.
const maxChainWorkers = 10

// Fatal input errors: the analysis has no usable data and aborts.
var (
	ErrNoTicker  = errors.New("ticker symbol is required")
	ErrNoOptions = errors.New("no options found for stock symbol")
	ErrNoATMIV   = errors.New("could not determine ATM IV for any expiration dates")
	ErrNoPrice   = errors.New("could not determine current stock price")
)

// Engine turns raw market data for one ticker into a recommendation and,
// when the setup qualifies, an optimal calendar spread. All state is created
// fresh per Analyze call; the engine itself holds only its collaborators.
type Engine struct {
	fetcher   collector.Fetcher
	cfg       config.Analysis
	optimizer *spread.Optimizer
	now       func() time.Time
}

// New creates an engine bound to a data fetcher and analysis configuration.
func New(fetcher collector.Fetcher, cfg config.Analysis) *Engine {
	return &Engine{
		fetcher:   fetcher,
		cfg:       cfg,
		optimizer: spread.NewOptimizer(fetcher, cfg.BackMonthOffsets, cfg.MinViableScore, cfg.StrikeBandPct),
		now:       time.Now,
	}
}

// Analyze runs the full earnings analysis for one ticker.
func (e *Engine) Analyze(ctx context.Context, ticker string) (*model.AnalysisResult, error) {
	if ticker == "" {
		return nil, ErrNoTicker
	}
	today := e.now()

	price, err := e.fetcher.CurrentPrice(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPrice, err)
	}
	if price <= 0 {
		return nil, ErrNoPrice
	}

	expirations, err := e.fetcher.ExpirationDates(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch expirations: %w", err)
	}
	if len(expirations) == 0 {
		return nil, ErrNoOptions
	}

	filtered, err := options.FilterExpirations(expirations, today, e.cfg.HorizonDays)
	if err != nil {
		return nil, err
	}

	chains := e.fetchChains(ctx, ticker, filtered)

	// ATM IV per usable expiration, plus the straddle off the first one.
	var dtes []int
	var ivs []float64
	var straddle float64
	straddleOK := false
	for _, exp := range filtered {
		chain, ok := chains[exp]
		if !ok {
			continue
		}
		iv, ok := options.ATMIV(chain, price)
		if !ok {
			log.Warnf("%s: no ATM IV for expiration %s", ticker, exp)
			continue
		}
		expDate, err := time.Parse(options.DateLayout, exp)
		if err != nil {
			log.Warnf("%s: bad expiration %q: %v", ticker, exp, err)
			continue
		}
		// The expected move comes only from the nearest expiration; when that
		// one is unusable the move is reported as N/A, never taken from a
		// later expiration.
		if exp == filtered[0] {
			straddle, straddleOK = options.Straddle(chain, price)
		}
		dtes = append(dtes, options.DaysBetween(today.Truncate(24*time.Hour), expDate))
		ivs = append(ivs, iv)
	}
	if len(dtes) == 0 {
		return nil, ErrNoATMIV
	}

	term, err := calculator.NewTermStructure(dtes, ivs)
	if err != nil {
		return nil, fmt.Errorf("build term structure: %w", err)
	}

	horizon := float64(e.cfg.HorizonDays)
	minDTE := float64(term.MinDTE())
	if minDTE >= horizon {
		return nil, fmt.Errorf("term structure requires an expiration inside %d days", e.cfg.HorizonDays)
	}
	tsSlope := (term.IV(horizon) - term.IV(minDTE)) / (horizon - minDTE)

	bars, err := e.fetcher.DailyBars(ctx, ticker, 90)
	if err != nil {
		return nil, fmt.Errorf("fetch price history: %w", err)
	}
	realizedVol, err := calculator.YangZhang(bars, e.cfg.VolWindow, calculator.TradingPeriods)
	if err != nil {
		return nil, fmt.Errorf("realized volatility: %w", err)
	}
	if realizedVol == 0 {
		return nil, errors.New("realized volatility is zero, cannot compute IV/RV ratio")
	}
	iv30rv30 := term.IV(30) / realizedVol

	avgVolume, err := calculator.AverageVolume(bars, 30)
	if err != nil {
		return nil, fmt.Errorf("average volume: %w", err)
	}

	metrics := model.Metrics{
		AvgVolume:     avgVolume,
		AvgVolumePass: avgVolume >= e.cfg.MinAvgVolume,
		IV30RV30:      iv30rv30,
		IV30RV30Pass:  iv30rv30 >= e.cfg.MinIV30RV30,
		TSSlope:       tsSlope,
		TSSlopePass:   tsSlope <= e.cfg.MaxTSSlope,
	}

	expectedMove := "N/A"
	if straddleOK {
		expectedMove = fmt.Sprintf("%.2f%%", straddle/price*100)
	}

	result := &model.AnalysisResult{
		Ticker:         ticker,
		CurrentPrice:   price,
		Metrics:        metrics,
		ExpectedMove:   expectedMove,
		Recommendation: Classify(metrics.AvgVolumePass, metrics.IV30RV30Pass, metrics.TSSlopePass),
	}

	if result.Recommendation == model.Recommended {
		best, err := e.optimizer.FindOptimalSpread(ctx, ticker, expirations, price, today)
		if err != nil {
			log.Errorf("%s: spread optimization failed: %v", ticker, err)
		} else {
			result.OptimalSpread = best
		}
	}

	return result, nil
}

// fetchChains fans out chain fetches for the filtered expirations. A single
// failed fetch is logged and skipped; it never aborts the analysis.
func (e *Engine) fetchChains(ctx context.Context, ticker string, expirations []string) map[string]*model.OptionChain {
	type fetched struct {
		exp   string
		chain *model.OptionChain
	}
	results := pool.Map(ctx, expirations, maxChainWorkers, func(ctx context.Context, exp string) (fetched, error) {
		chain, err := e.fetcher.OptionChain(ctx, ticker, exp)
		if err != nil {
			return fetched{}, fmt.Errorf("chain %s: %w", exp, err)
		}
		return fetched{exp: exp, chain: chain}, nil
	})

	chains := make(map[string]*model.OptionChain, len(expirations))
	for res := range results {
		if res.Err != nil {
			log.Warnf("%s: %v", ticker, res.Err)
			continue
		}
		chains[res.Value.exp] = res.Value.chain
	}
	return chains
}

// Classify maps the three threshold flags onto the ternary recommendation:
// all three pass is Recommended; a passing slope with exactly one of the
// other two is Consider; anything else is Avoid.
func Classify(avgVolumePass, ivRVPass, slopePass bool) model.Recommendation {
	switch {
	case avgVolumePass && ivRVPass && slopePass:
		return model.Recommended
	case slopePass && (avgVolumePass != ivRVPass):
		return model.Consider
	default:
		return model.Avoid
	}
}
