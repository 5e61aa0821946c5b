package spread

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"EarningsRadar/internal/collector"
	"EarningsRadar/internal/model"
	"EarningsRadar/internal/options"
	"EarningsRadar/internal/pool"
)

// Pool bounds per fan-out phase.
const (
	maxChainWorkers = 10
	maxGridWorkers  = 20
)

// Optimizer runs the calendar-spread grid search: every near-the-money strike
// crossed with every back-month offset, scored independently, best one kept.
type Optimizer struct {
	Fetcher        collector.Fetcher
	Offsets        []int   // back-month days-out targets
	MinViableScore float64 // candidates below this are not worth trading
	StrikeBandPct  float64 // strikes within +/- this fraction of spot
}

// NewOptimizer creates an optimizer with the given search parameters.
func NewOptimizer(fetcher collector.Fetcher, offsets []int, minViableScore, strikeBandPct float64) *Optimizer {
	return &Optimizer{
		Fetcher:        fetcher,
		Offsets:        offsets,
		MinViableScore: minViableScore,
		StrikeBandPct:  strikeBandPct,
	}
}

// gridCell is one (strike, back expiration) pair to evaluate.
type gridCell struct {
	strike  float64
	backExp string
}

// FindOptimalSpread searches the (strike x back-month offset) grid and
// returns the highest-scoring viable candidate, or nil when no candidate
// reaches the viability threshold. Individual cell failures are skipped and
// never abort the search.
func (o *Optimizer) FindOptimalSpread(ctx context.Context, ticker string, expirations []string, currentPrice float64, today time.Time) (*model.SpreadCandidate, error) {
	// Day counts are calendar-date arithmetic; the intraday clock must not
	// shave a day off DaysToFrontExpiration.
	today = today.Truncate(24 * time.Hour)

	frontExp, frontDate, err := frontMonth(expirations, today)
	if err != nil {
		return nil, err
	}

	// Resolve each offset to its nearest listed expiration. Offsets that
	// resolve back onto the front month have no calendar to trade.
	backExps := make([]string, 0, len(o.Offsets))
	seen := map[string]bool{frontExp: true}
	for _, daysOut := range o.Offsets {
		target := today.AddDate(0, 0, daysOut)
		backExp, err := options.ClosestExpiration(expirations, target)
		if err != nil {
			return nil, err
		}
		if seen[backExp] {
			continue
		}
		seen[backExp] = true
		backExps = append(backExps, backExp)
	}
	if len(backExps) == 0 {
		log.Debugf("%s: no distinct back-month expiration beyond front %s", ticker, frontExp)
		return nil, nil
	}

	chains := o.fetchChains(ctx, ticker, append([]string{frontExp}, backExps...))
	frontChain, ok := chains[frontExp]
	if !ok {
		return nil, fmt.Errorf("no option chain for front month %s", frontExp)
	}

	strikes := nearMoneyStrikes(frontChain, currentPrice, o.StrikeBandPct)
	if len(strikes) == 0 {
		log.Debugf("%s: no strikes within %.0f%% of %.2f", ticker, o.StrikeBandPct*100, currentPrice)
		return nil, nil
	}

	cells := make([]gridCell, 0, len(strikes)*len(backExps))
	for _, backExp := range backExps {
		if _, ok := chains[backExp]; !ok {
			continue // fetch failed, already logged
		}
		for _, strike := range strikes {
			cells = append(cells, gridCell{strike: strike, backExp: backExp})
		}
	}
	if len(cells) == 0 {
		return nil, nil
	}

	daysToFront := options.DaysBetween(today, frontDate)

	// Fan out the grid; the reduction below runs only on this goroutine.
	results := pool.Map(ctx, cells, maxGridWorkers, func(_ context.Context, cell gridCell) (*model.SpreadCandidate, error) {
		return o.evaluateCell(ticker, cell, frontChain, chains[cell.backExp], currentPrice, frontDate, daysToFront), nil
	})

	var best *model.SpreadCandidate
	for res := range results {
		cand := res.Value
		if cand == nil {
			continue
		}
		if best == nil || cand.Score > best.Score {
			best = cand
		}
	}

	if best == nil || best.Score < o.MinViableScore {
		log.Infof("%s: no calendar spread above viability threshold %.1f", ticker, o.MinViableScore)
		return nil, nil
	}
	return best, nil
}

// fetchChains fans out chain fetches for the given expirations and returns
// whatever succeeded. A failed fetch drops that expiration's cells.
func (o *Optimizer) fetchChains(ctx context.Context, ticker string, expirations []string) map[string]*model.OptionChain {
	type fetched struct {
		exp   string
		chain *model.OptionChain
	}
	results := pool.Map(ctx, expirations, maxChainWorkers, func(ctx context.Context, exp string) (fetched, error) {
		chain, err := o.Fetcher.OptionChain(ctx, ticker, exp)
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

// evaluateCell scores a single (strike, back month) pair. Any missing or
// degenerate data point makes the cell unusable; it is skipped, not an error.
func (o *Optimizer) evaluateCell(ticker string, cell gridCell, frontChain, backChain *model.OptionChain, currentPrice float64, frontDate time.Time, daysToFront int) *model.SpreadCandidate {
	frontIV := options.IVAtStrike(frontChain, cell.strike)
	backIV := options.IVAtStrike(backChain, cell.strike)
	if frontIV == 0 || backIV == 0 {
		log.Debugf("%s: no IV at strike %.2f (%s/%s)", ticker, cell.strike, frontChain.ExpirationDate, cell.backExp)
		return nil
	}

	ivDiff := frontIV - backIV
	if ivDiff < -0.1 {
		return nil
	}

	frontCall := options.QuoteAtStrike(frontChain.Calls, cell.strike)
	backCall := options.QuoteAtStrike(backChain.Calls, cell.strike)
	frontMid, frontOK := options.Mid(frontCall)
	backMid, backOK := options.Mid(backCall)
	if !frontOK || !backOK {
		log.Debugf("%s: no two-sided market at strike %.2f (%s/%s)", ticker, cell.strike, frontChain.ExpirationDate, cell.backExp)
		return nil
	}
	cost := backMid - frontMid
	if cost <= 0 {
		return nil
	}

	backDate, err := time.Parse(options.DateLayout, cell.backExp)
	if err != nil {
		log.Warnf("%s: bad back expiration %q: %v", ticker, cell.backExp, err)
		return nil
	}
	daysBetween := options.DaysBetween(frontDate, backDate)

	frontLiquidity := options.LiquidityScore(frontCall)
	backLiquidity := options.LiquidityScore(backCall)

	score := Score(ScoreInputs{
		IVDifferential: ivDiff,
		SpreadCost:     cost,
		FrontLiquidity: frontLiquidity,
		BackLiquidity:  backLiquidity,
		StrikeDistance: math.Abs(cell.strike - currentPrice),
		DaysBetween:    float64(daysBetween),
		DaysToFront:    float64(daysToFront),
	})
	if score == 0 {
		return nil
	}

	return &model.SpreadCandidate{
		Strike:                 cell.strike,
		FrontExpiration:        frontChain.ExpirationDate,
		BackExpiration:         cell.backExp,
		Cost:                   cost,
		IVDifferential:         ivDiff,
		FrontIV:                frontIV,
		BackIV:                 backIV,
		FrontLiquidity:         frontLiquidity,
		BackLiquidity:          backLiquidity,
		DaysBetweenExpirations: daysBetween,
		DaysToFrontExpiration:  daysToFront,
		Score:                  score,
	}
}

// frontMonth picks the earliest expiration on or after today.
func frontMonth(expirations []string, today time.Time) (string, time.Time, error) {
	day := today.Truncate(24 * time.Hour)
	best := ""
	var bestDate time.Time
	for _, exp := range expirations {
		t, err := time.Parse(options.DateLayout, exp)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("parse expiration %q: %w", exp, err)
		}
		if t.Before(day) {
			continue
		}
		if best == "" || t.Before(bestDate) {
			best = exp
			bestDate = t
		}
	}
	if best == "" {
		return "", time.Time{}, fmt.Errorf("no future expiration available")
	}
	return best, bestDate, nil
}

// nearMoneyStrikes collects the front chain's call strikes within the band
// around spot, ascending.
func nearMoneyStrikes(chain *model.OptionChain, price, bandPct float64) []float64 {
	lo := price * (1 - bandPct)
	hi := price * (1 + bandPct)
	var strikes []float64
	for _, q := range chain.Calls {
		if q.Strike >= lo && q.Strike <= hi {
			strikes = append(strikes, q.Strike)
		}
	}
	sort.Float64s(strikes)
	return strikes
}
