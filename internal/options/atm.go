package options

import (
	"math"

	"EarningsRadar/internal/model"
)

// NearestStrike returns the quote whose strike is closest to price. Ties are
// broken by first occurrence in the chain's natural (by-strike) ordering.
// Returns nil for an empty slice.
func NearestStrike(quotes []model.OptionQuote, price float64) *model.OptionQuote {
	var best *model.OptionQuote
	bestDiff := math.Inf(1)
	for i := range quotes {
		diff := math.Abs(quotes[i].Strike - price)
		if diff < bestDiff {
			bestDiff = diff
			best = &quotes[i]
		}
	}
	return best
}

// Mid returns the bid/ask midpoint. The midpoint is undefined (ok=false)
// unless both sides of the market are present.
func Mid(q *model.OptionQuote) (mid float64, ok bool) {
	if q == nil || q.Bid <= 0 || q.Ask <= 0 {
		return 0, false
	}
	return (q.Bid + q.Ask) / 2, true
}

// ATMIV returns the at-the-money implied volatility for one expiration: the
// mean of the nearest-strike call and put IVs. Both legs must be present for
// the value to be usable.
func ATMIV(chain *model.OptionChain, price float64) (iv float64, ok bool) {
	call := NearestStrike(chain.Calls, price)
	put := NearestStrike(chain.Puts, price)
	if call == nil || put == nil {
		return 0, false
	}
	return (call.ImpliedVolatility + put.ImpliedVolatility) / 2, true
}

// Straddle prices the ATM straddle for one expiration from the nearest-strike
// call and put midpoints. Undefined if either leg's midpoint is undefined.
func Straddle(chain *model.OptionChain, price float64) (straddle float64, ok bool) {
	callMid, callOK := Mid(NearestStrike(chain.Calls, price))
	putMid, putOK := Mid(NearestStrike(chain.Puts, price))
	if !callOK || !putOK {
		return 0, false
	}
	return callMid + putMid, true
}

// QuoteAtStrike returns the quote with exactly the given strike, or nil.
func QuoteAtStrike(quotes []model.OptionQuote, strike float64) *model.OptionQuote {
	for i := range quotes {
		if quotes[i].Strike == strike {
			return &quotes[i]
		}
	}
	return nil
}

// IVAtStrike returns the implied volatility at an exact strike for one
// expiration, averaging the call and put IVs when both are quoted. Returns 0
// when no usable IV exists at that strike; callers treat 0 as "no data".
func IVAtStrike(chain *model.OptionChain, strike float64) float64 {
	call := QuoteAtStrike(chain.Calls, strike)
	put := QuoteAtStrike(chain.Puts, strike)

	var sum float64
	var n int
	if call != nil && call.ImpliedVolatility > 0 {
		sum += call.ImpliedVolatility
		n++
	}
	if put != nil && put.ImpliedVolatility > 0 {
		sum += put.ImpliedVolatility
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// LiquidityScore rates a single contract's liquidity on a 0-10 scale from its
// bid/ask spread, volume, and open interest. Tight spreads dominate; size
// helps but only as a square root. A one-sided, empty, locked, or crossed
// market scores 0: the spread carries no usable liquidity signal.
func LiquidityScore(q *model.OptionQuote) float64 {
	if q == nil || q.Bid <= 0 || q.Ask <= 0 {
		return 0
	}
	mid := (q.Bid + q.Ask) / 2
	if mid <= 0 {
		return 0
	}
	spreadPct := (q.Ask - q.Bid) / mid
	if spreadPct <= 0 {
		// Locked or crossed market: no usable spread signal.
		return 0
	}

	volume := math.Max(float64(q.Volume), 1)
	openInterest := math.Max(float64(q.OpenInterest), 1)
	score := (1 / spreadPct) * math.Sqrt(volume) * math.Sqrt(openInterest) / 100

	if score > 10 {
		return 10
	}
	if score < 0 {
		return 0
	}
	return score
}
