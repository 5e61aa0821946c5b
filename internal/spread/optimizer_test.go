package spread

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EarningsRadar/internal/collector"
	"EarningsRadar/internal/model"
)

func chainQuote(strike, bid, ask, iv float64, volume, oi int64) model.OptionQuote {
	return model.OptionQuote{
		Strike:            strike,
		Bid:               bid,
		Ask:               ask,
		ImpliedVolatility: iv,
		Volume:            volume,
		OpenInterest:      oi,
	}
}

func singleStrikeChain(expiration string, strike, callBid, callAsk, iv float64) *model.OptionChain {
	return &model.OptionChain{
		ExpirationDate: expiration,
		Calls:          []model.OptionQuote{chainQuote(strike, callBid, callAsk, iv, 500, 1000)},
		Puts:           []model.OptionQuote{chainQuote(strike, callBid*0.9, callAsk*0.9, iv, 500, 1000)},
	}
}

func TestFindOptimalSpread_ReturnsViableCandidate(t *testing.T) {
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{
		Price: 100,
		Chains: map[string]*model.OptionChain{
			// Elevated front IV against a cheap calendar: scores well.
			"2024-01-05": singleStrikeChain("2024-01-05", 100, 2.0, 2.1, 0.60),
			"2024-02-09": singleStrikeChain("2024-02-09", 100, 2.5, 2.6, 0.45),
		},
	}

	o := NewOptimizer(fetcher, []int{30, 45, 60}, 3.0, 0.15)
	best, err := o.FindOptimalSpread(context.Background(), "TEST", []string{"2024-01-05", "2024-02-09"}, 100, today)
	require.NoError(t, err)
	require.NotNil(t, best)

	assert.Equal(t, 100.0, best.Strike)
	assert.Equal(t, "2024-01-05", best.FrontExpiration)
	assert.Equal(t, "2024-02-09", best.BackExpiration)
	assert.InDelta(t, 0.5, best.Cost, 1e-12) // back mid 2.55 - front mid 2.05
	assert.InDelta(t, 0.15, best.IVDifferential, 1e-12)
	assert.Equal(t, 35, best.DaysBetweenExpirations)
	assert.Equal(t, 4, best.DaysToFrontExpiration)
	assert.GreaterOrEqual(t, best.Score, 3.0)
}

func TestFindOptimalSpread_MiddayClockKeepsCalendarDays(t *testing.T) {
	// 15:00 on the 1st is still 4 calendar days before the 5th.
	today := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{
		Price: 100,
		Chains: map[string]*model.OptionChain{
			"2024-01-05": singleStrikeChain("2024-01-05", 100, 2.0, 2.1, 0.60),
			"2024-02-09": singleStrikeChain("2024-02-09", 100, 2.5, 2.6, 0.45),
		},
	}

	o := NewOptimizer(fetcher, []int{30, 45, 60}, 3.0, 0.15)
	best, err := o.FindOptimalSpread(context.Background(), "TEST", []string{"2024-01-05", "2024-02-09"}, 100, today)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 4, best.DaysToFrontExpiration)
	assert.Equal(t, 35, best.DaysBetweenExpirations)
}

func TestFindOptimalSpread_NothingViable(t *testing.T) {
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{
		Price: 100,
		Chains: map[string]*model.OptionChain{
			// Negligible IV edge, expensive spread, wide illiquid markets.
			"2024-01-05": {
				ExpirationDate: "2024-01-05",
				Calls:          []model.OptionQuote{chainQuote(100, 0.5, 1.5, 0.401, 0, 0)},
				Puts:           []model.OptionQuote{chainQuote(100, 0.5, 1.5, 0.401, 0, 0)},
			},
			"2024-02-09": {
				ExpirationDate: "2024-02-09",
				Calls:          []model.OptionQuote{chainQuote(100, 2.5, 3.5, 0.40, 0, 0)},
				Puts:           []model.OptionQuote{chainQuote(100, 2.5, 3.5, 0.40, 0, 0)},
			},
		},
	}

	o := NewOptimizer(fetcher, []int{30, 45, 60}, 3.0, 0.15)
	best, err := o.FindOptimalSpread(context.Background(), "TEST", []string{"2024-01-05", "2024-02-09"}, 100, today)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestFindOptimalSpread_NegativeIVDifferentialRejected(t *testing.T) {
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{
		Price: 100,
		Chains: map[string]*model.OptionChain{
			// Back IV far above front IV: differential below the -0.1 floor.
			"2024-01-05": singleStrikeChain("2024-01-05", 100, 2.0, 2.1, 0.30),
			"2024-02-09": singleStrikeChain("2024-02-09", 100, 2.5, 2.6, 0.55),
		},
	}

	o := NewOptimizer(fetcher, []int{30, 45, 60}, 3.0, 0.15)
	best, err := o.FindOptimalSpread(context.Background(), "TEST", []string{"2024-01-05", "2024-02-09"}, 100, today)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestFindOptimalSpread_NoDistinctBackMonth(t *testing.T) {
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{
		Price: 100,
		Chains: map[string]*model.OptionChain{
			"2024-01-05": singleStrikeChain("2024-01-05", 100, 2.0, 2.1, 0.60),
		},
	}

	// Every offset resolves back onto the only listed expiration.
	o := NewOptimizer(fetcher, []int{30, 45, 60}, 3.0, 0.15)
	best, err := o.FindOptimalSpread(context.Background(), "TEST", []string{"2024-01-05"}, 100, today)
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestFindOptimalSpread_NoFutureExpiration(t *testing.T) {
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{Price: 100}

	o := NewOptimizer(fetcher, []int{30}, 3.0, 0.15)
	_, err := o.FindOptimalSpread(context.Background(), "TEST", []string{"2024-01-05"}, 100, today)
	assert.Error(t, err)
}

func TestFindOptimalSpread_FailedChainFetchIsSkipped(t *testing.T) {
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{
		Price: 100,
		Chains: map[string]*model.OptionChain{
			"2024-01-05": singleStrikeChain("2024-01-05", 100, 2.0, 2.1, 0.60),
			"2024-02-09": singleStrikeChain("2024-02-09", 100, 2.5, 2.6, 0.45),
			// "2024-03-15" is listed but its chain fetch fails.
		},
	}

	o := NewOptimizer(fetcher, []int{30, 45, 60, 75}, 3.0, 0.15)
	best, err := o.FindOptimalSpread(context.Background(), "TEST",
		[]string{"2024-01-05", "2024-02-09", "2024-03-15"}, 100, today)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "2024-02-09", best.BackExpiration)
}
