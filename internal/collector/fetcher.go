package collector

import (
	"context"
	"fmt"
	"time"

	"EarningsRadar/internal/model"
)

// Fetcher defines the interface for fetching options market data.
type Fetcher interface {
	// ExpirationDates lists a ticker's option expiration dates, ascending,
	// formatted as 2006-01-02.
	ExpirationDates(ctx context.Context, ticker string) ([]string, error)
	// OptionChain fetches one expiration's chain, calls and puts ordered by strike.
	OptionChain(ctx context.Context, ticker, expiration string) (*model.OptionChain, error)
	// DailyBars fetches up to `days` trailing daily bars, ordered by date.
	DailyBars(ctx context.Context, ticker string, days int) ([]model.PriceBar, error)
	// CurrentPrice returns the latest traded price of the underlying.
	CurrentPrice(ctx context.Context, ticker string) (float64, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price       float64
	Expirations []string
	Chains      map[string]*model.OptionChain
	Bars        []model.PriceBar
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) ExpirationDates(_ context.Context, _ string) ([]string, error) {
	return m.Expirations, nil
}

func (m *MockFetcher) OptionChain(_ context.Context, _, expiration string) (*model.OptionChain, error) {
	chain, ok := m.Chains[expiration]
	if !ok {
		return nil, fmt.Errorf("no chain for expiration %s", expiration)
	}
	return chain, nil
}

func (m *MockFetcher) DailyBars(_ context.Context, _ string, days int) ([]model.PriceBar, error) {
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateMockBars(m.Price, days), nil
}

func (m *MockFetcher) CurrentPrice(_ context.Context, _ string) (float64, error) {
	return m.Price, nil
}

// GenerateMockBars produces a gently trending series of daily bars around a
// base price.
func GenerateMockBars(basePrice float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 2_000_000,
		}
	}
	return bars
}
