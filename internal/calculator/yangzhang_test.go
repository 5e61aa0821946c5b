package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EarningsRadar/internal/model"
)

func flatBars(price float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		bars[i] = model.PriceBar{
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1_000_000,
		}
	}
	return bars
}

func trendingBars(price float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	p := price
	for i := 0; i < count; i++ {
		move := 1.01
		if i%2 == 1 {
			move = 0.995
		}
		next := p * move
		bars[i] = model.PriceBar{
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   p,
			High:   next * 1.004,
			Low:    p * 0.997,
			Close:  next,
			Volume: 1_000_000,
		}
		p = next
	}
	return bars
}

func TestYangZhang_FlatSeriesIsZero(t *testing.T) {
	for _, window := range []int{10, 20, 30} {
		vol, err := YangZhang(flatBars(100, 80), window, TradingPeriods)
		require.NoError(t, err)
		assert.Zero(t, vol, "window %d", window)
	}
}

func TestYangZhang_PositiveForMovingSeries(t *testing.T) {
	vol, err := YangZhang(trendingBars(100, 80), 30, TradingPeriods)
	require.NoError(t, err)
	assert.Greater(t, vol, 0.0)
}

func TestYangZhang_NotEnoughBars(t *testing.T) {
	_, err := YangZhang(flatBars(100, 30), 30, TradingPeriods)
	assert.Error(t, err)

	// Exactly window+1 bars is the minimum.
	_, err = YangZhang(flatBars(100, 31), 30, TradingPeriods)
	assert.NoError(t, err)
}

func TestYangZhang_WindowTooSmall(t *testing.T) {
	_, err := YangZhang(flatBars(100, 10), 1, TradingPeriods)
	assert.Error(t, err)
}

func TestYangZhangSeries_Length(t *testing.T) {
	series, err := YangZhangSeries(flatBars(100, 80), 30, TradingPeriods)
	require.NoError(t, err)
	// One value per bar once the window over log-return rows is filled.
	assert.Len(t, series, 80-30)
}
