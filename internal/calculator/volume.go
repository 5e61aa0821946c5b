package calculator

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"EarningsRadar/internal/model"
)

// AverageVolume returns the mean daily share volume over the trailing
// `window` bars (the last value of a rolling mean).
func AverageVolume(bars []model.PriceBar, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(bars) < window {
		return 0, errors.New("not enough bars for average volume")
	}
	volumes := make([]float64, window)
	for i, b := range bars[len(bars)-window:] {
		volumes[i] = b.Volume
	}
	mean, err := stats.Mean(volumes)
	if err != nil {
		return 0, fmt.Errorf("average volume: %w", err)
	}
	return mean, nil
}
