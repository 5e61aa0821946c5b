package calculator

import (
	"errors"
	"math"

	"EarningsRadar/internal/model"
)

// TradingPeriods is the annualization factor for daily bars.
const TradingPeriods = 252

// YangZhang computes the annualized Yang-Zhang realized volatility over the
// most recent `window` bars. It combines the overnight (open-to-previous-close),
// open-to-close and Rogers-Satchell components:
//
//	sigma^2 = open_vol + k*close_vol + (1-k)*rs_vol
//	k       = 0.34 / (1.34 + (window+1)/(window-1))
//
// Requires at least window+1 bars; anything less is a fatal condition for the
// analysis that consumes the estimate.
func YangZhang(bars []model.PriceBar, window, tradingPeriods int) (float64, error) {
	series, err := YangZhangSeries(bars, window, tradingPeriods)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// YangZhangSeries returns the full rolling estimate, one value per bar once
// the window is filled (leading undefined values are dropped).
func YangZhangSeries(bars []model.PriceBar, window, tradingPeriods int) ([]float64, error) {
	if window < 2 {
		return nil, errors.New("window must be at least 2")
	}
	if len(bars) < window+1 {
		return nil, errors.New("not enough bars for Yang-Zhang estimate")
	}

	// Per-bar squared log returns and the Rogers-Satchell term. Row i derives
	// from bars[i] and bars[i-1], so there are len(bars)-1 rows.
	n := len(bars) - 1
	cc := make([]float64, n) // close-to-close
	oc := make([]float64, n) // open-to-previous-close (overnight)
	rs := make([]float64, n) // Rogers-Satchell
	for i := 1; i < len(bars); i++ {
		b := bars[i]
		logHO := math.Log(b.High / b.Open)
		logLO := math.Log(b.Low / b.Open)
		logCO := math.Log(b.Close / b.Open)
		logOC := math.Log(b.Open / bars[i-1].Close)
		logCC := math.Log(b.Close / bars[i-1].Close)

		cc[i-1] = logCC * logCC
		oc[i-1] = logOC * logOC
		rs[i-1] = logHO*(logHO-logCO) + logLO*(logLO-logCO)
	}

	k := 0.34 / (1.34 + float64(window+1)/float64(window-1))
	scale := 1.0 / float64(window-1)
	annualize := math.Sqrt(float64(tradingPeriods))

	var sumCC, sumOC, sumRS float64
	out := make([]float64, 0, n-window+1)
	for i := 0; i < n; i++ {
		sumCC += cc[i]
		sumOC += oc[i]
		sumRS += rs[i]
		if i >= window {
			sumCC -= cc[i-window]
			sumOC -= oc[i-window]
			sumRS -= rs[i-window]
		}
		if i >= window-1 {
			closeVol := sumCC * scale
			openVol := sumOC * scale
			rsVol := sumRS * scale
			out = append(out, math.Sqrt(openVol+k*closeVol+(1-k)*rsVol)*annualize)
		}
	}
	return out, nil
}
