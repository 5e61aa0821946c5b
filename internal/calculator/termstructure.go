package calculator

import (
	"errors"
	"sort"
)

// TermStructure is a linear interpolant of ATM implied volatility over days
// to expiry, built from one (DTE, IV) sample per usable expiration. Queries
// outside the observed DTE range clamp flat to the nearest endpoint; this is
// deliberate, not linear extrapolation.
type TermStructure struct {
	dtes []int
	ivs  []float64
}

// NewTermStructure builds the interpolant from parallel DTE/IV samples.
func NewTermStructure(dtes []int, ivs []float64) (*TermStructure, error) {
	if len(dtes) == 0 {
		return nil, errors.New("no term structure samples")
	}
	if len(dtes) != len(ivs) {
		return nil, errors.New("dte and iv sample counts differ")
	}

	type sample struct {
		dte int
		iv  float64
	}
	samples := make([]sample, len(dtes))
	for i := range dtes {
		samples[i] = sample{dtes[i], ivs[i]}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].dte < samples[j].dte })

	ts := &TermStructure{
		dtes: make([]int, len(samples)),
		ivs:  make([]float64, len(samples)),
	}
	for i, s := range samples {
		ts.dtes[i] = s.dte
		ts.ivs[i] = s.iv
	}
	return ts, nil
}

// IV returns the interpolated implied volatility at the given DTE.
func (t *TermStructure) IV(dte float64) float64 {
	if dte <= float64(t.dtes[0]) {
		return t.ivs[0]
	}
	last := len(t.dtes) - 1
	if dte >= float64(t.dtes[last]) {
		return t.ivs[last]
	}
	// Find the bracketing samples. Sample counts are tiny (one per
	// expiration), a linear scan is fine.
	hi := 1
	for hi < last && float64(t.dtes[hi]) < dte {
		hi++
	}
	lo := hi - 1
	x0, x1 := float64(t.dtes[lo]), float64(t.dtes[hi])
	y0, y1 := t.ivs[lo], t.ivs[hi]
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(dte-x0)/(x1-x0)
}

// MinDTE returns the smallest observed DTE.
func (t *TermStructure) MinDTE() int { return t.dtes[0] }

// MaxDTE returns the largest observed DTE.
func (t *TermStructure) MaxDTE() int { return t.dtes[len(t.dtes)-1] }
