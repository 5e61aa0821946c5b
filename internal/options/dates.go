package options

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// DateLayout is the wire format for expiration dates.
const DateLayout = "2006-01-02"

// FilterExpirations returns the minimal ascending prefix of expiration dates
// that reaches the first date at least horizonDays past today. If the first
// retained date is today itself it is dropped (a same-day expiration cannot
// anchor the term structure). Errors when no date lies beyond the horizon.
func FilterExpirations(dates []string, today time.Time, horizonDays int) ([]string, error) {
	if len(dates) == 0 {
		return nil, errors.New("no expiration dates supplied")
	}

	type exp struct {
		raw string
		t   time.Time
	}
	parsed := make([]exp, 0, len(dates))
	for _, d := range dates {
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("parse expiration %q: %w", d, err)
		}
		parsed = append(parsed, exp{d, t})
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].t.Before(parsed[j].t) })

	day := today.Truncate(24 * time.Hour)
	cutoff := day.AddDate(0, 0, horizonDays)

	end := -1
	for i, e := range parsed {
		if !e.t.Before(cutoff) {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, fmt.Errorf("no expiration found at least %d days out", horizonDays)
	}

	out := make([]string, 0, end+1)
	for _, e := range parsed[:end+1] {
		out = append(out, e.raw)
	}
	if out[0] == day.Format(DateLayout) {
		out = out[1:]
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no expiration found at least %d days out", horizonDays)
	}
	return out, nil
}

// ClosestExpiration returns the date nearest to target by absolute day
// distance.
func ClosestExpiration(dates []string, target time.Time) (string, error) {
	best := ""
	bestDiff := math.Inf(1)
	for _, d := range dates {
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			return "", fmt.Errorf("parse expiration %q: %w", d, err)
		}
		diff := math.Abs(t.Sub(target).Hours() / 24)
		if diff < bestDiff {
			bestDiff = diff
			best = d
		}
	}
	if best == "" {
		return "", errors.New("no expiration dates supplied")
	}
	return best, nil
}

// DaysBetween returns whole days from a to b, rounding toward zero.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
