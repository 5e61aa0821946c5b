package spread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_NonPositiveCostIsZero(t *testing.T) {
	in := ScoreInputs{
		IVDifferential: 0.5,
		SpreadCost:     0,
		FrontLiquidity: 10,
		BackLiquidity:  10,
		DaysBetween:    37.5,
		DaysToFront:    3.5,
	}
	assert.Zero(t, Score(in))

	in.SpreadCost = -1.5
	assert.Zero(t, Score(in))
}

func TestScore_KnownComposite(t *testing.T) {
	// Every component at a hand-computable value:
	// iv: 0.1*100*0.3 = 3.0, cost: (0.1/1)*50*0.3 = 1.5,
	// liquidity: 5*0.15 = 0.75, delta: 1*0.10 = 0.1,
	// calendar: 1*0.10 = 0.1, timing: 1*0.05 = 0.05.
	in := ScoreInputs{
		IVDifferential: 0.1,
		SpreadCost:     1.0,
		FrontLiquidity: 5,
		BackLiquidity:  5,
		StrikeDistance: 0,
		DaysBetween:    37.5,
		DaysToFront:    3.5,
	}
	assert.InDelta(t, 5.5, Score(in), 1e-12)
}

func TestScore_FlooredAtZero(t *testing.T) {
	// A strongly inverted term structure with a large cost drags the
	// composite negative; the score floors at 0.
	in := ScoreInputs{
		IVDifferential: -0.09,
		SpreadCost:     0.1,
		DaysBetween:    90,
		DaysToFront:    60,
	}
	assert.Zero(t, Score(in))
}

func TestScore_CalendarAndTimingCenters(t *testing.T) {
	base := ScoreInputs{
		IVDifferential: 0.05,
		SpreadCost:     1.0,
		DaysBetween:    37.5,
		DaysToFront:    3.5,
	}
	centered := Score(base)

	offCenter := base
	offCenter.DaysBetween = 70
	assert.Less(t, Score(offCenter), centered)

	offCenter = base
	offCenter.DaysToFront = 12
	assert.Less(t, Score(offCenter), centered)
}
