package spread

import "math"

// Scoring weights. They sum to 1.0.
const (
	ivWeight        = 0.30
	costWeight      = 0.30
	liquidityWeight = 0.15
	deltaWeight     = 0.10
	calendarWeight  = 0.10
	timingWeight    = 0.05
)

// Calendar policy centers: the back month is ideally 30-45 days behind the
// front (midpoint 37.5), and entry is ideally 2-5 days before the front
// expiration (midpoint 3.5, scaled over a 14-day tolerance).
const (
	optimalDaysBetween   = 37.5
	optimalDaysToFront   = 3.5
	daysToFrontTolerance = 14.0
)

// ScoreInputs are the raw ingredients of one candidate's composite score.
type ScoreInputs struct {
	IVDifferential float64 // front IV minus back IV
	SpreadCost     float64 // back mid minus front mid; must be positive
	FrontLiquidity float64
	BackLiquidity  float64
	StrikeDistance float64 // |strike - current price|
	DaysBetween    float64
	DaysToFront    float64
}

// Score computes the weighted composite score for a calendar-spread
// candidate. A non-positive spread cost scores exactly 0 regardless of the
// other inputs, and the result is floored at 0.
func Score(in ScoreInputs) float64 {
	if in.SpreadCost <= 0 {
		return 0
	}

	ivComponent := in.IVDifferential * 100 * ivWeight
	costComponent := (in.IVDifferential / in.SpreadCost) * 50 * costWeight
	liquidityComponent := (in.FrontLiquidity + in.BackLiquidity) / 2 * liquidityWeight
	deltaComponent := 1 / (1 + in.StrikeDistance) * deltaWeight
	calendarComponent := (1 - math.Abs(in.DaysBetween-optimalDaysBetween)/optimalDaysBetween) * calendarWeight
	timingComponent := (1 - math.Abs(in.DaysToFront-optimalDaysToFront)/daysToFrontTolerance) * timingWeight

	score := ivComponent + costComponent + liquidityComponent + deltaComponent + calendarComponent + timingComponent
	if score < 0 {
		return 0
	}
	return score
}
