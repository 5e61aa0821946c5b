package model

// Recommendation is the ternary outcome of an earnings analysis.
type Recommendation string

const (
	Recommended Recommendation = "Recommended"
	Consider    Recommendation = "Consider"
	Avoid       Recommendation = "Avoid"
)

// Metrics holds the three threshold metrics and their pass flags.
type Metrics struct {
	AvgVolume     float64 `json:"avgVolume"`
	AvgVolumePass bool    `json:"avgVolumePass"`
	IV30RV30      float64 `json:"iv30Rv30"`
	IV30RV30Pass  bool    `json:"iv30Rv30Pass"`
	TSSlope       float64 `json:"tsSlope"`
	TSSlopePass   bool    `json:"tsSlopePass"`
}

// SpreadCandidate is one calendar-spread candidate produced by the grid
// search. All but the best-scoring candidate are discarded.
type SpreadCandidate struct {
	Strike                 float64 `json:"strike"`
	FrontExpiration        string  `json:"frontMonth"`
	BackExpiration         string  `json:"backMonth"`
	Cost                   float64 `json:"spreadCost"`
	IVDifferential         float64 `json:"ivDifferential"`
	FrontIV                float64 `json:"frontIv"`
	BackIV                 float64 `json:"backIv"`
	FrontLiquidity         float64 `json:"frontLiquidity"`
	BackLiquidity          float64 `json:"backLiquidity"`
	DaysBetweenExpirations int     `json:"daysBetweenExpirations"`
	DaysToFrontExpiration  int     `json:"daysToFrontExpiration"`
	Score                  float64 `json:"score"`
}

// AnalysisResult is the final output of one analysis run, constructed once
// and immutable.
type AnalysisResult struct {
	Ticker         string           `json:"ticker"`
	CurrentPrice   float64          `json:"currentPrice"`
	Metrics        Metrics          `json:"metrics"`
	ExpectedMove   string           `json:"expectedMove"`
	Recommendation Recommendation   `json:"recommendation"`
	OptimalSpread  *SpreadCandidate `json:"optimalCalendarSpread,omitempty"`
}
