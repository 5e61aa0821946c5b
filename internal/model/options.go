package model

// OptionType distinguishes calls from puts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// OptionQuote is one contract's quote at a single expiration.
type OptionQuote struct {
	Strike            float64
	Bid               float64
	Ask               float64
	LastPrice         float64
	ImpliedVolatility float64
	Volume            int64
	OpenInterest      int64
	Type              OptionType
}

// OptionChain holds all quotes for one expiration, calls and puts each
// ordered by strike. Chains are fetched once per analysis and read-only
// thereafter.
type OptionChain struct {
	ExpirationDate string
	Calls          []OptionQuote
	Puts           []OptionQuote
}
