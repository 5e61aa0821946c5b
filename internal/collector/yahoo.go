package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"EarningsRadar/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a fetcher using the shared rate-limited client.
func NewYahooFetcher(client *http.Client) *YahooFetcher {
	return &YahooFetcher{Client: client}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) fetchChart(ctx context.Context, ticker, interval, rng string) ([]model.PriceBar, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(ticker), interval, rng)
	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.PriceBar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.PriceBar{
			Date:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// yahooOptions is the response structure from the Yahoo Finance options API.
type yahooOptions struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				Calls []yahooContract `json:"calls"`
				Puts  []yahooContract `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"optionChain"`
}

type yahooContract struct {
	Strike            float64 `json:"strike"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	LastPrice         float64 `json:"lastPrice"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
}

func (f *YahooFetcher) fetchOptions(ctx context.Context, ticker string, date int64) (*yahooOptions, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v7/finance/options/%s", url.PathEscape(ticker))
	if date > 0 {
		u += fmt.Sprintf("?date=%d", date)
	}
	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var dto yahooOptions
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("yahoo decode options: %w", err)
	}
	if dto.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", dto.OptionChain.Error.Description)
	}
	if len(dto.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no option data for %s", ticker)
	}
	return &dto, nil
}

func (f *YahooFetcher) ExpirationDates(ctx context.Context, ticker string) ([]string, error) {
	dto, err := f.fetchOptions(ctx, ticker, 0)
	if err != nil {
		return nil, err
	}
	stamps := dto.OptionChain.Result[0].ExpirationDates
	dates := make([]string, 0, len(stamps))
	for _, ts := range stamps {
		dates = append(dates, time.Unix(ts, 0).UTC().Format("2006-01-02"))
	}
	sort.Strings(dates)
	return dates, nil
}

func (f *YahooFetcher) OptionChain(ctx context.Context, ticker, expiration string) (*model.OptionChain, error) {
	t, err := time.Parse("2006-01-02", expiration)
	if err != nil {
		return nil, fmt.Errorf("parse expiration %q: %w", expiration, err)
	}
	dto, err := f.fetchOptions(ctx, ticker, t.UTC().Unix())
	if err != nil {
		return nil, err
	}
	result := dto.OptionChain.Result[0]
	if len(result.Options) == 0 {
		return nil, fmt.Errorf("yahoo: empty chain for %s %s", ticker, expiration)
	}

	chain := &model.OptionChain{ExpirationDate: expiration}
	for _, c := range result.Options[0].Calls {
		chain.Calls = append(chain.Calls, yahooQuote(c, model.Call))
	}
	for _, p := range result.Options[0].Puts {
		chain.Puts = append(chain.Puts, yahooQuote(p, model.Put))
	}
	sort.Slice(chain.Calls, func(i, j int) bool { return chain.Calls[i].Strike < chain.Calls[j].Strike })
	sort.Slice(chain.Puts, func(i, j int) bool { return chain.Puts[i].Strike < chain.Puts[j].Strike })
	return chain, nil
}

func yahooQuote(c yahooContract, typ model.OptionType) model.OptionQuote {
	return model.OptionQuote{
		Strike:            c.Strike,
		Bid:               c.Bid,
		Ask:               c.Ask,
		LastPrice:         c.LastPrice,
		ImpliedVolatility: c.ImpliedVolatility,
		Volume:            c.Volume,
		OpenInterest:      c.OpenInterest,
		Type:              typ,
	}
}

func (f *YahooFetcher) DailyBars(ctx context.Context, ticker string, days int) ([]model.PriceBar, error) {
	rng := "2y"
	if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 365 {
		rng = "1y"
	}
	bars, err := f.fetchChart(ctx, ticker, "1d", rng)
	if err != nil {
		return nil, err
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (f *YahooFetcher) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	bars, err := f.fetchChart(ctx, ticker, "1d", "1d")
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("yahoo: no price data")
	}
	return bars[len(bars)-1].Close, nil
}
