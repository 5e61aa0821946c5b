package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"EarningsRadar/internal/model"
)

// TradierFetcher implements Fetcher against a Tradier-compatible REST API.
type TradierFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewTradierFetcher creates a fetcher using the shared rate-limited client.
func NewTradierFetcher(baseURL, apiKey string, client *http.Client) *TradierFetcher {
	return &TradierFetcher{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (f *TradierFetcher) Name() string { return "tradier" }

func (f *TradierFetcher) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", f.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("tradier fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("tradier read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tradier: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("tradier decode: %w", err)
	}
	return nil
}

func (f *TradierFetcher) ExpirationDates(ctx context.Context, ticker string) ([]string, error) {
	var dto struct {
		Expirations struct {
			Date []string `json:"date"`
		} `json:"expirations"`
	}
	path := fmt.Sprintf("/v1/markets/options/expirations?symbol=%s", ticker)
	if err := f.get(ctx, path, &dto); err != nil {
		return nil, err
	}
	dates := dto.Expirations.Date
	sort.Strings(dates)
	return dates, nil
}

// tradierOption is one contract in a Tradier chain response.
type tradierOption struct {
	Strike       float64 `json:"strike"`
	Bid          float64 `json:"bid"`
	Ask          float64 `json:"ask"`
	Last         float64 `json:"last"`
	Volume       int64   `json:"volume"`
	OpenInterest int64   `json:"open_interest"`
	OptionType   string  `json:"option_type"`
	Greeks       struct {
		MidIV float64 `json:"mid_iv"`
	} `json:"greeks"`
}

func (f *TradierFetcher) OptionChain(ctx context.Context, ticker, expiration string) (*model.OptionChain, error) {
	var dto struct {
		Options struct {
			Option []tradierOption `json:"option"`
		} `json:"options"`
	}
	path := fmt.Sprintf("/v1/markets/options/chains?symbol=%s&expiration=%s&greeks=true", ticker, expiration)
	if err := f.get(ctx, path, &dto); err != nil {
		return nil, err
	}
	if len(dto.Options.Option) == 0 {
		return nil, fmt.Errorf("tradier: empty chain for %s %s", ticker, expiration)
	}

	chain := &model.OptionChain{ExpirationDate: expiration}
	for _, o := range dto.Options.Option {
		q := model.OptionQuote{
			Strike:            o.Strike,
			Bid:               o.Bid,
			Ask:               o.Ask,
			LastPrice:         o.Last,
			ImpliedVolatility: o.Greeks.MidIV,
			Volume:            o.Volume,
			OpenInterest:      o.OpenInterest,
			Type:              model.OptionType(o.OptionType),
		}
		switch q.Type {
		case model.Call:
			chain.Calls = append(chain.Calls, q)
		case model.Put:
			chain.Puts = append(chain.Puts, q)
		}
	}
	sort.Slice(chain.Calls, func(i, j int) bool { return chain.Calls[i].Strike < chain.Calls[j].Strike })
	sort.Slice(chain.Puts, func(i, j int) bool { return chain.Puts[i].Strike < chain.Puts[j].Strike })
	return chain, nil
}

func (f *TradierFetcher) DailyBars(ctx context.Context, ticker string, days int) ([]model.PriceBar, error) {
	var dto struct {
		History struct {
			Day []struct {
				Date   string  `json:"date"`
				Open   float64 `json:"open"`
				High   float64 `json:"high"`
				Low    float64 `json:"low"`
				Close  float64 `json:"close"`
				Volume float64 `json:"volume"`
			} `json:"day"`
		} `json:"history"`
	}
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	path := fmt.Sprintf("/v1/markets/history?symbol=%s&interval=daily&start=%s&end=%s",
		ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err := f.get(ctx, path, &dto); err != nil {
		return nil, err
	}

	bars := make([]model.PriceBar, 0, len(dto.History.Day))
	for _, d := range dto.History.Day {
		t, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		bars = append(bars, model.PriceBar{
			Date: t, Open: d.Open, High: d.High, Low: d.Low, Close: d.Close, Volume: d.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (f *TradierFetcher) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	var dto struct {
		Quotes struct {
			Quote struct {
				Last float64 `json:"last"`
			} `json:"quote"`
		} `json:"quotes"`
	}
	path := fmt.Sprintf("/v1/markets/quotes?symbols=%s", ticker)
	if err := f.get(ctx, path, &dto); err != nil {
		return 0, err
	}
	if dto.Quotes.Quote.Last <= 0 {
		return 0, fmt.Errorf("tradier: no price for %s", ticker)
	}
	return dto.Quotes.Quote.Last, nil
}
