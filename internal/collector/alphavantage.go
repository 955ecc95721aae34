package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"MarketPredictor/internal/model"
)

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage
// TIME_SERIES_DAILY endpoint.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a fetcher with optional proxy support.
func NewAlphaVantageFetcher(apiKey, proxyURL string) *AlphaVantageFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlphaVantageFetcher{
		BaseURL: "https://www.alphavantage.co/query",
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *AlphaVantageFetcher) Name() string     { return "alphavantage" }
func (f *AlphaVantageFetcher) Provider() string { return "alphavantage" }

// avDailyResponse is the expected JSON shape. The provider signals errors in
// the body with a 200 status, so both fields are checked.
type avDailyResponse struct {
	Series       map[string]map[string]string `json:"Time Series (Daily)"`
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
}

func (f *AlphaVantageFetcher) FetchDailySeries(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s?function=TIME_SERIES_DAILY&symbol=%s&apikey=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(f.APIKey))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var daily avDailyResponse
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if daily.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage api error: %s", daily.ErrorMessage)
	}
	if daily.Note != "" {
		return nil, fmt.Errorf("alphavantage throttled: %s", daily.Note)
	}
	if len(daily.Series) == 0 {
		return nil, fmt.Errorf("alphavantage: no data for %s", symbol)
	}

	bars := make([]model.PriceBar, 0, len(daily.Series))
	for date, fields := range daily.Series {
		ts, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue // skip malformed dates rather than failing the series
		}
		closeStr, ok := fields["4. close"]
		if !ok {
			continue
		}
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil || closePrice <= 0 {
			continue
		}
		bars = append(bars, model.PriceBar{Time: ts, Close: closePrice})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("alphavantage: no usable bars for %s", symbol)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}

	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}
