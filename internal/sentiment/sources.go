package sentiment

import (
	"time"

	"MarketPredictor/internal/model"
)

// DefaultSources is the fixed, ordered list of news providers. Order is part
// of the progress accounting and must not be changed at runtime. Per-item
// delays model each provider's real retrieval latency, which is what makes
// the sentiment stage the dominant contributor to run duration.
var DefaultSources = []model.NewsSource{
	{Name: "Alpha Vantage News", Weight: 5.0, Items: 20, ItemDelay: 1250 * time.Millisecond},
	{Name: "Bloomberg Market", Weight: 4.5, Items: 10, ItemDelay: 3500 * time.Millisecond},
	{Name: "Reuters Financial", Weight: 4.5, Items: 12, ItemDelay: 1800 * time.Millisecond},
	{Name: "Marketaux Financial", Weight: 4.0, Items: 15, ItemDelay: 2 * time.Second},
	{Name: "Finnhub Sentiment", Weight: 4.0, Items: 18, ItemDelay: 1100 * time.Millisecond},
	{Name: "Financial Times", Weight: 4.0, Items: 8, ItemDelay: 3500 * time.Millisecond},
	{Name: "Wall Street Journal", Weight: 4.0, Items: 15, ItemDelay: 1300 * time.Millisecond},
	{Name: "CNBC Market News", Weight: 3.5, Items: 22, ItemDelay: 700 * time.Millisecond},
	{Name: "Yahoo Finance", Weight: 3.0, Items: 25, ItemDelay: 600 * time.Millisecond},
	{Name: "MarketWatch", Weight: 3.0, Items: 15, ItemDelay: 1200 * time.Millisecond},
}
