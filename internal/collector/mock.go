package collector

import (
	"context"
	"time"

	"MarketPredictor/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string]*model.PriceSeries
	Errs   map[string]error
	Calls  int
}

func (m *MockFetcher) Name() string     { return "mock" }
func (m *MockFetcher) Provider() string { return "mock" }

func (m *MockFetcher) FetchDailySeries(_ context.Context, symbol string, days int) (*model.PriceSeries, error) {
	m.Calls++
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	return GenerateMockSeries(symbol, 100, days), nil
}

// GenerateMockSeries builds a gently drifting series around basePrice.
func GenerateMockSeries(symbol string, basePrice float64, count int) *model.PriceSeries {
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Time:  time.Now().AddDate(0, 0, -(count - i)),
			Close: p,
		}
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}
}
