package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PutScout/internal/model"
)

// MockMarketData returns controllable fixed data for development and testing.
// The data maps are fixed after setup; Calls is guarded so the screeners'
// worker pools can fetch concurrently.
type MockMarketData struct {
	Prices      map[string]*model.PriceSeries
	Expirations map[string][]time.Time
	Puts        map[string][]model.OptionQuote // keyed by ticker:unix
	RiskFree    float64
	RateErr     error
	Sectors     map[string]string

	mu    sync.Mutex
	Calls map[string]int
}

func (m *MockMarketData) count(key string) {
	m.mu.Lock()
	m.Calls[key]++
	m.mu.Unlock()
}

func NewMockMarketData() *MockMarketData {
	return &MockMarketData{
		Prices:      map[string]*model.PriceSeries{},
		Expirations: map[string][]time.Time{},
		Puts:        map[string][]model.OptionQuote{},
		RiskFree:    0.04,
		Sectors:     map[string]string{},
		Calls:       map[string]int{},
	}
}

func (m *MockMarketData) Name() string { return "mock" }

func putsKey(ticker string, expiration time.Time) string {
	return fmt.Sprintf("%s:%d", ticker, expiration.Unix())
}

// SetPuts registers the put chain for a (ticker, expiration) pair.
func (m *MockMarketData) SetPuts(ticker string, expiration time.Time, puts []model.OptionQuote) {
	m.Puts[putsKey(ticker, expiration)] = puts
}

func (m *MockMarketData) FetchPriceSeries(_ context.Context, ticker string) (*model.PriceSeries, error) {
	m.count("prices:" + ticker)
	series, ok := m.Prices[ticker]
	if !ok {
		return nil, fmt.Errorf("mock: no price data for %s", ticker)
	}
	return series, nil
}

func (m *MockMarketData) FetchExpirations(_ context.Context, ticker string) ([]time.Time, error) {
	m.count("expirations:" + ticker)
	dates, ok := m.Expirations[ticker]
	if !ok {
		return nil, fmt.Errorf("mock: no expirations for %s", ticker)
	}
	return dates, nil
}

func (m *MockMarketData) FetchPuts(_ context.Context, ticker string, expiration time.Time) ([]model.OptionQuote, error) {
	key := putsKey(ticker, expiration)
	m.count("puts:" + key)
	puts, ok := m.Puts[key]
	if !ok {
		return nil, fmt.Errorf("mock: no puts for %s", key)
	}
	return puts, nil
}

func (m *MockMarketData) FetchRiskFreeRate(_ context.Context) (float64, error) {
	m.count("riskfree")
	if m.RateErr != nil {
		return 0, m.RateErr
	}
	return m.RiskFree, nil
}

func (m *MockMarketData) FetchSector(_ context.Context, ticker string) (string, error) {
	m.count("sector:" + ticker)
	if sector, ok := m.Sectors[ticker]; ok {
		return sector, nil
	}
	return "N/A", nil
}

// GenerateBars builds a synthetic drifting daily series, oldest first.
func GenerateBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// SeriesFromCloses wraps raw closes in a PriceSeries, one bar per day.
func SeriesFromCloses(ticker string, closes []float64) *model.PriceSeries {
	bars := make([]model.OHLCV, len(closes))
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: base.AddDate(0, 0, i), Close: c}
	}
	return &model.PriceSeries{
		Ticker:       ticker,
		Bars:         bars,
		CurrentPrice: closes[len(closes)-1],
		FetchedAt:    base,
	}
}
