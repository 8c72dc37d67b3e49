package provider

import (
	"context"
	"time"

	"PutScout/internal/model"
)

// PriceProvider returns the daily price history for one underlying. The
// provider owns fetch, retry and caching concerns.
type PriceProvider interface {
	FetchPriceSeries(ctx context.Context, ticker string) (*model.PriceSeries, error)
}

// OptionChainProvider returns put quotes per (ticker, expiration).
type OptionChainProvider interface {
	FetchExpirations(ctx context.Context, ticker string) ([]time.Time, error)
	FetchPuts(ctx context.Context, ticker string, expiration time.Time) ([]model.OptionQuote, error)
}

// RiskFreeRateProvider returns a decimal annual rate. Callers substitute a
// default when it fails; a failing rate never aborts a run.
type RiskFreeRateProvider interface {
	FetchRiskFreeRate(ctx context.Context) (float64, error)
}

// SectorProvider returns a sector label, "N/A" when unavailable.
type SectorProvider interface {
	FetchSector(ctx context.Context, ticker string) (string, error)
}

// MarketData bundles everything the screeners consume.
type MarketData interface {
	PriceProvider
	OptionChainProvider
	RiskFreeRateProvider
	SectorProvider
	Name() string
}
