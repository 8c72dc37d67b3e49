package provider

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"PutScout/internal/model"
)

// Cache TTLs per data class. Prices and chains move with the market;
// expiration lists and sector labels are effectively static intraday.
const (
	priceTTL      = 15 * time.Minute
	chainTTL      = 15 * time.Minute
	expirationTTL = time.Hour
	sectorTTL     = 24 * time.Hour
	rateTTL       = time.Hour
)

// CachedMarketData decorates a MarketData with TTL memoization so repeated
// calls with the same (ticker, expiration) key are cheap. The scoring core
// never sees it; callers wire it in at construction time.
type CachedMarketData struct {
	next  MarketData
	cache *gocache.Cache
}

// NewCachedMarketData wraps next with a TTL cache.
func NewCachedMarketData(next MarketData) *CachedMarketData {
	return &CachedMarketData{
		next:  next,
		cache: gocache.New(priceTTL, 30*time.Minute),
	}
}

func (c *CachedMarketData) Name() string { return c.next.Name() + "+cache" }

func (c *CachedMarketData) FetchPriceSeries(ctx context.Context, ticker string) (*model.PriceSeries, error) {
	key := "prices:" + ticker
	if v, found := c.cache.Get(key); found {
		return v.(*model.PriceSeries), nil
	}
	series, err := c.next.FetchPriceSeries(ctx, ticker)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, series, priceTTL)
	return series, nil
}

func (c *CachedMarketData) FetchExpirations(ctx context.Context, ticker string) ([]time.Time, error) {
	key := "expirations:" + ticker
	if v, found := c.cache.Get(key); found {
		return v.([]time.Time), nil
	}
	dates, err := c.next.FetchExpirations(ctx, ticker)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, dates, expirationTTL)
	return dates, nil
}

func (c *CachedMarketData) FetchPuts(ctx context.Context, ticker string, expiration time.Time) ([]model.OptionQuote, error) {
	key := fmt.Sprintf("puts:%s:%d", ticker, expiration.Unix())
	if v, found := c.cache.Get(key); found {
		return v.([]model.OptionQuote), nil
	}
	quotes, err := c.next.FetchPuts(ctx, ticker, expiration)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, quotes, chainTTL)
	return quotes, nil
}

func (c *CachedMarketData) FetchRiskFreeRate(ctx context.Context) (float64, error) {
	key := "riskfree"
	if v, found := c.cache.Get(key); found {
		return v.(float64), nil
	}
	rate, err := c.next.FetchRiskFreeRate(ctx)
	if err != nil {
		return 0, err
	}
	c.cache.Set(key, rate, rateTTL)
	return rate, nil
}

func (c *CachedMarketData) FetchSector(ctx context.Context, ticker string) (string, error) {
	key := "sector:" + ticker
	if v, found := c.cache.Get(key); found {
		return v.(string), nil
	}
	sector, err := c.next.FetchSector(ctx, ticker)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, sector, sectorTTL)
	return sector, nil
}
