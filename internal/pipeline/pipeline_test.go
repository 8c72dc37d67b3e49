package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PutScout/internal/model"
	"PutScout/internal/provider"
	"PutScout/internal/scoring"
)

var asOf = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func flatSeries(ticker string, price float64, n int) *model.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return provider.SeriesFromCloses(ticker, closes)
}

func baseParams(universe ...string) Params {
	return Params{
		Universe:       universe,
		MinDTE:         20,
		MaxDTE:         45,
		PortfolioValue: 200000,
		Weights:        scoring.Weights{ReturnOnCapital: 0.35, ProbabilitySafety: 0.35, Technicals: 0.20, RiskManagement: 0.10},
		Bands:          scoring.DefaultBands(),
		AsOf:           asOf,
	}
}

func seedTicker(data *provider.MockMarketData, ticker string) {
	expiration := asOf.AddDate(0, 0, 30)
	data.Prices[ticker] = flatSeries(ticker, 100, 300)
	data.Expirations[ticker] = []time.Time{expiration}
	data.SetPuts(ticker, expiration, []model.OptionQuote{
		// 2.00 premium at the 90 strike annualizes to ~27.7%, well past the gate.
		{Ticker: ticker, Expiration: expiration, Strike: 90, LastPrice: 2.00, Bid: 1.90, Ask: 2.10, ImpliedVolatility: 0.30},
		// 0.10 at the 95 strike annualizes to ~1.3% and must be filtered out.
		{Ticker: ticker, Expiration: expiration, Strike: 95, LastPrice: 0.10, Bid: 0.05, Ask: 0.15, ImpliedVolatility: 0.25},
		// At or above spot: not OTM, never scanned.
		{Ticker: ticker, Expiration: expiration, Strike: 100, LastPrice: 3.50, ImpliedVolatility: 0.30},
		{Ticker: ticker, Expiration: expiration, Strike: 105, LastPrice: 6.00, ImpliedVolatility: 0.30},
	})
}

func TestRun_FiltersBeforeScoring(t *testing.T) {
	data := provider.NewMockMarketData()
	seedTicker(data, "ABC")
	data.Sectors["ABC"] = "Technology"

	candidates, err := NewScreener(data, nil).Run(context.Background(), baseParams("ABC"))
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "ABC", c.Ticker)
	assert.Equal(t, 90.0, c.Strike)
	assert.Equal(t, 2.00, c.Premium)
	assert.Equal(t, 30, c.DTE)
	assert.InDelta(t, 0.2765, c.AnnualizedReturn, 0.001)
	assert.InDelta(t, 0.10, c.MarginOfSafety, 1e-9)
	assert.Equal(t, "Technology", c.Sector)
	assert.Greater(t, c.Score, 0.0)
	assert.LessOrEqual(t, c.Score, 100.0)
	assert.Len(t, c.Categories, 4)
}

func TestRun_StrikesOTMLimit(t *testing.T) {
	data := provider.NewMockMarketData()
	expiration := asOf.AddDate(0, 0, 30)
	data.Prices["ABC"] = flatSeries("ABC", 100, 300)
	data.Expirations["ABC"] = []time.Time{expiration}
	data.SetPuts("ABC", expiration, []model.OptionQuote{
		{Ticker: "ABC", Expiration: expiration, Strike: 80, LastPrice: 2.00, ImpliedVolatility: 0.40},
		{Ticker: "ABC", Expiration: expiration, Strike: 85, LastPrice: 2.00, ImpliedVolatility: 0.35},
		{Ticker: "ABC", Expiration: expiration, Strike: 90, LastPrice: 2.00, ImpliedVolatility: 0.30},
	})

	p := baseParams("ABC")
	p.StrikesOTM = 2

	candidates, err := NewScreener(data, nil).Run(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	strikes := []float64{candidates[0].Strike, candidates[1].Strike}
	assert.ElementsMatch(t, []float64{80, 85}, strikes)
}

func TestRun_SkipsMissingTickers(t *testing.T) {
	data := provider.NewMockMarketData()
	seedTicker(data, "ABC")

	candidates, err := NewScreener(data, nil).Run(context.Background(), baseParams("ABC", "GHOST"))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "ABC", candidates[0].Ticker)
}

func TestRun_Deterministic(t *testing.T) {
	data := provider.NewMockMarketData()
	for _, ticker := range []string{"ABC", "DEF", "GHI", "JKL"} {
		seedTicker(data, ticker)
	}

	p := baseParams("ABC", "DEF", "GHI", "JKL")
	p.Workers = 4

	screener := NewScreener(data, nil)
	first, err := screener.Run(context.Background(), p)
	require.NoError(t, err)
	second, err := screener.Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun_RiskFreeRateFallback(t *testing.T) {
	data := provider.NewMockMarketData()
	seedTicker(data, "ABC")
	data.RateErr = assert.AnError

	candidates, err := NewScreener(data, nil).Run(context.Background(), baseParams("ABC"))
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestRun_Cancellation(t *testing.T) {
	data := provider.NewMockMarketData()
	seedTicker(data, "ABC")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates, err := NewScreener(data, nil).Run(ctx, baseParams("ABC"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, candidates)
}

type recordingObserver struct {
	mu        sync.Mutex
	fractions []float64
}

func (r *recordingObserver) Progress(_ string, fraction float64) {
	r.mu.Lock()
	r.fractions = append(r.fractions, fraction)
	r.mu.Unlock()
}

func TestRun_ProgressReachesOne(t *testing.T) {
	data := provider.NewMockMarketData()
	seedTicker(data, "ABC")
	seedTicker(data, "DEF")

	observer := &recordingObserver{}
	_, err := NewScreener(data, observer).Run(context.Background(), baseParams("ABC", "DEF"))
	require.NoError(t, err)

	require.Len(t, observer.fractions, 2)
	assert.InDelta(t, 1.0, observer.fractions[len(observer.fractions)-1], 1e-9)
}

func TestRank_Ordering(t *testing.T) {
	exp1 := asOf.AddDate(0, 0, 30)
	exp2 := asOf.AddDate(0, 0, 37)
	candidates := []model.ScoredCandidate{
		{Ticker: "B", Strike: 90, Expiration: exp1, Score: 70},
		{Ticker: "A", Strike: 95, Expiration: exp1, Score: 70},
		{Ticker: "A", Strike: 90, Expiration: exp2, Score: 70},
		{Ticker: "A", Strike: 90, Expiration: exp1, Score: 70},
		{Ticker: "C", Strike: 80, Expiration: exp1, Score: 85},
	}

	Rank(candidates)

	assert.Equal(t, "C", candidates[0].Ticker) // highest score first
	assert.Equal(t, "A", candidates[1].Ticker)
	assert.Equal(t, exp1, candidates[1].Expiration)
	assert.Equal(t, exp2, candidates[2].Expiration)
	assert.Equal(t, 95.0, candidates[3].Strike)
	assert.Equal(t, "B", candidates[4].Ticker)
}

func TestTopPerTicker(t *testing.T) {
	candidates := []model.ScoredCandidate{
		{Ticker: "A", Score: 90},
		{Ticker: "A", Score: 85},
		{Ticker: "B", Score: 80},
		{Ticker: "A", Score: 75},
		{Ticker: "B", Score: 70},
	}

	top := TopPerTicker(candidates, 2)
	require.Len(t, top, 4)
	assert.Equal(t, 90.0, top[0].Score)
	assert.Equal(t, 85.0, top[1].Score)
	assert.Equal(t, 80.0, top[2].Score)
	assert.Equal(t, 70.0, top[3].Score)

	assert.Len(t, TopPerTicker(candidates, 0), 5) // n <= 0 keeps everything
}
