package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"PutScout/internal/calculator"
	"PutScout/internal/model"
	"PutScout/internal/options"
	"PutScout/internal/provider"
	"PutScout/internal/scoring"
)

// DefaultRiskFreeRate is substituted when the rate provider fails.
const DefaultRiskFreeRate = 0.04

// Params configures one screening run.
type Params struct {
	Universe       []string
	MinDTE         int
	MaxDTE         int
	StrikesOTM     int // strikes below spot to scan per expiration, 0 = all
	PortfolioValue float64
	MinReturn      float64
	Weights        scoring.Weights
	Bands          scoring.Bands
	Workers        int
	AsOf           time.Time // zero means now
}

// Screener runs the single-leg put pipeline over a universe of tickers.
type Screener struct {
	data     provider.MarketData
	observer Observer
}

// NewScreener creates a Screener. A nil observer is replaced with a no-op.
func NewScreener(data provider.MarketData, observer Observer) *Screener {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Screener{data: data, observer: observer}
}

// Run screens every ticker in the universe and returns all surviving
// candidates ranked by score descending, ties broken by ticker then strike.
// Tickers with missing data contribute zero candidates; only cancellation
// aborts the run.
func (s *Screener) Run(ctx context.Context, p Params) ([]model.ScoredCandidate, error) {
	if len(p.Universe) == 0 {
		return nil, nil
	}
	if p.Workers <= 0 {
		p.Workers = 4
	}
	if p.MinReturn == 0 {
		p.MinReturn = options.DefaultMinReturn
	}
	if p.AsOf.IsZero() {
		p.AsOf = time.Now()
	}

	runLog := log.WithField("run_id", uuid.New().String())
	runLog.Infof("screening %d tickers with %d workers", len(p.Universe), p.Workers)

	rate, err := s.data.FetchRiskFreeRate(ctx)
	if err != nil {
		runLog.Warnf("risk-free rate fetch failed: %v, defaulting to %.1f%%", err, DefaultRiskFreeRate*100)
		rate = DefaultRiskFreeRate
	}

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		candidates []model.ScoredCandidate
		done       int
	)
	jobs := make(chan string)

	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				found := s.scanTicker(ctx, runLog, ticker, rate, p)
				mu.Lock()
				candidates = append(candidates, found...)
				done++
				s.observer.Progress(
					fmt.Sprintf("Fetched data for %s...", ticker),
					float64(done)/float64(len(p.Universe)),
				)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, ticker := range p.Universe {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- ticker:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	Rank(candidates)
	runLog.Infof("screen complete: %d candidates", len(candidates))
	return candidates, nil
}

// scanTicker produces the scored candidates for one underlying. Any missing
// or empty data skips the ticker without error.
func (s *Screener) scanTicker(ctx context.Context, runLog *log.Entry, ticker string, rate float64, p Params) []model.ScoredCandidate {
	series, err := s.data.FetchPriceSeries(ctx, ticker)
	if err != nil || series.Empty() {
		runLog.Warnf("skipping %s: missing price data (%v)", ticker, err)
		return nil
	}

	expirations, err := s.data.FetchExpirations(ctx, ticker)
	if err != nil || len(expirations) == 0 {
		runLog.Warnf("skipping %s: no expirations (%v)", ticker, err)
		return nil
	}

	sector, err := s.data.FetchSector(ctx, ticker)
	if err != nil {
		sector = "N/A"
	}

	ind := calculator.Compute(series)
	scorer := &scoring.Model{Weights: p.Weights, Bands: p.Bands, PortfolioValue: p.PortfolioValue}

	var found []model.ScoredCandidate
	for _, expiration := range expirations {
		dte := options.DTE(expiration, p.AsOf)
		if dte < p.MinDTE || dte > p.MaxDTE {
			continue
		}

		puts, err := s.data.FetchPuts(ctx, ticker, expiration)
		if err != nil || len(puts) == 0 {
			runLog.Debugf("%s %s: no puts (%v)", ticker, expiration.Format("2006-01-02"), err)
			continue
		}

		scanned := 0
		for i := range puts {
			q := &puts[i]
			if q.Strike >= ind.CurrentPrice {
				continue // OTM puts only
			}
			if p.StrikesOTM > 0 && scanned >= p.StrikesOTM {
				break
			}
			scanned++

			analytics, ok := options.Analyze(q, ind.CurrentPrice, rate, p.MinReturn, p.AsOf)
			if !ok {
				continue
			}

			score, categories := scorer.Score(q, analytics, ind)
			found = append(found, model.ScoredCandidate{
				Ticker:           ticker,
				Expiration:       expiration,
				Strike:           q.Strike,
				Premium:          q.LastPrice,
				DTE:              analytics.DTE,
				Delta:            analytics.Delta,
				AnnualizedReturn: analytics.AnnualizedReturn,
				MarginOfSafety:   analytics.MarginOfSafety,
				IVRank:           ind.IVRank(q.ImpliedVolatility),
				Sector:           sector,
				Score:            score,
				Categories:       categories,
			})
		}
	}
	return found
}

// Rank sorts candidates by score descending, breaking ties deterministically
// by ticker, then strike, then expiration.
func Rank(candidates []model.ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Ticker != b.Ticker {
			return a.Ticker < b.Ticker
		}
		if a.Strike != b.Strike {
			return a.Strike < b.Strike
		}
		return a.Expiration.Before(b.Expiration)
	})
}

// TopPerTicker keeps at most n candidates per ticker, preserving rank order.
func TopPerTicker(candidates []model.ScoredCandidate, n int) []model.ScoredCandidate {
	if n <= 0 {
		return candidates
	}
	counts := make(map[string]int)
	out := make([]model.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if counts[c.Ticker] >= n {
			continue
		}
		counts[c.Ticker]++
		out = append(out, c)
	}
	return out
}
