package spread

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"PutScout/internal/calculator"
	"PutScout/internal/model"
	"PutScout/internal/options"
	"PutScout/internal/pipeline"
	"PutScout/internal/provider"
)

// Screener stage gates, in order: universe -> macro (volatility rank) ->
// structure (spread construction) -> technical confluence (informational).

// Params configures a stage-gated screener run. Zero values mean "use the
// default", not "disable": the macro gate and the credit rule are always on.
type Params struct {
	Universe       []string
	MinVolRank     float64 // percent, 0 means default 40
	MinDTE         int     // 0 means default 30
	MaxDTE         int     // 0 means default 50
	Legs           LegBands  // zero value means DefaultLegBands
	MinCreditRatio float64   // 0 means default 1/3
	AsOf           time.Time // zero means now
}

func (p *Params) setDefaults() {
	if p.MinVolRank == 0 {
		p.MinVolRank = 40
	}
	if p.MinDTE == 0 {
		p.MinDTE = 30
	}
	if p.MaxDTE == 0 {
		p.MaxDTE = 50
	}
	if p.Legs == (LegBands{}) {
		p.Legs = DefaultLegBands()
	}
	if p.MinCreditRatio == 0 {
		p.MinCreditRatio = DefaultMinCreditRatio
	}
	if p.AsOf.IsZero() {
		p.AsOf = time.Now()
	}
}

// Screener runs the stage-gated bull put spread screen.
type Screener struct {
	data     provider.MarketData
	observer pipeline.Observer
}

// NewScreener creates a Screener. A nil observer is replaced with a no-op.
func NewScreener(data provider.MarketData, observer pipeline.Observer) *Screener {
	if observer == nil {
		observer = pipeline.NoopObserver{}
	}
	return &Screener{data: data, observer: observer}
}

// Screen evaluates every universe symbol and returns one result per symbol,
// PASS and FAIL alike. Symbols are processed in order; cancellation is
// checked before each symbol's fetch.
func (s *Screener) Screen(ctx context.Context, p Params) ([]model.ScreenResult, error) {
	p.setDefaults()

	rate, err := s.data.FetchRiskFreeRate(ctx)
	if err != nil {
		log.Warnf("risk-free rate fetch failed: %v, defaulting to %.1f%%", err, pipeline.DefaultRiskFreeRate*100)
		rate = pipeline.DefaultRiskFreeRate
	}
	log.Infof("running put spread screener on %d symbols, risk-free rate %.4f", len(p.Universe), rate)

	results := make([]model.ScreenResult, 0, len(p.Universe))
	for i, symbol := range p.Universe {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.screenSymbol(ctx, symbol, rate, p))
		s.observer.Progress(
			fmt.Sprintf("Screened %s...", symbol),
			float64(i+1)/float64(len(p.Universe)),
		)
	}
	return results, nil
}

func fail(symbol, reason string, volRank, price float64) model.ScreenResult {
	log.Debugf("%s: FAIL: %s", symbol, reason)
	return model.ScreenResult{
		Symbol:       symbol,
		Status:       model.StatusFail,
		Reason:       reason,
		VolRank:      volRank,
		CurrentPrice: price,
	}
}

func (s *Screener) screenSymbol(ctx context.Context, symbol string, rate float64, p Params) model.ScreenResult {
	series, err := s.data.FetchPriceSeries(ctx, symbol)
	if err != nil || series.Empty() {
		return fail(symbol, fmt.Sprintf("Could not retrieve valid stock data for %s.", symbol), 0, 0)
	}
	ind := calculator.Compute(series)

	// Stage 2: macro environment filter
	volRank := ind.VolRank()
	if volRank < p.MinVolRank {
		reason := fmt.Sprintf("Volatility Rank is %.2f%%. (Requirement: >%.0f%%)", volRank, p.MinVolRank)
		return fail(symbol, reason, volRank, ind.CurrentPrice)
	}

	// Stage 3: trade structure filter
	chain, dte, reason := s.annotatedChain(ctx, symbol, ind.CurrentPrice, rate, p)
	if chain == nil {
		return fail(symbol, reason, volRank, ind.CurrentPrice)
	}
	candidate, reason := FindBestPutSpread(chain, p.Legs, p.MinCreditRatio)
	if candidate == nil {
		return fail(symbol, reason, volRank, ind.CurrentPrice)
	}

	// Stage 4: technical confluence score, informational only
	techScore := 0
	if ind.CurrentPrice > ind.SMA50 {
		techScore++
	}
	if ind.RSI14 < 70 {
		techScore++
	}

	log.Debugf("%s: PASS: %d DTE spread %g/%g, tech score %d/2",
		symbol, dte, candidate.ShortStrike, candidate.LongStrike, techScore)
	return model.ScreenResult{
		Symbol:       symbol,
		Status:       model.StatusPass,
		Reason:       reason,
		VolRank:      volRank,
		TechScore:    techScore,
		CurrentPrice: ind.CurrentPrice,
		Spread:       candidate,
	}
}

// annotatedChain fetches the put chain for the first expiration inside the
// DTE window and annotates each put with its Black-Scholes delta and mid
// premium. Returns nil and a reason when no usable chain exists.
func (s *Screener) annotatedChain(ctx context.Context, symbol string, underlying, rate float64, p Params) ([]model.AnnotatedPut, int, string) {
	expirations, err := s.data.FetchExpirations(ctx, symbol)
	if err != nil || len(expirations) == 0 {
		return nil, 0, fmt.Sprintf("Could not build options chain. Reason: no expirations for %s.", symbol)
	}

	var (
		target time.Time
		dte    int
	)
	for _, expiration := range expirations {
		d := options.DTE(expiration, p.AsOf)
		if d >= p.MinDTE && d <= p.MaxDTE {
			target, dte = expiration, d
			break
		}
	}
	if target.IsZero() {
		return nil, 0, fmt.Sprintf("No suitable expiration found in %d-%d DTE range.", p.MinDTE, p.MaxDTE)
	}

	puts, err := s.data.FetchPuts(ctx, symbol, target)
	if err != nil || len(puts) == 0 {
		return nil, 0, "No puts found for the selected expiration."
	}

	T := float64(dte) / 365.25
	chain := make([]model.AnnotatedPut, 0, len(puts))
	for i := range puts {
		q := &puts[i]
		if q.Strike <= 0 {
			continue
		}
		chain = append(chain, model.AnnotatedPut{
			Strike:  q.Strike,
			Delta:   options.PutDelta(underlying, q.Strike, T, rate, q.ImpliedVolatility),
			Premium: q.MidPrice(),
		})
	}
	return chain, dte, ""
}
