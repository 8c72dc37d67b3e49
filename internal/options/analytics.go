package options

import (
	"time"

	"PutScout/internal/model"
)

// DefaultMinReturn is the non-negotiable annualized-return floor applied
// before any scoring.
const DefaultMinReturn = 0.08

// Analytics holds the derived metrics for one put quote.
type Analytics struct {
	DTE              int
	Delta            float64
	AnnualizedReturn float64
	MarginOfSafety   float64
}

// DTE returns whole days until expiration, never negative for same-day.
func DTE(expiration, now time.Time) int {
	return int(expiration.Sub(now).Hours() / 24)
}

// AnnualizedReturn is the premium over capital at risk per share, scaled to a
// one-year horizon. Returns 0 when the capital at risk is non-positive.
func AnnualizedReturn(premium, strike float64, dte int) float64 {
	capitalAtRisk := strike - premium
	if capitalAtRisk <= 0 || dte <= 0 {
		return 0
	}
	return premium / capitalAtRisk * (365.0 / float64(dte))
}

// MarginOfSafety is the fraction by which the underlying price exceeds the
// strike.
func MarginOfSafety(underlying, strike float64) float64 {
	if underlying == 0 {
		return 0
	}
	return (underlying - strike) / underlying
}

// Analyze computes the analytics for one quote against the underlying price.
// It returns false when the quote fails the hard pre-filter: non-positive
// DTE, premium or strike, or an annualized return below minReturn.
func Analyze(q *model.OptionQuote, underlying, riskFreeRate, minReturn float64, now time.Time) (Analytics, bool) {
	premium := q.LastPrice
	dte := DTE(q.Expiration, now)

	if dte <= 0 || premium <= 0 || q.Strike <= 0 {
		return Analytics{}, false
	}

	annReturn := AnnualizedReturn(premium, q.Strike, dte)
	if annReturn < minReturn {
		return Analytics{}, false
	}

	T := float64(dte) / 365.0
	return Analytics{
		DTE:              dte,
		Delta:            PutDelta(underlying, q.Strike, T, riskFreeRate, q.ImpliedVolatility),
		AnnualizedReturn: annReturn,
		MarginOfSafety:   MarginOfSafety(underlying, q.Strike),
	}, true
}
