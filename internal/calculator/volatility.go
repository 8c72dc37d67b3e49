package calculator

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"
)

// TradingDaysPerYear is the annualization factor for daily volatility.
const TradingDaysPerYear = 252

// LogReturns computes day-over-day log returns. Bars with a non-positive
// close on either side of the step are skipped.
func LogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i] <= 0 || closes[i-1] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	return returns
}

// RollingHV computes the rolling annualized historical volatility: the sample
// standard deviation of log returns over each `window`-sized slice, scaled by
// sqrt(252). The result has one entry per complete window, oldest first.
func RollingHV(closes []float64, window int) ([]float64, error) {
	if window <= 1 {
		return nil, errors.New("window must be greater than 1")
	}
	returns := LogReturns(closes)
	if len(returns) < window {
		return nil, errors.New("not enough data for rolling volatility")
	}
	vols := make([]float64, 0, len(returns)-window+1)
	for i := window; i <= len(returns); i++ {
		sd, err := stats.StandardDeviationSample(returns[i-window : i])
		if err != nil {
			return nil, err
		}
		vols = append(vols, sd*math.Sqrt(TradingDaysPerYear))
	}
	return vols, nil
}

// HVRange returns the current, minimum and maximum of a rolling volatility
// series, used downstream as the one-year IV-Rank proxy range.
func HVRange(vols []float64) (current, low, high float64, err error) {
	if len(vols) == 0 {
		return 0, 0, 0, errors.New("empty volatility series")
	}
	current = vols[len(vols)-1]
	low, err = stats.Min(vols)
	if err != nil {
		return 0, 0, 0, err
	}
	high, err = stats.Max(vols)
	if err != nil {
		return 0, 0, 0, err
	}
	return current, low, high, nil
}
