package calculator

import (
	log "github.com/sirupsen/logrus"

	"PutScout/internal/model"
)

// HVWindow is the rolling window, in trading days, for historical volatility.
const HVWindow = 30

// Compute derives the full IndicatorSet from one price series. Individual
// indicator failures fall back to neutral values with a warning; they never
// abort the ticker.
func Compute(series *model.PriceSeries) *model.IndicatorSet {
	closes := series.Closes()
	ind := &model.IndicatorSet{CurrentPrice: series.CurrentPrice}

	if rsi, err := CalculateRSI(closes, 14); err != nil {
		log.Warnf("%s: RSI calculation failed: %v, defaulting to 50", series.Ticker, err)
		ind.RSI14 = 50
	} else {
		ind.RSI14 = rsi
	}

	if sma, err := CalculateSMA(closes, 50); err != nil {
		log.Warnf("%s: SMA50 calculation failed: %v, using current price", series.Ticker, err)
		ind.SMA50 = series.CurrentPrice
	} else {
		ind.SMA50 = sma
	}

	if sma, err := CalculateSMA(closes, 200); err != nil {
		log.Warnf("%s: SMA200 calculation failed: %v, using current price", series.Ticker, err)
		ind.SMA200 = series.CurrentPrice
	} else {
		ind.SMA200 = sma
	}

	vols, err := RollingHV(closes, HVWindow)
	if err != nil {
		log.Warnf("%s: rolling volatility failed: %v, leaving range flat", series.Ticker, err)
		return ind
	}
	cur, low, high, err := HVRange(vols)
	if err != nil {
		log.Warnf("%s: volatility range failed: %v, leaving range flat", series.Ticker, err)
		return ind
	}
	ind.HVCurrent = cur
	ind.HVLow1y = low
	ind.HVHigh1y = high
	return ind
}
