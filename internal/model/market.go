package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the ordered daily price history for one underlying.
// It is never mutated after the provider returns it.
type PriceSeries struct {
	Ticker       string
	Bars         []OHLCV
	CurrentPrice float64
	FetchedAt    time.Time
}

// Closes extracts the close prices in chronological order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Empty reports whether the series carries no usable bars.
func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Bars) == 0
}
