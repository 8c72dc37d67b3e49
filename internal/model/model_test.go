package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMidPrice(t *testing.T) {
	tests := []struct {
		name string
		q    OptionQuote
		want float64
	}{
		{"both sides", OptionQuote{Bid: 1.90, Ask: 2.10}, 2.00},
		{"ask only", OptionQuote{Ask: 2.10}, 2.10},
		{"bid only", OptionQuote{Bid: 1.90}, 1.90},
		{"no quotes", OptionQuote{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.MidPrice())
		})
	}
}

func TestIVRank(t *testing.T) {
	ind := &IndicatorSet{HVLow1y: 0.20, HVHigh1y: 0.50}

	assert.InDelta(t, 0.5, ind.IVRank(0.35), 1e-9)
	assert.Equal(t, 0.0, ind.IVRank(0.10)) // below range clamps
	assert.Equal(t, 1.0, ind.IVRank(0.80)) // above range clamps

	flat := &IndicatorSet{HVLow1y: 0.30, HVHigh1y: 0.30}
	assert.Equal(t, 0.5, flat.IVRank(0.30))
}

func TestVolRank(t *testing.T) {
	ind := &IndicatorSet{HVCurrent: 0.44, HVLow1y: 0.20, HVHigh1y: 0.50}
	assert.InDelta(t, 80, ind.VolRank(), 1e-9)

	flat := &IndicatorSet{HVCurrent: 0.30, HVLow1y: 0.30, HVHigh1y: 0.30}
	assert.Equal(t, 50.0, flat.VolRank())
}

func TestPriceSeriesEmpty(t *testing.T) {
	var nilSeries *PriceSeries
	assert.True(t, nilSeries.Empty())
	assert.True(t, (&PriceSeries{Ticker: "SPY"}).Empty())

	series := &PriceSeries{Ticker: "SPY", Bars: []OHLCV{{Close: 100}}, CurrentPrice: 100}
	assert.False(t, series.Empty())
	assert.Equal(t, []float64{100}, series.Closes())
}
