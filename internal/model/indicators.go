package model

// IndicatorSet holds all technical indicators derived from one PriceSeries.
// Recomputed in full on every fetch; there is no incremental update.
type IndicatorSet struct {
	CurrentPrice float64
	RSI14        float64 // 0~100, 50 when undefined
	SMA50        float64
	SMA200       float64
	HVCurrent    float64 // latest 30-day annualized historical volatility
	HVLow1y      float64
	HVHigh1y     float64
}

// IVRank places iv inside the trailing one-year historical-volatility range,
// clamped to [0,1]. A flat range yields the neutral 0.5.
func (ind *IndicatorSet) IVRank(iv float64) float64 {
	if ind.HVHigh1y == ind.HVLow1y {
		return 0.5
	}
	rank := (iv - ind.HVLow1y) / (ind.HVHigh1y - ind.HVLow1y)
	if rank < 0 {
		return 0
	}
	if rank > 1 {
		return 1
	}
	return rank
}

// VolRank is the percentage variant used by the macro gate: where the current
// 30-day volatility sits in its one-year range, 0~100. Flat range yields 50.
func (ind *IndicatorSet) VolRank() float64 {
	if ind.HVHigh1y == ind.HVLow1y {
		return 50
	}
	return (ind.HVCurrent - ind.HVLow1y) / (ind.HVHigh1y - ind.HVLow1y) * 100
}
