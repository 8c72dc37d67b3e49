package calculator

import "errors"

// CalculateSMA computes the simple moving average of the last `period` closes.
func CalculateSMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period), nil
}

// CalculateEMA computes an exponentially weighted moving average over the
// whole series with alpha = 2/(span+1), seeded with the first close.
func CalculateEMA(closes []float64, span int) (float64, error) {
	if span <= 0 {
		return 0, errors.New("span must be positive")
	}
	if len(closes) == 0 {
		return 0, errors.New("no data for EMA calculation")
	}
	alpha := 2.0 / (float64(span) + 1.0)
	ema := closes[0]
	for _, c := range closes[1:] {
		ema = alpha*c + (1-alpha)*ema
	}
	return ema, nil
}
