package model

import "time"

// OptionQuote is one put quote from the option-chain provider.
type OptionQuote struct {
	Ticker            string
	Expiration        time.Time
	Strike            float64
	Bid               float64
	Ask               float64
	LastPrice         float64
	ImpliedVolatility float64
	Volume            float64
	OpenInterest      float64
}

// MidPrice returns (bid+ask)/2, falling back to whichever side is present.
func (q *OptionQuote) MidPrice() float64 {
	switch {
	case q.Bid > 0 && q.Ask > 0:
		return (q.Bid + q.Ask) / 2
	case q.Ask > 0:
		return q.Ask
	default:
		return q.Bid
	}
}

// AnnotatedPut is a put quote enriched with its Black-Scholes delta and the
// mid premium, as consumed by the spread constructor.
type AnnotatedPut struct {
	Strike  float64
	Delta   float64
	Premium float64
}
