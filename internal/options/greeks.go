package options

import "math"

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// PutDelta computes the Black-Scholes delta of a European put.
// S: underlying price, K: strike, T: time to expiration in years,
// r: risk-free rate, sigma: implied volatility.
// Degenerate inputs (T <= 0 or sigma <= 0) collapse to the expiry boundary:
// 0 when OTM (S > K), -1 when ITM.
func PutDelta(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		if S > K {
			return 0
		}
		return -1
	}
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	return normCDF(d1) - 1
}

// CallDelta computes the Black-Scholes delta of a European call.
func CallDelta(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		if S > K {
			return 1
		}
		return 0
	}
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	return normCDF(d1)
}
