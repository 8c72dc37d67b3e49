package scoring

// LinearScale maps a raw metric value onto a 0~5 sub-score by clamped linear
// interpolation between worst and best. When best < worst the metric is
// lower-is-better and the scale runs downward. LinearScale(worst, worst, best)
// is always 0 and LinearScale(best, worst, best) is always 5.
func LinearScale(value, worst, best float64) float64 {
	if worst == best {
		return 0
	}
	lo, hi := worst, best
	if lo > hi {
		lo, hi = hi, lo
	}
	if value < lo {
		value = lo
	}
	if value > hi {
		value = hi
	}
	return 5 * (value - worst) / (best - worst)
}
