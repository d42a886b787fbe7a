package tree

// mean returns the arithmetic mean of values. Callers guarantee a non-empty
// slice; the stopping rules never produce an empty target set.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// allEqual reports whether every element equals the first one. Exact float64
// equality is intentional: the purity stopping rule is defined without an
// epsilon tolerance.
func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// variance returns the population variance (divisor n, not n-1). An empty
// slice has variance 0 by convention, so an empty partition contributes
// nothing to a weighted score.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

// weightedVariance is the split score: the sample-size-weighted average of
// the two partitions' population variances. Lower is better.
func weightedVariance(left, right []float64) float64 {
	nl := float64(len(left))
	nr := float64(len(right))
	return (nl*variance(left) + nr*variance(right)) / (nl + nr)
}
