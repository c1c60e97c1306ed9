// Package selector implements the weighted selector / biased wheel: given
// weights with a known sum and a target, returns the least index whose
// cumulative weight exceeds the target.
package selector

import "errors"

// ErrEmptyDistribution is returned by Pick when sum == 0.
var ErrEmptyDistribution = errors.New("selector: empty distribution")

// Pick returns the least i such that the cumulative sum of weights[0..i]
// exceeds target, given the precomputed sum so callers avoid a
// re-summation on every draw. A weight of zero is never returned.
func Pick(weights []float64, sum float64, target float64) (int, error) {
	if sum <= 0 {
		return 0, ErrEmptyDistribution
	}
	var cum float64
	for i, w := range weights {
		cum += w
		if cum > target {
			return i, nil
		}
	}
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i, nil
		}
	}
	return 0, ErrEmptyDistribution
}

// PickUniform draws target = u*sum from a uniform u in [0,1) and picks
// against weights, the common case for a fresh stochastic draw.
func PickUniform(weights []float64, sum float64, u float64) (int, error) {
	return Pick(weights, sum, u*sum)
}
