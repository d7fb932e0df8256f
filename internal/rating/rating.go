// Package rating implements the score engine: the aggregate rating for a book
// derived from its review scores, using half-point granularity with a biased
// rounding rule.
package rating

import "math"

// Round rounds a raw mean to the nearest half point, with an upward bias.
//
// The mean is first rounded to the nearest multiple of 0.5 (half away from
// zero). If that leaves a fractional part of exactly 0.5 and the raw mean sits
// 0.25 or more above the rounded value, the result is bumped up another half
// point. The bump is a business rule: half-point scores move up when the true
// mean is closer to the next whole number.
func Round(mean float64) float64 {
	rounded := math.Round(mean*2) / 2
	if rounded-math.Trunc(rounded) == 0.5 && mean-rounded >= 0.25 {
		return rounded + 0.5
	}
	return rounded
}

// Compute returns the aggregate rating for a list of review scores.
// An empty list yields 0. Otherwise the arithmetic mean of all scores is
// taken (no weighting, no outlier filtering) and passed through Round.
// Pure function: no side effects, order of scores does not matter.
func Compute(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	var total float64
	for _, s := range scores {
		total += s
	}

	return Round(total / float64(len(scores)))
}
