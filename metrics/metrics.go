// Package metrics computes concentration statistics over a weight distribution,
// such as per-country stake sums or per-country node counts.
package metrics

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// Gini returns the Gini coefficient of the positive values in the input.
// 0 means a perfectly even distribution, values close to 1 mean that almost
// all of the weight sits with a single entity.
func Gini(values []float64) float64 {
	a := positive(values)
	n := len(a)
	if n <= 1 {
		return 0.0
	}
	sort.Float64s(a)

	total, err := stats.Sum(a)
	if err != nil || total == 0 {
		return 0.0
	}
	var numerator float64
	for i, v := range a {
		rank := float64(i + 1)
		numerator += (2*rank - float64(n) - 1) * v
	}
	return numerator / (float64(n) * total)
}

// Nakamoto returns the minimum number of top entities whose combined weight
// reaches at least half of the total.
func Nakamoto(values []float64) int {
	a := positive(values)
	if len(a) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(a)))

	total, err := stats.Sum(a)
	if err != nil {
		return 0
	}
	var cumulative float64
	for i, v := range a {
		cumulative += v
		if cumulative >= total/2 {
			return i + 1
		}
	}
	return len(a)
}

// positive copies the values greater than zero so callers' slices are never reordered.
func positive(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}
