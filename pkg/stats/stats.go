// Package stats provides statistical helpers shared by analyzers and
// report output.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes a sample of observations.
type Distribution struct {
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	Max  float64 `json:"max"`
}

// Describe computes summary statistics over values. The input is copied
// before sorting, so callers keep their ordering. An empty sample yields
// zeroes.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean: stat.Mean(sorted, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:  sorted[len(sorted)-1],
	}
}

// Percentile calculates the p-th percentile of a sorted slice.
// The slice must already be sorted in ascending order.
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(float64(p)/100, stat.Empirical, sorted, nil)
}
